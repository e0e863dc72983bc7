package permissions

import (
	"testing"

	"project-collab-api/internal/models"
	"project-collab-api/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUsers(t *testing.T, db *gorm.DB) (admin, alice, bob models.User) {
	t.Helper()
	admin = models.User{Name: "admin", Email: "admin@example.com", Password: "x", IsAdmin: true}
	alice = models.User{Name: "alice", Email: "alice@example.com", Password: "x"}
	bob = models.User{Name: "bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)
	return
}

func TestCanRead(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	admin, alice, bob := seedUsers(t, db)

	project := models.Work{Name: "P", Type: models.TypeProject}
	require.NoError(t, db.Create(&project).Error)
	require.NoError(t, db.Model(&project).Association("Participants").Append(&alice))

	ok, err := CanRead(db, &project, &admin)
	require.NoError(t, err)
	require.True(t, ok, "admins can always read")

	ok, err = CanRead(db, &project, &alice)
	require.NoError(t, err)
	require.True(t, ok, "direct participant can read")

	ok, err = CanRead(db, &project, &bob)
	require.NoError(t, err)
	require.False(t, ok, "outsider cannot read")
}

func TestCanWrite_MatchesCanRead(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	_, alice, bob := seedUsers(t, db)

	project := models.Work{Name: "P", Type: models.TypeProject}
	require.NoError(t, db.Create(&project).Error)
	require.NoError(t, db.Model(&project).Association("Participants").Append(&alice))

	ok, err := CanWrite(db, &project, &alice)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = CanWrite(db, &project, &bob)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEffectiveParticipants_InheritsAndDedupes(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	admin, alice, bob := seedUsers(t, db)

	project := models.Work{Name: "P", Type: models.TypeProject}
	require.NoError(t, db.Create(&project).Error)
	require.NoError(t, db.Model(&project).Association("Participants").Append(&alice, &bob))

	task := models.Work{Name: "T", Type: models.TypeTask, ParentID: &project.ID}
	require.NoError(t, db.Create(&task).Error)
	// bob is on both the task and the project; he must appear once
	require.NoError(t, db.Model(&task).Association("Participants").Append(&bob))

	users, err := EffectiveParticipants(db, &task)
	require.NoError(t, err)

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	require.ElementsMatch(t, []uint{admin.ID, alice.ID, bob.ID}, ids)
}
