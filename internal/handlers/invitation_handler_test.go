package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"project-collab-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func invitationRoutes(r *gin.Engine) {
	r.POST("/api/projects/:id/invitations", Invite)
	r.DELETE("/api/projects/:id/invitations/:invitation_id", RemoveInvitation)
}

func TestInvite_UnknownEmailCreatesInvitation(t *testing.T) {
	db, mailer := setupTest(t)
	admin := seedUser(t, db, "alice", true, false)
	project := seedProject(t, db, "Apollo", admin)

	w := doJSON(t, invitationRoutes, admin, http.MethodPost,
		fmt.Sprintf("/api/projects/%d/invitations", project.ID),
		map[string]any{"email": "newcomer@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	var invite models.Invitation
	require.NoError(t, db.Where("email = ?", "newcomer@example.com").First(&invite).Error)
	require.True(t, invite.Pending())
	require.Len(t, invite.Code, 20)

	require.Len(t, mailer.sent, 1)
	require.Equal(t, []string{"newcomer@example.com"}, mailer.sent[0].To)
	require.Contains(t, mailer.sent[0].Body, invite.Code)
}

func TestInvite_ExistingUserJoinsDirectly(t *testing.T) {
	db, mailer := setupTest(t)
	admin := seedUser(t, db, "alice", true, false)
	bob := seedUser(t, db, "bob", false, true)
	project := seedProject(t, db, "Apollo", admin)

	w := doJSON(t, invitationRoutes, admin, http.MethodPost,
		fmt.Sprintf("/api/projects/%d/invitations", project.ID),
		map[string]any{"email": bob.Email})
	require.Equal(t, http.StatusOK, w.Code)

	var participants []models.User
	require.NoError(t, db.Model(project).Association("Participants").Find(&participants))
	ids := []uint{}
	for _, p := range participants {
		ids = append(ids, p.ID)
	}
	require.Contains(t, ids, bob.ID)

	var count int64
	require.NoError(t, db.Model(&models.Invitation{}).Count(&count).Error)
	require.Zero(t, count)

	require.Len(t, mailer.sent, 1)
	require.Equal(t, []string{bob.Email}, mailer.sent[0].To)
}

func TestInvite_RequiresAdmin(t *testing.T) {
	db, _ := setupTest(t)
	bob := seedUser(t, db, "bob", false, true)
	project := seedProject(t, db, "Apollo", bob)

	w := doJSON(t, invitationRoutes, bob, http.MethodPost,
		fmt.Sprintf("/api/projects/%d/invitations", project.ID),
		map[string]any{"email": "x@example.com"})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegister_WithInvitationCodeJoinsProject(t *testing.T) {
	db, mailer := setupTest(t)
	admin := seedUser(t, db, "alice", true, false)
	project := seedProject(t, db, "Apollo", admin)

	w := doJSON(t, invitationRoutes, admin, http.MethodPost,
		fmt.Sprintf("/api/projects/%d/invitations", project.ID),
		map[string]any{"email": "newcomer@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	var invite models.Invitation
	require.NoError(t, db.Where("email = ?", "newcomer@example.com").First(&invite).Error)

	r := gin.New()
	r.POST("/api/register", Register)
	payload := map[string]any{
		"name":           "newcomer",
		"email":          "newcomer@example.com",
		"password":       "supersecret",
		"invitationCode": invite.Code,
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var accepted models.Invitation
	require.NoError(t, db.First(&accepted, invite.ID).Error)
	require.False(t, accepted.Pending())
	require.Empty(t, accepted.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "newcomer@example.com").First(&user).Error)
	var participants []models.User
	require.NoError(t, db.Model(project).Association("Participants").Find(&participants))
	found := false
	for _, p := range participants {
		if p.ID == user.ID {
			found = true
		}
	}
	require.True(t, found)

	// Invitation mail plus the acceptance mail to the admin.
	require.Len(t, mailer.sent, 2)
	require.Equal(t, []string{admin.Email}, mailer.sent[1].To)
}

func TestRemoveInvitation_PendingOnly(t *testing.T) {
	db, _ := setupTest(t)
	admin := seedUser(t, db, "alice", true, false)
	project := seedProject(t, db, "Apollo", admin)

	invite := models.Invitation{Email: "x@example.com", Code: "c", ProjectID: project.ID, UserID: &admin.ID}
	require.NoError(t, db.Create(&invite).Error)

	w := doJSON(t, invitationRoutes, admin, http.MethodDelete,
		fmt.Sprintf("/api/projects/%d/invitations/%d", project.ID, invite.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
