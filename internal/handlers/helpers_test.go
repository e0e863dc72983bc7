package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"project-collab-api/internal/auth"
	"project-collab-api/internal/database"
	"project-collab-api/internal/middleware"
	"project-collab-api/internal/models"
	"project-collab-api/internal/notify"
	"project-collab-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeMailer captures outgoing mail instead of sending it.
type fakeMailer struct {
	sent []sentMail
}

type sentMail struct {
	To      []string
	Subject string
	Body    string
}

func (f *fakeMailer) Send(to []string, subject, body string) error {
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func setupTest(t *testing.T) (*gorm.DB, *fakeMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db

	mailer := &fakeMailer{}
	notify.SetMailer(mailer)
	return db, mailer
}

func seedUser(t *testing.T, db *gorm.DB, name string, admin, employee bool) *models.User {
	t.Helper()
	user := models.User{
		Name:       name,
		Email:      name + "@example.com",
		Password:   "x",
		IsAdmin:    admin,
		IsEmployee: employee,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedProject(t *testing.T, db *gorm.DB, name string, participants ...*models.User) *models.Work {
	t.Helper()
	project := models.Work{
		Name:   name,
		Type:   models.TypeProject,
		State:  models.StateOpened,
		Active: true,
	}
	require.NoError(t, db.Create(&project).Error)
	for _, p := range participants {
		require.NoError(t, db.Model(&project).Association("Participants").Append(p))
	}
	return &project
}

func seedTask(t *testing.T, db *gorm.DB, project *models.Work, name string) *models.Work {
	t.Helper()
	task := models.Work{
		Name:          name,
		Type:          models.TypeTask,
		State:         models.StateOpened,
		ProgressState: models.ProgressBacklog,
		Active:        true,
		ParentID:      &project.ID,
	}
	require.NoError(t, db.Create(&task).Error)
	return &task
}

// doJSON performs an authenticated JSON request against a fresh router.
func doJSON(t *testing.T, register func(*gin.Engine), user *models.User, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(middleware.JWTAuthMiddleware())
	register(r)

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")

	token, err := auth.GenerateToken(user.ID, user.Email)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	out := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
