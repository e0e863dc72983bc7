package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"project-collab-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func taskRoutes(r *gin.Engine) {
	r.GET("/api/projects/:id/tasks", GetProjectTasks)
	r.POST("/api/projects/:id/tasks", CreateTask)
	r.GET("/api/tasks/:id", GetTask)
	r.POST("/api/tasks/:id/updates", UpdateTask)
	r.PATCH("/api/tasks/:id/assignee", AssignTask)
	r.DELETE("/api/tasks/:id/assignee", ClearAssignee)
	r.PATCH("/api/tasks/:id/progress", ChangeProgressState)
	r.DELETE("/api/tasks/:id", DeleteTask)
	r.GET("/api/my-tasks", GetMyTasks)
}

func TestCreateTask_AssigneeNotifiedAndHistorized(t *testing.T) {
	db, mailer := setupTest(t)
	admin := seedUser(t, db, "alice", true, false)
	bob := seedUser(t, db, "bob", false, true)
	project := seedProject(t, db, "Apollo", admin, bob)

	payload := map[string]any{
		"name":       "Design review",
		"assignedTo": bob.ID,
	}
	w := doJSON(t, taskRoutes, admin, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), payload)
	require.Equal(t, http.StatusCreated, w.Code)

	var task models.Work
	require.NoError(t, db.Where("type = ? AND name = ?", models.TypeTask, "Design review").First(&task).Error)
	require.NotNil(t, task.AssignedToID)
	require.Equal(t, bob.ID, *task.AssignedToID)

	var rows []models.History
	require.NoError(t, db.Where("work_id = ?", task.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].PreviousAssignedToID)
	require.Equal(t, bob.ID, *rows[0].NewAssignedToID)

	require.Len(t, mailer.sent, 1)
	require.Equal(t, []string{bob.Email}, mailer.sent[0].To)
	require.Contains(t, mailer.sent[0].Subject, fmt.Sprintf("[#%d Apollo]", task.ID))
}

func TestCreateTask_NoAssigneeMailsParticipants(t *testing.T) {
	db, mailer := setupTest(t)
	admin := seedUser(t, db, "alice", true, false)
	bob := seedUser(t, db, "bob", false, true)
	project := seedProject(t, db, "Apollo", bob)

	w := doJSON(t, taskRoutes, admin, http.MethodPost,
		fmt.Sprintf("/api/projects/%d/tasks", project.ID), map[string]any{"name": "Kickoff"})
	require.Equal(t, http.StatusCreated, w.Code)

	require.Len(t, mailer.sent, 1)
	// The actor never mails themselves, so only bob hears about it.
	require.Equal(t, []string{bob.Email}, mailer.sent[0].To)
}

func TestUpdateTask_CommentOnlySingleHistoryRow(t *testing.T) {
	db, _ := setupTest(t)
	bob := seedUser(t, db, "bob", false, true)
	project := seedProject(t, db, "Apollo", bob)
	task := seedTask(t, db, project, "Kickoff")

	w := doJSON(t, taskRoutes, bob, http.MethodPost,
		fmt.Sprintf("/api/tasks/%d/updates", task.ID), map[string]any{"comment": "looks good"})
	require.Equal(t, http.StatusOK, w.Code)

	var rows []models.History
	require.NoError(t, db.Where("work_id = ?", task.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, "looks good", rows[0].Comment)
	require.Empty(t, rows[0].NewState)
}

func TestUpdateTask_CombinedChangeSingleHistoryRow(t *testing.T) {
	db, mailer := setupTest(t)
	bob := seedUser(t, db, "bob", false, true)
	carol := seedUser(t, db, "carol", false, true)
	project := seedProject(t, db, "Apollo", bob, carol)
	task := seedTask(t, db, project, "Kickoff")

	payload := map[string]any{
		"comment":    "done and handed over",
		"state":      "done",
		"assignedTo": fmt.Sprint(carol.ID),
	}
	w := doJSON(t, taskRoutes, bob, http.MethodPost,
		fmt.Sprintf("/api/tasks/%d/updates", task.ID), payload)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []models.History
	require.NoError(t, db.Where("work_id = ?", task.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, models.StateOpened, rows[0].PreviousState)
	require.Equal(t, models.StateDone, rows[0].NewState)
	require.Equal(t, carol.ID, *rows[0].NewAssignedToID)

	var fresh models.Work
	require.NoError(t, db.First(&fresh, task.ID).Error)
	require.Equal(t, models.StateDone, fresh.State)
	require.Equal(t, carol.ID, *fresh.AssignedToID)

	// Assignment changed, so the new assignee is the sole receiver.
	require.Len(t, mailer.sent, 1)
	require.Equal(t, []string{carol.Email}, mailer.sent[0].To)
}

func TestUpdateTask_EmptyAssigneeClears(t *testing.T) {
	db, _ := setupTest(t)
	bob := seedUser(t, db, "bob", false, true)
	project := seedProject(t, db, "Apollo", bob)
	task := seedTask(t, db, project, "Kickoff")
	require.NoError(t, db.Model(task).Update("assigned_to_id", bob.ID).Error)
	task.AssignedToID = &bob.ID

	payload := map[string]any{"comment": "unassigning", "assignedTo": ""}
	w := doJSON(t, taskRoutes, bob, http.MethodPost,
		fmt.Sprintf("/api/tasks/%d/updates", task.ID), payload)
	require.Equal(t, http.StatusOK, w.Code)

	var fresh models.Work
	require.NoError(t, db.First(&fresh, task.ID).Error)
	require.Nil(t, fresh.AssignedToID)

	var rows []models.History
	require.NoError(t, db.Where("work_id = ?", task.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, bob.ID, *rows[0].PreviousAssignedToID)
	require.Nil(t, rows[0].NewAssignedToID)
}

func TestUpdateTask_ProgressStateNeedsEmployee(t *testing.T) {
	db, _ := setupTest(t)
	guest := seedUser(t, db, "guest", false, false)
	project := seedProject(t, db, "Apollo", guest)
	task := seedTask(t, db, project, "Kickoff")

	payload := map[string]any{"comment": "moving", "progressState": "Planning"}
	w := doJSON(t, taskRoutes, guest, http.MethodPost,
		fmt.Sprintf("/api/tasks/%d/updates", task.ID), payload)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateTask_ActorBecomesParticipant(t *testing.T) {
	db, _ := setupTest(t)
	admin := seedUser(t, db, "alice", true, false)
	project := seedProject(t, db, "Apollo")
	task := seedTask(t, db, project, "Kickoff")

	w := doJSON(t, taskRoutes, admin, http.MethodPost,
		fmt.Sprintf("/api/tasks/%d/updates", task.ID), map[string]any{"comment": "noted"})
	require.Equal(t, http.StatusOK, w.Code)

	var participants []models.User
	require.NoError(t, db.Model(task).Association("Participants").Find(&participants))
	require.Len(t, participants, 1)
	require.Equal(t, admin.ID, participants[0].ID)
}

func TestAssignTask_OutsiderRejected(t *testing.T) {
	db, _ := setupTest(t)
	admin := seedUser(t, db, "alice", true, false)
	outsider := seedUser(t, db, "mallory", false, true)
	project := seedProject(t, db, "Apollo", admin)
	task := seedTask(t, db, project, "Kickoff")

	w := doJSON(t, taskRoutes, admin, http.MethodPatch,
		fmt.Sprintf("/api/tasks/%d/assignee", task.ID), map[string]any{"userId": outsider.ID})
	require.Equal(t, http.StatusForbidden, w.Code)

	var fresh models.Work
	require.NoError(t, db.First(&fresh, task.ID).Error)
	require.Nil(t, fresh.AssignedToID)
}

func TestGetTask_NonParticipantForbidden(t *testing.T) {
	db, _ := setupTest(t)
	bob := seedUser(t, db, "bob", false, true)
	outsider := seedUser(t, db, "mallory", false, true)
	project := seedProject(t, db, "Apollo", bob)
	task := seedTask(t, db, project, "Kickoff")

	w := doJSON(t, taskRoutes, outsider, http.MethodGet,
		fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteTask_SoftDeleteHidesTask(t *testing.T) {
	db, _ := setupTest(t)
	admin := seedUser(t, db, "alice", true, false)
	project := seedProject(t, db, "Apollo", admin)
	task := seedTask(t, db, project, "Kickoff")

	w := doJSON(t, taskRoutes, admin, http.MethodDelete,
		fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fresh models.Work
	require.NoError(t, db.First(&fresh, task.ID).Error)
	require.False(t, fresh.Active)

	w = doJSON(t, taskRoutes, admin, http.MethodGet,
		fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTask_RequiresAdmin(t *testing.T) {
	db, _ := setupTest(t)
	bob := seedUser(t, db, "bob", false, true)
	project := seedProject(t, db, "Apollo", bob)
	task := seedTask(t, db, project, "Kickoff")

	w := doJSON(t, taskRoutes, bob, http.MethodDelete,
		fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetProjectTasks_StateFilterAndCounts(t *testing.T) {
	db, _ := setupTest(t)
	bob := seedUser(t, db, "bob", false, true)
	project := seedProject(t, db, "Apollo", bob)
	seedTask(t, db, project, "open one")
	done := seedTask(t, db, project, "done one")
	require.NoError(t, db.Model(done).Update("state", models.StateDone).Error)

	w := doJSON(t, taskRoutes, bob, http.MethodGet,
		fmt.Sprintf("/api/projects/%d/tasks?state=done", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.JSONEq(t, `{"opened":1,"done":1,"all":2}`, string(body["counts"]))

	var tasks []models.Work
	require.NoError(t, json.Unmarshal(body["tasks"], &tasks))
	require.Len(t, tasks, 1)
	require.Equal(t, "done one", tasks[0].Name)
}

func TestGetMyTasks_OnlyOwnAssignments(t *testing.T) {
	db, _ := setupTest(t)
	bob := seedUser(t, db, "bob", false, true)
	carol := seedUser(t, db, "carol", false, true)
	project := seedProject(t, db, "Apollo", bob, carol)
	mine := seedTask(t, db, project, "mine")
	other := seedTask(t, db, project, "other")
	require.NoError(t, db.Model(mine).Update("assigned_to_id", bob.ID).Error)
	require.NoError(t, db.Model(other).Update("assigned_to_id", carol.ID).Error)

	w := doJSON(t, taskRoutes, bob, http.MethodGet, "/api/my-tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	var tasks []models.Work
	require.NoError(t, json.Unmarshal(body["tasks"], &tasks))
	require.Len(t, tasks, 1)
	require.Equal(t, "mine", tasks[0].Name)
}
