package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"project-collab-api/internal/database"
	"project-collab-api/internal/history"
	"project-collab-api/internal/models"
	"project-collab-api/internal/notify"
	"project-collab-api/internal/permissions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Name                 string  `json:"name" binding:"required"`
	Description          string  `json:"description"`
	AssignedTo           uint    `json:"assignedTo"`
	ConstraintStartTime  string  `json:"constraintStartTime"`  // 01/02/2006
	ConstraintFinishTime string  `json:"constraintFinishTime"` // 01/02/2006
	Effort               float64 `json:"effort"`
}

// UpdateTaskRequest represents the combined update payload: any subset of
// the tracked fields plus a comment. AssignedTo is a string so that an
// explicit empty value ("clear the assignee") can be told apart from an
// absent field.
type UpdateTaskRequest struct {
	Comment       string                `json:"comment" binding:"required"`
	State         *models.WorkState     `json:"state"`
	ProgressState *models.ProgressState `json:"progressState"`
	AssignedTo    *string               `json:"assignedTo"`
	Notify        []uint                `json:"notify"`
	Hours         float64               `json:"hours"`
}

// GetProjectTasks handles GET /api/projects/:id/tasks
// Optional filters: state (opened|done), q (name substring), tag, user
// (assignee). Paginated; always returns opened/done/all counts for the
// unfiltered-by-state domain.
func GetProjectTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	project, ok := getProject(c, user, projectID)
	if !ok {
		return
	}

	db := database.GetDB()
	base := db.Model(&models.Work{}).
		Where("type = ? AND parent_id = ? AND active = ?", models.TypeTask, project.ID, true)

	if q := c.Query("q"); q != "" {
		base = base.Where("name LIKE ?", "%"+q+"%")
	}
	if tag := c.Query("tag"); tag != "" {
		base = base.Joins("JOIN work_tags wt ON wt.work_id = works.id").Where("wt.tag_id = ?", tag)
	}
	if assignee := c.Query("user"); assignee != "" {
		base = base.Where("assigned_to_id = ?", assignee)
	}

	counts, err := stateCounts(base)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count tasks"})
		return
	}

	query := base.Session(&gorm.Session{})
	if state := c.Query("state"); state == string(models.StateOpened) || state == string(models.StateDone) {
		query = query.Where("state = ?", state)
	}

	page, limit := pagination(c)
	var tasks []models.Work
	err = query.Preload("AssignedTo").Preload("Tags").
		Order("created_at desc").
		Limit(limit).Offset((page - 1) * limit).
		Find(&tasks).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":  tasks,
		"counts": counts,
		"page":   page,
		"limit":  limit,
	})
}

// GetMyTasks handles GET /api/my-tasks
// All open/done tasks assigned to the current user across projects, soonest
// constraint finish first.
func GetMyTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := database.GetDB()
	base := db.Model(&models.Work{}).
		Where("type = ? AND assigned_to_id = ? AND active = ?", models.TypeTask, user.ID, true)

	if q := c.Query("q"); q != "" {
		base = base.Where("name LIKE ?", "%"+q+"%")
	}

	counts, err := stateCounts(base)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count tasks"})
		return
	}

	query := base.Session(&gorm.Session{})
	if state := c.Query("state"); state == string(models.StateOpened) || state == string(models.StateDone) {
		query = query.Where("state = ?", state)
	}

	page, limit := pagination(c)
	var tasks []models.Work
	err = query.Preload("Tags").
		Order("constraint_finish_time asc").
		Limit(limit).Offset((page - 1) * limit).
		Find(&tasks).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":  tasks,
		"counts": counts,
		"page":   page,
		"limit":  limit,
	})
}

func pagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func stateCounts(base *gorm.DB) (gin.H, error) {
	var opened, done, all int64
	if err := base.Session(&gorm.Session{}).Where("state = ?", models.StateOpened).Count(&opened).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("state = ?", models.StateDone).Count(&done).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Count(&all).Error; err != nil {
		return nil, err
	}
	return gin.H{"opened": opened, "done": done, "all": all}, nil
}

// CreateTask handles POST /api/projects/:id/tasks
// The creator is always added as a participant. An assignee given at
// creation is added too and becomes the sole mail receiver; otherwise the
// project's effective participants are notified.
func CreateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	project, ok := getProject(c, user, projectID)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	constraintStart, ok1 := parseConstraintDate(req.ConstraintStartTime)
	constraintFinish, ok2 := parseConstraintDate(req.ConstraintFinishTime)
	if !ok1 || !ok2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Constraint dates must be in month/day/year format"})
		return
	}

	db := database.GetDB()
	task := models.Work{
		Name:                 req.Name,
		Type:                 models.TypeTask,
		State:                models.StateOpened,
		ProgressState:        models.ProgressBacklog,
		Comment:              req.Description,
		Active:               true,
		ParentID:             &project.ID,
		CreatedByID:          &user.ID,
		ConstraintStartTime:  constraintStart,
		ConstraintFinishTime: constraintFinish,
		Effort:               req.Effort,
	}

	var assignee *models.User
	if req.AssignedTo != 0 {
		var u models.User
		if err := db.First(&u, req.AssignedTo).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown assignee"})
			return
		}
		assignee = &u
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		if err := tx.Model(&task).Association("Participants").Append(user); err != nil {
			return err
		}
		if assignee != nil {
			if _, err := history.Record(tx, &task, user.ID, history.Changes{AssignedTo: &assignee.ID}); err != nil {
				return err
			}
			if err := tx.Model(&task).Update("assigned_to_id", assignee.ID).Error; err != nil {
				return err
			}
			if err := tx.Model(&task).Association("Participants").Append(assignee); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	var receivers []string
	if assignee != nil {
		receivers = []string{assignee.Email}
	} else {
		all, err := permissions.EffectiveParticipants(db, project)
		if err == nil {
			for _, p := range all {
				if p.Email != "" {
					receivers = append(receivers, p.Email)
				}
			}
		}
	}
	task.Parent = project
	if err := notify.TaskCreated(db, &task, user, receivers); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Task created but notification failed"})
		return
	}

	broadcastTaskEvent(&task, user.ID, "task_created")
	c.JSON(http.StatusCreated, task)
}

// GetTask handles GET /api/tasks/:id
// Returns the task with its history, commits and attachments timeline.
func GetTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	db := database.GetDB()
	if err := db.Preload("AssignedTo").Preload("Tags").Preload("Participants").First(task, task.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}

	var rows []models.History
	if err := db.Where("work_id = ?", task.ID).Preload("UpdatedBy").Order("created_at asc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	var repoCommits []models.Commit
	if err := db.Where("project_id = ?", task.ID).Order("commit_timestamp asc").Find(&repoCommits).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch commits"})
		return
	}

	var attachments []models.Attachment
	if err := db.Select("id", "work_id", "uploaded_by_id", "name", "description", "type", "link", "created_at").
		Where("work_id = ?", task.ID).Order("created_at asc").Find(&attachments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":        task,
		"history":     rows,
		"commits":     repoCommits,
		"attachments": attachments,
	})
}

// UpdateTask handles POST /api/tasks/:id/updates
// One transaction merges attribute changes, assignee changes (including the
// explicit clear), watcher additions and the single history row; the mail
// goes to the new assignee when assignment changed, otherwise to all task
// participants minus the actor.
func UpdateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ProgressState != nil && !user.IsEmployee {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only employees can change the progress state of a task"})
		return
	}

	db := database.GetDB()

	changes := history.Changes{Comment: req.Comment}
	updates := map[string]any{}

	if req.State != nil && *req.State != task.State {
		changes.State = req.State
		updates["state"] = *req.State
	}
	if req.ProgressState != nil && *req.ProgressState != task.ProgressState {
		changes.ProgressState = req.ProgressState
		updates["progress_state"] = *req.ProgressState
	}

	var newAssignee *models.User
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			if task.AssignedToID != nil {
				changes.ClearAssignedTo = true
				updates["assigned_to_id"] = nil
			}
		} else {
			id, err := strconv.ParseUint(*req.AssignedTo, 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "assignedTo must be a numeric id or empty"})
				return
			}
			assigneeID := uint(id)
			if task.AssignedToID == nil || *task.AssignedToID != assigneeID {
				var u models.User
				if err := db.First(&u, assigneeID).Error; err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown assignee"})
					return
				}
				newAssignee = &u
				changes.AssignedTo = &assigneeID
				updates["assigned_to_id"] = assigneeID
			}
		}
	}

	var row *models.History
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		// Previous values are read from the task as loaded, before the write.
		row, err = history.Record(tx, task, user.ID, changes)
		if err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(task).Updates(updates).Error; err != nil {
				return err
			}
		}

		newParticipants := []*models.User{user}
		if newAssignee != nil {
			newParticipants = append(newParticipants, newAssignee)
		}
		if len(req.Notify) > 0 {
			var watchers []models.User
			if err := tx.Where("id IN ?", req.Notify).Find(&watchers).Error; err != nil {
				return err
			}
			for i := range watchers {
				newParticipants = append(newParticipants, &watchers[i])
			}
		}
		for _, p := range newParticipants {
			if err := tx.Model(task).Association("Participants").Append(p); err != nil {
				return err
			}
		}

		if req.Hours > 0 && user.IsEmployee {
			line := models.TimesheetLine{
				WorkID:     task.ID,
				EmployeeID: user.ID,
				Hours:      req.Hours,
				Date:       time.Now().UTC(),
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	if err := notify.TaskUpdated(db, task, row, user); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Task updated but notification failed"})
		return
	}

	broadcastTaskEvent(task, user.ID, "task_updated")

	var fresh models.Work
	if err := db.Preload("AssignedTo").First(&fresh, task.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"task":    fresh,
		"history": row,
	})
}

// AssignTask handles PATCH /api/tasks/:id/assignee
// The new assignee must be allowed to write to the parent project; they are
// added to the participants and notified.
func AssignTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	var req struct {
		UserID uint `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	if task.AssignedToID != nil && *task.AssignedToID == req.UserID {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task already assigned to this user"})
		return
	}

	var assignee models.User
	if err := db.First(&assignee, req.UserID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown assignee"})
		return
	}
	allowed, err := permissions.CanWrite(db, task.Parent, &assignee)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permissions"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Assignee is not a participant of this project"})
		return
	}

	var row *models.History
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = history.Record(tx, task, user.ID, history.Changes{AssignedTo: &assignee.ID})
		if err != nil {
			return err
		}
		if err := tx.Model(task).Update("assigned_to_id", assignee.ID).Error; err != nil {
			return err
		}
		return tx.Model(task).Association("Participants").Append(&assignee)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign task"})
		return
	}

	if err := notify.TaskUpdated(db, task, row, user); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Task assigned but notification failed"})
		return
	}
	broadcastTaskEvent(task, user.ID, "task_updated")

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearAssignee handles DELETE /api/tasks/:id/assignee
func ClearAssignee(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if task.AssignedToID != nil {
			if _, err := history.Record(tx, task, user.ID, history.Changes{ClearAssignedTo: true}); err != nil {
				return err
			}
		}
		return tx.Model(task).Update("assigned_to_id", nil).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear assignee"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ChangeProgressState handles PATCH /api/tasks/:id/progress
// Employees only; any progress state may be set, no transition rules.
func ChangeProgressState(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !user.IsEmployee {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only employees can change the progress state of a task"})
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	var req struct {
		ProgressState models.ProgressState `json:"progressState" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := history.Record(tx, task, user.ID, history.Changes{ProgressState: &req.ProgressState}); err != nil {
			return err
		}
		return tx.Model(task).Update("progress_state", req.ProgressState).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change progress state"})
		return
	}

	broadcastTaskEvent(task, user.ID, "task_updated")
	c.JSON(http.StatusOK, gin.H{"success": true, "progressState": req.ProgressState})
}

// ChangeConstraintDates handles PATCH /api/tasks/:id/constraint-dates
// Empty fields clear the corresponding date. Only dates actually provided
// produce history pairs; clears are not historized.
func ChangeConstraintDates(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	var req struct {
		ConstraintStartTime  string `json:"constraintStartTime"`
		ConstraintFinishTime string `json:"constraintFinishTime"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, ok1 := parseConstraintDate(req.ConstraintStartTime)
	finish, ok2 := parseConstraintDate(req.ConstraintFinishTime)
	if !ok1 || !ok2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Constraint dates must be in month/day/year format"})
		return
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := history.Record(tx, task, user.ID, history.Changes{
			ConstraintStartTime:  start,
			ConstraintFinishTime: finish,
			Comment:              "",
		}); err != nil {
			return err
		}
		return tx.Model(task).Updates(map[string]any{
			"constraint_start_time":  start,
			"constraint_finish_time": finish,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change constraint dates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ChangeEffort handles PATCH /api/tasks/:id/effort (employees only)
func ChangeEffort(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !user.IsEmployee {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only employees can change the effort estimate"})
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	var req struct {
		Effort float64 `json:"effort" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.GetDB().Model(task).Update("effort", req.Effort).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change effort"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "effort": req.Effort})
}

// DeleteTask handles DELETE /api/tasks/:id (admin only, soft delete)
func DeleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireAdmin(c, user) {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	if err := database.GetDB().Model(task).Update("active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	broadcastTaskEvent(task, user.ID, "task_deleted")
	c.JSON(http.StatusOK, gin.H{"success": true, "id": task.ID})
}

// WatchTask handles POST /api/tasks/:id/watch
func WatchTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	db := database.GetDB()
	isParticipant, err := permissions.IsDirectParticipant(db, task, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check participants"})
		return
	}
	if !isParticipant {
		if err := db.Model(task).Association("Participants").Append(user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to watch task"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UnwatchTask handles POST /api/tasks/:id/unwatch
func UnwatchTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	db := database.GetDB()
	isParticipant, err := permissions.IsDirectParticipant(db, task, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check participants"})
		return
	}
	if isParticipant {
		if err := db.Model(task).Association("Participants").Delete(user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unwatch task"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateComment handles PATCH /api/tasks/:id/comments/:comment_id
// History rows are immutable except for their comment, editable only by
// the author or an admin.
func UpdateComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}

	var req struct {
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	var row models.History
	err := db.Where("work_id = ?", task.ID).First(&row, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment"})
		}
		return
	}

	if !history.CanEditComment(&row, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author or an admin can edit a comment"})
		return
	}

	if err := db.Model(&row).Update("comment", req.Comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comment": req.Comment})
}
