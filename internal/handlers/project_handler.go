package handlers

import (
	"net/http"
	"time"

	"project-collab-api/internal/database"
	"project-collab-api/internal/models"
	"project-collab-api/internal/permissions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateProjectRequest represents the request payload for creating a project
type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetProjects handles GET /api/projects
// Admins see every top-level project; everyone else only the projects they
// participate in.
func GetProjects(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	db := database.GetDB()

	var projects []models.Work
	query := db.Where("type = ? AND parent_id IS NULL", models.TypeProject)
	if !user.IsAdmin {
		query = query.
			Joins("JOIN work_participants wp ON wp.work_id = works.id").
			Where("wp.user_id = ?", user.ID)
	}
	if err := query.Order("created_at desc").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    len(projects),
	})
}

// CreateProject handles POST /api/projects (admin only)
func CreateProject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireAdmin(c, user) {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := models.Work{
		Name:        req.Name,
		Type:        models.TypeProject,
		State:       models.StateOpened,
		Active:      true,
		CreatedByID: &user.ID,
	}
	if err := database.GetDB().Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProject handles GET /api/projects/:id
func GetProject(c *gin.Context) {
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
	participants, err := permissions.EffectiveParticipants(db, project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve participants"})
		return
	}

	var tags []models.Tag
	if err := db.Where("project_id = ?", project.ID).Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project":      project,
		"participants": participants,
		"tags":         tags,
	})
}

// GetProjectPermissions handles GET /api/projects/:id/permissions
// Lists direct participants and still-pending invitations.
func GetProjectPermissions(c *gin.Context) {
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
	var participants []models.User
	if err := db.Model(project).Association("Participants").Find(&participants); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participants"})
		return
	}

	var invites []models.Invitation
	if err := db.Where("project_id = ? AND user_id IS NULL", project.ID).Find(&invites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participants": participants,
		"invitations":  invites,
	})
}

// RemoveParticipant handles DELETE /api/projects/:id/participants/:user_id
// Admin only. Also clears the assignee on any task in the project that was
// assigned to the removed user, and unlinks them from those tasks.
func RemoveParticipant(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireAdmin(c, user) {
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	participantID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	project, ok := getProject(c, user, projectID)
	if !ok {
		return
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		var children []models.Work
		if err := tx.Where("parent_id = ?", project.ID).Find(&children).Error; err != nil {
			return err
		}
		affected := append([]models.Work{*project}, children...)

		ids := make([]uint, len(affected))
		for i := range affected {
			ids[i] = affected[i].ID
		}

		if err := tx.Model(&models.Work{}).
			Where("id IN ? AND assigned_to_id = ?", ids, participantID).
			Update("assigned_to_id", nil).Error; err != nil {
			return err
		}

		removed := models.User{Model: gorm.Model{ID: participantID}}
		for i := range affected {
			if err := tx.Model(&affected[i]).Association("Participants").Delete(&removed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove participant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// planEvent is one entry of the project plan calendar feed.
type planEvent struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// GetProjectPlan handles GET /api/projects/:id/plan
// Returns calendar events for tasks whose constraint or actual time range
// falls inside the requested window (unix seconds start/end query params).
func GetProjectPlan(c *gin.Context) {
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

	eventType := c.DefaultQuery("event_type", "constraint")
	if eventType != "constraint" && eventType != "actual" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_type must be constraint or actual"})
		return
	}
	window, ok := parseUnixWindow(c)
	if !ok {
		return
	}

	startCol := eventType + "_start_time"
	finishCol := eventType + "_finish_time"

	// Tasks whose [start, finish] range intersects the requested window; an
	// open-ended range matches on its start alone.
	var tasks []models.Work
	err := database.GetDB().
		Where("type = ? AND parent_id = ? AND active = ?", models.TypeTask, project.ID, true).
		Where(startCol+" <= ? AND ("+finishCol+" >= ? OR "+finishCol+" IS NULL)", window.end, window.start).
		Find(&tasks).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch plan"})
		return
	}

	events := make([]planEvent, 0, len(tasks))
	for _, t := range tasks {
		start, finish := t.ConstraintStartTime, t.ConstraintFinishTime
		if eventType == "actual" {
			start, finish = t.ActualStartTime, t.ActualFinishTime
		}
		if start == nil {
			continue
		}
		evt := planEvent{ID: t.ID, Title: t.Name, Start: start.Format(time.RFC3339)}
		if finish != nil {
			evt.End = finish.Format(time.RFC3339)
		}
		events = append(events, evt)
	}

	c.JSON(http.StatusOK, gin.H{"result": events})
}
