package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"project-collab-api/internal/database"
	"project-collab-api/internal/models"
	"project-collab-api/internal/permissions"
	"project-collab-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// baseURL is embedded into invitation emails; set from config at startup.
var baseURL = "http://localhost:8008"

// Configure sets handler-level settings that come from the config file.
func Configure(base string) {
	if base != "" {
		baseURL = base
	}
}

// constraintDateLayout is the month/day/year format the constraint date
// form fields arrive in.
const constraintDateLayout = "01/02/2006"

func parseConstraintDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	t, err := time.Parse(constraintDateLayout, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

type timeWindow struct {
	start time.Time
	end   time.Time
}

// parseUnixWindow reads the start/end query params (unix seconds) used by
// the calendar-style JSON endpoints.
func parseUnixWindow(c *gin.Context) (timeWindow, bool) {
	start, err1 := strconv.ParseInt(c.Query("start"), 10, 64)
	end, err2 := strconv.ParseInt(c.Query("end"), 10, 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be unix timestamps"})
		return timeWindow{}, false
	}
	return timeWindow{
		start: time.Unix(start, 0).UTC(),
		end:   time.Unix(end, 0).UTC(),
	}, true
}

// currentUser loads the authenticated user set by the JWT middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return nil, false
	}

	var user models.User
	if err := database.GetDB().First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Unknown user",
		})
		return nil, false
	}
	return &user, true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a numeric id"})
		return 0, false
	}
	return uint(id), true
}

// getProject fetches a project and gates it behind CanRead. Denial and
// absence are both a 404 so outsiders cannot probe for hidden projects.
func getProject(c *gin.Context, user *models.User, projectID uint) (*models.Work, bool) {
	db := database.GetDB()

	var project models.Work
	err := db.Where("type = ?", models.TypeProject).First(&project, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project"})
		}
		return nil, false
	}

	ok, err := permissions.CanRead(db, &project, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permissions"})
		return nil, false
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return nil, false
	}
	return &project, true
}

// getTask fetches a task and gates it behind write access to its parent
// project: 404 when missing, 403 when the parent denies the user.
func getTask(c *gin.Context, user *models.User, taskID uint) (*models.Work, bool) {
	db := database.GetDB()

	var task models.Work
	err := db.Where("type = ? AND active = ?", models.TypeTask, true).First(&task, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		}
		return nil, false
	}
	if task.ParentID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return nil, false
	}

	var parent models.Work
	if err := db.First(&parent, *task.ParentID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return nil, false
	}
	task.Parent = &parent

	ok, err := permissions.CanWrite(db, &parent, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permissions"})
		return nil, false
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this project"})
		return nil, false
	}
	return &task, true
}

// requireAdmin rejects non-admin users with a 403.
func requireAdmin(c *gin.Context, user *models.User) bool {
	if !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only project admins may do this"})
		return false
	}
	return true
}

// broadcastTaskEvent pushes a realtime event to the task's participants.
func broadcastTaskEvent(task *models.Work, actorID uint, eventType string) {
	db := database.GetDB()
	var participants []models.User
	if err := db.Model(task).Association("Participants").Find(&participants); err != nil {
		return
	}
	ids := make([]uint, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.ID)
	}
	realtime.GetHub().BroadcastEvent(ids, realtime.Event{
		Type:    eventType,
		TaskID:  task.ID,
		ActorID: actorID,
	})
}
