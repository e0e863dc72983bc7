package handlers

import (
	"errors"
	"net/http"

	"project-collab-api/internal/database"
	"project-collab-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateTagRequest represents the request payload for creating a tag
type CreateTagRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// CreateTag handles POST /api/projects/:id/tags (admin only)
func CreateTag(c *gin.Context) {
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
	project, ok := getProject(c, user, projectID)
	if !ok {
		return
	}

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag := models.Tag{
		Name:      req.Name,
		Color:     req.Color,
		ProjectID: project.ID,
	}
	if err := database.GetDB().Create(&tag).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag"})
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// DeleteTag handles DELETE /api/projects/:id/tags/:tag_id (admin only)
// Removes the tag and its links to any tasks.
func DeleteTag(c *gin.Context) {
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
	tagID, ok := paramID(c, "tag_id")
	if !ok {
		return
	}
	if _, ok := getProject(c, user, projectID); !ok {
		return
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("project_id = ?", projectID).Delete(&models.Tag{}, tagID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Exec("DELETE FROM work_tags WHERE tag_id = ?", tagID).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddTagToTask handles POST /api/tasks/:id/tags/:tag_id
// The tag must belong to the task's parent project.
func AddTagToTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	tagID, ok := paramID(c, "tag_id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	db := database.GetDB()
	var tag models.Tag
	err := db.Where("project_id = ?", *task.ParentID).First(&tag, tagID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tag"})
		}
		return
	}

	if err := db.Model(task).Association("Tags").Append(&tag); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to tag task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveTagFromTask handles DELETE /api/tasks/:id/tags/:tag_id
func RemoveTagFromTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	tagID, ok := paramID(c, "tag_id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	tag := models.Tag{Model: gorm.Model{ID: tagID}}
	if err := database.GetDB().Model(task).Association("Tags").Delete(&tag); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to untag task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
