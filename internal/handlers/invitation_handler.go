package handlers

import (
	"errors"
	"net/http"

	"project-collab-api/internal/database"
	"project-collab-api/internal/invitations"
	"project-collab-api/internal/models"
	"project-collab-api/internal/notify"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InviteRequest represents the request payload for inviting a user
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Invite handles POST /api/projects/:id/invitations (admin only)
// An email that already belongs to an account joins the project right away;
// otherwise a pending invitation with a single-use code is created and
// mailed out.
func Invite(c *gin.Context) {
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

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var existing models.User
	err := db.Where("email = ?", req.Email).First(&existing).Error
	switch {
	case err == nil:
		if err := db.Model(project).Association("Participants").Append(&existing); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add participant"})
			return
		}
		if err := notify.AddedToProject(&existing, project); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Participant added but notification failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "userId": existing.ID})

	case errors.Is(err, gorm.ErrRecordNotFound):
		invite, err := invitations.Create(db, req.Email, project.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
			return
		}
		if err := notify.Invitation(invite, project, baseURL); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Invitation created but notification failed"})
			return
		}
		c.JSON(http.StatusCreated, invite)

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
	}
}

// RemoveInvitation handles DELETE /api/projects/:id/invitations/:invitation_id
// Admin only; pending invitations only.
func RemoveInvitation(c *gin.Context) {
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
	inviteID, ok := paramID(c, "invitation_id")
	if !ok {
		return
	}
	if _, ok := getProject(c, user, projectID); !ok {
		return
	}

	db := database.GetDB()
	res := db.Where("project_id = ? AND user_id IS NULL", projectID).Delete(&models.Invitation{}, inviteID)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove invitation"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ResendInvitation handles POST /api/projects/:id/invitations/:invitation_id/resend
// Admin only; sends the original code again without rotating it.
func ResendInvitation(c *gin.Context) {
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
	inviteID, ok := paramID(c, "invitation_id")
	if !ok {
		return
	}
	project, ok := getProject(c, user, projectID)
	if !ok {
		return
	}

	db := database.GetDB()
	var invite models.Invitation
	err := db.Where("project_id = ? AND user_id IS NULL", projectID).First(&invite, inviteID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitation"})
		}
		return
	}

	if err := notify.Invitation(&invite, project, baseURL); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send invitation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
