package handlers

import (
	"errors"
	"io"
	"net/http"

	"project-collab-api/internal/database"
	"project-collab-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxAttachmentSize caps uploaded file attachments at 10 MiB.
const maxAttachmentSize = 10 << 20

// UploadProjectAttachment handles POST /api/projects/:id/attachments
func UploadProjectAttachment(c *gin.Context) {
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
	uploadAttachment(c, user, project)
}

// UploadTaskAttachment handles POST /api/tasks/:id/attachments
func UploadTaskAttachment(c *gin.Context) {
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
	uploadAttachment(c, user, task)
}

// uploadAttachment accepts a multipart form: either a "file" part (stored as
// a data attachment) or a "link" field. The attachment name falls back to
// the uploaded filename.
func uploadAttachment(c *gin.Context, user *models.User, work *models.Work) {
	attachment := models.Attachment{
		WorkID:       work.ID,
		UploadedByID: &user.ID,
		Name:         c.PostForm("name"),
		Description:  c.PostForm("description"),
	}

	file, header, err := c.Request.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		if header.Size > maxAttachmentSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Attachment exceeds the size limit"})
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, maxAttachmentSize))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read attachment"})
			return
		}
		attachment.Type = models.AttachmentData
		attachment.Data = data
		if attachment.Name == "" {
			attachment.Name = header.Filename
		}

	case c.PostForm("link") != "":
		attachment.Type = models.AttachmentLink
		attachment.Link = c.PostForm("link")
		if attachment.Name == "" {
			attachment.Name = attachment.Link
		}

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either a file or a link is required"})
		return
	}

	if err := database.GetDB().Create(&attachment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store attachment"})
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

// DownloadAttachment handles GET /api/attachments/:id/download
// Link attachments redirect; data attachments stream the stored bytes. The
// permission gate of the owning project or task applies.
func DownloadAttachment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	attachmentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	db := database.GetDB()
	var attachment models.Attachment
	if err := db.First(&attachment, attachmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachment"})
		}
		return
	}

	var work models.Work
	if err := db.First(&work, attachment.WorkID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
		return
	}
	if work.IsTask() {
		if _, ok := getTask(c, user, work.ID); !ok {
			return
		}
	} else {
		if _, ok := getProject(c, user, work.ID); !ok {
			return
		}
	}

	if attachment.Type == models.AttachmentLink {
		c.Redirect(http.StatusFound, attachment.Link)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+attachment.Name+`"`)
	c.Data(http.StatusOK, "application/octet-stream", attachment.Data)
}
