package models

import (
	"gorm.io/gorm"
)

// AttachmentType distinguishes uploaded file data from plain links.
type AttachmentType string

const (
	AttachmentData AttachmentType = "data"
	AttachmentLink AttachmentType = "link"
)

// Attachment is a file or link bound to a project or task.
type Attachment struct {
	gorm.Model
	WorkID uint  `json:"workId" gorm:"not null;index"`
	Work   *Work `json:"-" gorm:"foreignKey:WorkID"`

	UploadedByID *uint `json:"uploadedById" gorm:"column:uploaded_by_id"`
	UploadedBy   *User `json:"uploadedBy,omitempty" gorm:"foreignKey:UploadedByID"`

	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Type        AttachmentType `json:"type" gorm:"not null;default:'data'"`
	Link        string         `json:"link"`
	Data        []byte         `json:"-"`
}

// TableName specifies the table name for Attachment Model
func (Attachment) TableName() string {
	return "attachments"
}
