package models

import (
	"gorm.io/gorm"
)

// Invitation links an email address to a project through a single-use
// random code. Accepting the invitation sets UserID and clears Code; a
// cleared code can never be presented again.
type Invitation struct {
	gorm.Model
	Email string `json:"email" gorm:"not null;index"`
	Code  string `json:"-" gorm:"index"`

	UserID *uint `json:"userId" gorm:"index"`
	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	ProjectID uint  `json:"projectId" gorm:"not null;index"`
	Project   *Work `json:"-" gorm:"foreignKey:ProjectID"`
}

// TableName specifies the table name for Invitation Model
func (Invitation) TableName() string {
	return "invitations"
}

// Pending reports whether the invitation is still waiting to be accepted.
func (i *Invitation) Pending() bool {
	return i.UserID == nil
}
