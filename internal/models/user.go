package models

import (
	"gorm.io/gorm"
)

// User represents an account in the system. Admins hold organisation-wide
// rights; employees may log time and move tasks between progress states.
type User struct {
	gorm.Model
	Name       string `json:"name" gorm:"not null"`
	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Password   string `json:"-" gorm:"not null"`
	IsAdmin    bool   `json:"isAdmin" gorm:"column:is_admin"`
	IsEmployee bool   `json:"isEmployee" gorm:"column:is_employee"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
