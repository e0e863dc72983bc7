package models

import (
	"gorm.io/gorm"
)

// Tag is a coloured label owned by a project and attached to its tasks.
type Tag struct {
	gorm.Model
	Name  string `json:"name" gorm:"not null"`
	Color string `json:"color" gorm:"not null;default:'#999'"`

	ProjectID uint  `json:"projectId" gorm:"not null;index"`
	Project   *Work `json:"-" gorm:"foreignKey:ProjectID"`
}

// TableName specifies the table name for Tag Model
func (Tag) TableName() string {
	return "tags"
}
