package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkPeriod is a weekly planning bucket. No two active periods may have
// overlapping date ranges (inclusive bounds).
type WorkPeriod struct {
	gorm.Model
	Name      string    `json:"name" gorm:"not null"`
	StartDate time.Time `json:"startDate" gorm:"not null;index"`
	EndDate   time.Time `json:"endDate" gorm:"not null;index"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
}

// TableName specifies the table name for WorkPeriod Model
func (WorkPeriod) TableName() string {
	return "work_periods"
}
