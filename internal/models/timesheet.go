package models

import (
	"time"

	"gorm.io/gorm"
)

// TimesheetLine records hours an employee spent on a task on a given day.
type TimesheetLine struct {
	gorm.Model
	WorkID uint  `json:"workId" gorm:"not null;index"`
	Work   *Work `json:"-" gorm:"foreignKey:WorkID"`

	EmployeeID uint  `json:"employeeId" gorm:"not null;index"`
	Employee   *User `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`

	Hours float64   `json:"hours" gorm:"not null"`
	Date  time.Time `json:"date" gorm:"not null;index"`
}

// TableName specifies the table name for TimesheetLine Model
func (TimesheetLine) TableName() string {
	return "timesheet_lines"
}
