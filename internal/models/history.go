package models

import (
	"time"

	"gorm.io/gorm"
)

// History is one immutable audit row for a task mutation: who made the
// change, an optional comment, and previous/new pairs for the tracked
// fields. Rows are append-only; only the comment may be edited afterwards,
// and only by the author or an admin.
type History struct {
	gorm.Model
	WorkID uint  `json:"workId" gorm:"not null;index"`
	Work   *Work `json:"-" gorm:"foreignKey:WorkID"`

	UpdatedByID *uint `json:"updatedById" gorm:"column:updated_by_id"`
	UpdatedBy   *User `json:"updatedBy,omitempty" gorm:"foreignKey:UpdatedByID"`

	Comment string `json:"comment"`

	PreviousState WorkState `json:"previousState"`
	NewState      WorkState `json:"newState"`

	PreviousProgressState ProgressState `json:"previousProgressState"`
	NewProgressState      ProgressState `json:"newProgressState"`

	PreviousAssignedToID *uint `json:"previousAssignedToId" gorm:"column:previous_assigned_to_id"`
	NewAssignedToID      *uint `json:"newAssignedToId" gorm:"column:new_assigned_to_id"`

	PreviousConstraintStartTime  *time.Time `json:"previousConstraintStartTime"`
	NewConstraintStartTime       *time.Time `json:"newConstraintStartTime"`
	PreviousConstraintFinishTime *time.Time `json:"previousConstraintFinishTime"`
	NewConstraintFinishTime      *time.Time `json:"newConstraintFinishTime"`
}

// TableName specifies the table name for History Model
func (History) TableName() string {
	return "work_history"
}
