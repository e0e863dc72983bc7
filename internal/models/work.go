package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkType distinguishes top-level projects from the tasks under them.
type WorkType string

const (
	TypeProject WorkType = "project"
	TypeTask    WorkType = "task"
)

// WorkState represents the binary open/closed state of a work record.
type WorkState string

const (
	StateOpened WorkState = "opened"
	StateDone   WorkState = "done"
)

// ProgressState is the task-only secondary status, independent of WorkState.
type ProgressState string

const (
	ProgressBacklog    ProgressState = "Backlog"
	ProgressPlanning   ProgressState = "Planning"
	ProgressInProgress ProgressState = "In Progress"
)

// Work is the single entity backing both projects and tasks. A task always
// has a parent project; a project has no parent. Participants of a project
// form the basis for who may see and write its tasks.
type Work struct {
	gorm.Model
	Name          string        `json:"name" gorm:"not null"`
	Type          WorkType      `json:"type" gorm:"not null;index"`
	State         WorkState     `json:"state" gorm:"not null;default:'opened'"`
	ProgressState ProgressState `json:"progressState" gorm:"column:progress_state;default:'Backlog'"`
	Comment       string        `json:"comment"`
	Active        bool          `json:"active" gorm:"not null;default:true"`

	ParentID *uint `json:"parentId" gorm:"index"`
	Parent   *Work `json:"-" gorm:"foreignKey:ParentID"`

	CreatedByID *uint `json:"createdById" gorm:"column:created_by_id"`
	CreatedBy   *User `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID"`

	AssignedToID *uint `json:"assignedToId" gorm:"column:assigned_to_id;index"`
	AssignedTo   *User `json:"assignedTo,omitempty" gorm:"foreignKey:AssignedToID"`

	ConstraintStartTime  *time.Time `json:"constraintStartTime"`
	ConstraintFinishTime *time.Time `json:"constraintFinishTime"`
	ActualStartTime      *time.Time `json:"actualStartTime"`
	ActualFinishTime     *time.Time `json:"actualFinishTime"`

	Effort float64 `json:"effort"`

	WorkPeriodID *uint `json:"workPeriodId" gorm:"column:work_period_id;index"`

	Participants []User `json:"participants,omitempty" gorm:"many2many:work_participants"`
	Tags         []Tag  `json:"tags,omitempty" gorm:"many2many:work_tags"`
}

// TableName specifies the table name for Work Model
func (Work) TableName() string {
	return "works"
}

// IsTask reports whether the record is a task (as opposed to a project).
func (w *Work) IsTask() bool {
	return w.Type == TypeTask
}
