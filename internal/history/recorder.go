package history

import (
	"time"

	"project-collab-api/internal/models"

	"gorm.io/gorm"
)

// Changes is the explicit set of tracked task fields a single update may
// touch. A nil pointer means the field is untouched; a pointer to the zero
// value is treated the same way, so zero values never produce history pairs.
// Clearing the assignee is the one representable clear and must be requested
// through ClearAssignedTo.
type Changes struct {
	AssignedTo           *uint
	ClearAssignedTo      bool
	State                *models.WorkState
	ProgressState        *models.ProgressState
	ConstraintStartTime  *time.Time
	ConstraintFinishTime *time.Time

	Comment string
}

// Empty reports whether no tracked field is being changed.
func (c Changes) Empty() bool {
	return c.AssignedTo == nil && !c.ClearAssignedTo &&
		(c.State == nil || *c.State == "") &&
		(c.ProgressState == nil || *c.ProgressState == "") &&
		(c.ConstraintStartTime == nil || c.ConstraintStartTime.IsZero()) &&
		(c.ConstraintFinishTime == nil || c.ConstraintFinishTime.IsZero())
}

// Record captures previous/new pairs for every tracked field present in the
// proposal, reading the previous values from the task as it stands before
// the write. When nothing tracked changed, a comment-only row is created if
// a comment was supplied; otherwise no row is written and (nil, nil) is
// returned.
func Record(db *gorm.DB, task *models.Work, updatedBy uint, c Changes) (*models.History, error) {
	row := models.History{
		WorkID:      task.ID,
		UpdatedByID: &updatedBy,
		Comment:     c.Comment,
	}

	tracked := false

	if c.AssignedTo != nil && *c.AssignedTo != 0 {
		row.PreviousAssignedToID = task.AssignedToID
		row.NewAssignedToID = c.AssignedTo
		tracked = true
	} else if c.ClearAssignedTo {
		row.PreviousAssignedToID = task.AssignedToID
		row.NewAssignedToID = nil
		tracked = true
	}
	if c.State != nil && *c.State != "" {
		row.PreviousState = task.State
		row.NewState = *c.State
		tracked = true
	}
	if c.ProgressState != nil && *c.ProgressState != "" {
		row.PreviousProgressState = task.ProgressState
		row.NewProgressState = *c.ProgressState
		tracked = true
	}
	if c.ConstraintStartTime != nil && !c.ConstraintStartTime.IsZero() {
		row.PreviousConstraintStartTime = task.ConstraintStartTime
		row.NewConstraintStartTime = c.ConstraintStartTime
		tracked = true
	}
	if c.ConstraintFinishTime != nil && !c.ConstraintFinishTime.IsZero() {
		row.PreviousConstraintFinishTime = task.ConstraintFinishTime
		row.NewConstraintFinishTime = c.ConstraintFinishTime
		tracked = true
	}

	if !tracked && c.Comment == "" {
		return nil, nil
	}

	if err := db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CanEditComment reports whether the user may edit a history row's comment:
// only the row's author or an admin.
func CanEditComment(row *models.History, user *models.User) bool {
	if user.IsAdmin {
		return true
	}
	return row.UpdatedByID != nil && *row.UpdatedByID == user.ID
}
