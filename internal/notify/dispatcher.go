package notify

import (
	"fmt"

	"project-collab-api/internal/models"

	"gorm.io/gorm"
)

// TaskSubject formats the canonical notification subject line for a task.
func TaskSubject(task *models.Work, parentName string) string {
	return fmt.Sprintf("[#%d %s] - %s", task.ID, parentName, task.Name)
}

// taskReceivers returns the explicit receiver list if given, otherwise all
// task participants with a known email, always minus the actor's address.
func taskReceivers(db *gorm.DB, task *models.Work, actor *models.User, explicit []string) ([]string, error) {
	receivers := explicit
	if len(receivers) == 0 {
		var participants []models.User
		if err := db.Model(task).Association("Participants").Find(&participants); err != nil {
			return nil, err
		}
		for _, p := range participants {
			if p.Email != "" {
				receivers = append(receivers, p.Email)
			}
		}
	}

	out := make([]string, 0, len(receivers))
	for _, r := range receivers {
		if r != actor.Email {
			out = append(out, r)
		}
	}
	return out, nil
}

func parentName(db *gorm.DB, task *models.Work) string {
	if task.Parent != nil {
		return task.Parent.Name
	}
	if task.ParentID == nil {
		return ""
	}
	var parent models.Work
	if err := db.First(&parent, *task.ParentID).Error; err != nil {
		return ""
	}
	return parent.Name
}

// TaskCreated notifies about a freshly created task. Receivers may be an
// explicit list (e.g. just the assignee); with none given, the task's
// participants are used. Empty final recipient list is a silent no-op.
func TaskCreated(db *gorm.DB, task *models.Work, actor *models.User, receivers []string) error {
	to, err := taskReceivers(db, task, actor, receivers)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		return nil
	}

	project := parentName(db, task)
	body, err := renderTemplate("task_created", map[string]any{
		"Actor":       actor.Name,
		"TaskName":    task.Name,
		"ProjectName": project,
		"Comment":     task.Comment,
	})
	if err != nil {
		return err
	}
	return mailer.Send(to, TaskSubject(task, project), body)
}

// TaskUpdated notifies about a task mutation captured in a history row. The
// new assignee (when the update changed assignment) is the sole receiver;
// otherwise all task participants hear about it, minus the actor.
func TaskUpdated(db *gorm.DB, task *models.Work, row *models.History, actor *models.User) error {
	var explicit []string
	if row != nil && row.NewAssignedToID != nil {
		var assignee models.User
		if err := db.First(&assignee, *row.NewAssignedToID).Error; err == nil && assignee.Email != "" {
			explicit = []string{assignee.Email}
		}
	}

	to, err := taskReceivers(db, task, actor, explicit)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		return nil
	}

	data := map[string]any{
		"Actor":    actor.Name,
		"TaskName": task.Name,
	}
	if row != nil {
		data["Comment"] = row.Comment
		data["PreviousState"] = row.PreviousState
		data["NewState"] = row.NewState
		data["PreviousProgressState"] = row.PreviousProgressState
		data["NewProgressState"] = row.NewProgressState
		if row.NewAssignedToID != nil {
			var assignee models.User
			if err := db.First(&assignee, *row.NewAssignedToID).Error; err == nil {
				data["NewAssignee"] = assignee.Name
			}
		}
	}

	body, err := renderTemplate("task_updated", data)
	if err != nil {
		return err
	}
	return mailer.Send(to, TaskSubject(task, parentName(db, task)), body)
}

// Invitation mails a registration link carrying the invitation code.
func Invitation(invite *models.Invitation, project *models.Work, baseURL string) error {
	body, err := renderTemplate("invitation", map[string]any{
		"ProjectName": project.Name,
		"Code":        invite.Code,
		"BaseURL":     baseURL,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("[%s] You have been invited to join the project", project.Name)
	return mailer.Send([]string{invite.Email}, subject, body)
}

// AddedToProject informs an existing user they were made a participant.
func AddedToProject(user *models.User, project *models.Work) error {
	body, err := renderTemplate("added_to_project", map[string]any{
		"UserName":    user.Name,
		"ProjectName": project.Name,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("[%s] You have been invited to join the project", project.Name)
	return mailer.Send([]string{user.Email}, subject, body)
}

// InvitationAccepted tells the org admins that an invited user registered
// and joined. No-op when no admin has an email address.
func InvitationAccepted(db *gorm.DB, invite *models.Invitation, user *models.User) error {
	var project models.Work
	if err := db.First(&project, invite.ProjectID).Error; err != nil {
		return err
	}

	var admins []models.User
	if err := db.Where("is_admin = ?", true).Find(&admins).Error; err != nil {
		return err
	}
	var to []string
	for _, a := range admins {
		if a.Email != "" {
			to = append(to, a.Email)
		}
	}
	if len(to) == 0 {
		return nil
	}

	body, err := renderTemplate("invitation_accepted", map[string]any{
		"UserName":    user.Name,
		"ProjectName": project.Name,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("[%s] %s accepted the invitation to join the project", project.Name, user.Name)
	return mailer.Send(to, subject, body)
}
