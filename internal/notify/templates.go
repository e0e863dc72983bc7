package notify

import (
	"bytes"
	"text/template"
)

var templates = template.Must(template.New("mails").Parse(`
{{define "task_created"}}A new task has been added by {{.Actor}}.

Task: {{.TaskName}}
Project: {{.ProjectName}}
{{if .Comment}}
{{.Comment}}
{{end}}{{end}}

{{define "task_updated"}}{{.Actor}} updated the task "{{.TaskName}}".
{{if .Comment}}
{{.Comment}}
{{end}}{{if .NewState}}State: {{.PreviousState}} -> {{.NewState}}
{{end}}{{if .NewProgressState}}Progress: {{.PreviousProgressState}} -> {{.NewProgressState}}
{{end}}{{if .NewAssignee}}Assigned to: {{.NewAssignee}}
{{end}}{{end}}

{{define "invitation"}}You have been invited to join the project "{{.ProjectName}}".

Follow the link below to register and join:

{{.BaseURL}}/registration?invitation_code={{.Code}}
{{end}}

{{define "added_to_project"}}Hello {{.UserName}},

You have been added to the project "{{.ProjectName}}".
{{end}}

{{define "invitation_accepted"}}{{.UserName}} accepted the invitation to join the project "{{.ProjectName}}".
{{end}}
`))

func renderTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
