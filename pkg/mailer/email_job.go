package mailer

import (
	"errors"
	"fmt"

	mailtpl "github.com/alnnovate/academy/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "verification_code", "reset_otp"
	Data     map[string]any `json:"data,omitempty"`
}

// EnsureRecipient fills Data.Email from To when the producer left it empty.
func (j *EmailJob) EnsureRecipient() {
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	if v, ok := j.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		j.Data["Email"] = j.To
	}
}

// Render returns the subject and bodies for the job, rendering its template if set.
func (j *EmailJob) Render() (subject, text, html string, err error) {
	if j.To == "" {
		return "", "", "", errors.New("email job has no recipient")
	}
	if j.Template == "" {
		if j.Subject == "" || (j.Text == "" && j.HTML == "") {
			return "", "", "", errors.New("email job has no template and no content")
		}
		return j.Subject, j.Text, j.HTML, nil
	}
	j.EnsureRecipient()
	subject, text, html, err = mailtpl.Render(j.Template, j.Data)
	if err != nil {
		return "", "", "", fmt.Errorf("render %s: %w", j.Template, err)
	}
	if j.Subject != "" {
		subject = j.Subject
	}
	return subject, text, html, nil
}
