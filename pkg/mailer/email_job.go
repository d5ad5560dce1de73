package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// The only template this platform sends is the password-reset mail.
type EmailJob struct {
	To       string `json:"to"`
	Name     string `json:"name,omitempty"`
	ResetURL string `json:"reset_url,omitempty"`
}

// Subject and Body render the reset email. Kept as plain text; the frontend
// owns the branded HTML.
func (j EmailJob) Subject() string { return "Reset your password" }

func (j EmailJob) Body() string {
	name := j.Name
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(
		"Hi %s,\n\nWe received a request to reset your password. Follow the link below within 30 minutes:\n\n%s\n\nIf you did not request this, you can ignore this email.\n",
		name, j.ResetURL,
	)
}
