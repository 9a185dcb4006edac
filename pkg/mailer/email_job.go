package mailer

// Template names understood by the worker.
const (
	TemplateInvitation = "invitation"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// When Template is set, Subject/Text/HTML are rendered by the worker;
// otherwise they are sent as provided.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
