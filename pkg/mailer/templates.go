package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var invitationHTML = template.Must(template.New(TemplateInvitation).Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>You're invited!</h2>
  <p>Hi {{.Name}},</p>
  <p>You have been invited to an event. Open the app to accept or decline.</p>
  <p style="color: #888; font-size: 12px;">Invitation ref: {{.GuestID}}</p>
</body>
</html>`))

// Render produces subject, text and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case TemplateInvitation:
		var buf bytes.Buffer
		if err = invitationHTML.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		subject = "You have a new event invitation"
		text = fmt.Sprintf("Hi %v, you have been invited to an event. Open the app to respond.", data["Name"])
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
