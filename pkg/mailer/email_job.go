package mailer

// TemplateWelcome is sent once a credential has been registered.
const TemplateWelcome = "welcome"

// EmailJob is one queued email. Either Template (rendered with Data) or an
// explicit Subject with Text/HTML bodies is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// WelcomeJob greets a newly registered account.
func WelcomeJob(email, name string) EmailJob {
	return EmailJob{
		To:       email,
		Template: TemplateWelcome,
		Data:     map[string]any{"Name": name, "Email": email},
	}
}
