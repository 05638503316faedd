package mailer

type SendEmailRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"htmlBody"`
}

type SendEmailResponse struct {
	MessageID string `json:"messageId"`
}
