package mailer

// NotifyJob is the JSON payload put on the RabbitMQ queue after credential
// issuance. The worker turns it into a welcome email carrying the issued
// identifiers.
type NotifyJob struct {
	To      string         `json:"to"`
	Subject string         `json:"subject,omitempty"`
	Text    string         `json:"text,omitempty"`
	Kind    string         `json:"kind,omitempty"` // "merchant_welcome" or "customer_welcome"
	Data    map[string]any `json:"data,omitempty"`
}
