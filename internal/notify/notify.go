// Package notify delivers submitted delivery requests to the operations team.
package notify

import "context"

// Email is a provider-rendered message: Params fill the provider's template.
type Email struct {
	To      string
	Subject string
	Params  map[string]string
}

type EmailSender interface {
	Send(ctx context.Context, e Email) error
}

// Notifier pushes a short alert alongside the email.
type Notifier interface {
	Notify(ctx context.Context, title, body string, data map[string]string) error
}
