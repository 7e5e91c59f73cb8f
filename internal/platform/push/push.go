// Package push delivers notifications to registered device tokens.
package push

import "context"

// Notification is the payload sent to every device of a receiver.
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// Result is the per-token outcome of a send.
type Result struct {
	Token     string
	Success   bool
	MessageID string
	Err       error
	// Unregistered is true when the provider reports the token as no longer valid.
	Unregistered bool
}

// Provider sends one notification to each token and reports per-token results.
// A non-nil error means the whole batch failed.
type Provider interface {
	SendEach(ctx context.Context, tokens []string, n Notification) ([]Result, error)
}
