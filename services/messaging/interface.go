package messaging

import "context"

// Messenger sends outbound WhatsApp messages. Implementations own their
// retry/timeout policy; the state machine treats a failed send as a
// degraded outcome, never a fatal one.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	SendTemplate(ctx context.Context, to, templateSID string) error
}
