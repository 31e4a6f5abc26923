package notify

import "log"

// Notification templates the core sends.
const (
	TemplateOrderPaid             = "order_paid"
	TemplateCancellationRequested = "order_cancellation_requested"
)

// Notifier is the outbound notification collaborator (mail, push, ...).
// Callers treat delivery as best-effort: a failure is logged, never propagated
// into the primary operation's result.
type Notifier interface {
	Notify(recipient, template string, data map[string]interface{}) error
}

// LogNotifier writes notifications to the process log. Actual delivery
// transport is an external collaborator concern.
type LogNotifier struct{}

func (LogNotifier) Notify(recipient, template string, data map[string]interface{}) error {
	log.Printf("📧 Notify %s [%s]: %v", recipient, template, data)
	return nil
}
