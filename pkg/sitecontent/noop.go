package sitecontent

import "context"

// NoopNotifier is a no-operation implementation of Notifier
// Useful for development environments without an outbound mail channel
type NoopNotifier struct{}

// NewNoopNotifier creates a new no-operation notifier
func NewNoopNotifier() Notifier {
	return &NoopNotifier{}
}

// Notify does nothing and returns nil
func (n *NoopNotifier) Notify(ctx context.Context, msg ContactMessage) error {
	return nil
}
