package notify

import "context"

// Notifier defines the interface for publishing alerts to the staff channel.
// This abstraction allows swapping the mock for a real chat integration
// without refactoring.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}
