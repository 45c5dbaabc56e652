package notify

import (
	"context"
	"log"
)

// MockNotifier implements the Notifier interface by logging messages to
// stdout. Replace this with a real chat client for production use.
type MockNotifier struct{}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Publish(ctx context.Context, message string) error {
	log.Printf("📨 [MockNotifier] Published to staff channel: %s", message)
	return nil
}
