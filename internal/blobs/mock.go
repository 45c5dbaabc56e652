package blobs

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// MockStore keeps payloads in memory and hands out deterministic URLs.
// Replace with a real object-storage client for production use.
type MockStore struct {
	BaseURL string

	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMockStore(baseURL string) *MockStore {
	return &MockStore{BaseURL: baseURL, blobs: make(map[string][]byte)}
}

func (m *MockStore) Put(_ context.Context, name, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = data
	url := fmt.Sprintf("%s/%s", m.BaseURL, name)
	log.Printf("📦 [MockBlobs] Stored %s (%s, %d bytes)", name, contentType, len(data))
	return url, nil
}

// PassthroughCompressor enforces the size bound without re-encoding.
// A real deployment plugs in an actual image codec here.
type PassthroughCompressor struct{}

func (PassthroughCompressor) Compress(data []byte, maxBytes int) ([]byte, error) {
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, fmt.Errorf("image is %d bytes, limit is %d", len(data), maxBytes)
	}
	return data, nil
}
