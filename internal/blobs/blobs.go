// Package blobs abstracts the bill-image collaborators: a compressor that
// bounds payload size and a store that turns bytes into a fetchable URL.
package blobs

import "context"

// Store accepts an image payload and returns a publicly fetchable URL.
// Swap the mock for a real object-storage client in production.
type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Compressor returns a smaller file with the same logical content. Codec
// internals are out of scope here; implementations wrap whatever image
// library the deployment uses.
type Compressor interface {
	Compress(data []byte, maxBytes int) ([]byte, error)
}
