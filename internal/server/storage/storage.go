// Package storage holds the binary object stores used for avatar images.
package storage

import "context"

// Storage writes and removes whole objects addressed by key. Delete must
// treat a missing object as success.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}
