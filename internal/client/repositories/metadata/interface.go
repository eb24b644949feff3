// Package metadata is the client's durable key/value store. It backs the
// session token, the remembered email and the credential-presence flags.
package metadata

import "context"

// Repository stores string values by key.
//
// Get reports found=false with a nil error for a missing key. Remove of a
// missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, values map[string]string) error
	Remove(ctx context.Context, keys ...string) error
	All(ctx context.Context) (map[string]string, error)
}
