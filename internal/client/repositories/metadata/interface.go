// Package metadata is the key/value table of the CLI state file. The
// session tokens and the e-mail of the logged-in user live here.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
