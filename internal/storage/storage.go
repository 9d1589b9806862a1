// Package storage provides the key-value text stores the grade store persists
// its serialized collection into.
package storage

import "context"

// KV is a key-value text store. Get reports found=false for an absent key
// rather than returning an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}
