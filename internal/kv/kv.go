// Package kv defines the string key/value contract the ledger snapshot and the
// settings are persisted through. Subpackages provide the backends.
package kv

import "context"

// Store gets and sets string values by key. Get reports a missing key with
// ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Backend names accepted by STORAGE_BACKEND.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemcache = "memcache"
	BackendMemory   = "memory"
)
