// Package store provides the durable string-keyed, string-valued mapping the
// console depends on. The concrete implementation is a journaled single-file
// store: every mutation is appended to an on-disk journal and fsynced before
// it is applied in memory, so an acknowledged Put or Remove survives process
// or machine crash and is recovered by replay on the next OpenOrCreate.
package store

import "context"

// Entry is a single key/value pair.
type Entry struct {
	Key   string
	Value string
}

// Store describes the mapping operations the console core needs.
//
// Get returns common.ErrorNotFound (via errors.Is) when the key is absent.
// Put and Remove are durably committed before they return. Keys returns keys
// in insertion order; the order is stable across calls within a session.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
	Size(ctx context.Context) (int, error)
	Keys(ctx context.Context) ([]string, error)
}
