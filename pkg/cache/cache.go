// Package cache provides pluggable storage for fetched trees and layouts.
//
// Everything cached here is the result of a pure function of its key: a
// repository tree for a (source, target, ref) triple, or a layout for a
// (graph hash, spacing) pair. Interactive state such as the collapsed set of
// a view is never cached.
//
// # Backends
//
//   - [FileCache]: JSON files under a directory (CLI default)
//   - [RedisCache]: a Redis server, for shared server deployments
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: caching disabled
//
// [Open] picks a backend from a [Config].
//
// # Keys
//
// A [Keyer] builds keys. [DefaultKeyer] hashes the key components with
// SHA-256; [ScopedKeyer] prefixes every key, which isolates trees fetched
// with different credentials.
package cache

import (
	"context"
	"time"
)

// Default TTLs per key type.
const (
	TTLTree   = 24 * time.Hour
	TTLLayout = 7 * 24 * time.Hour
)

// Key types reported to observability hooks.
const (
	KeyTypeTree   = "tree"
	KeyTypeLayout = "layout"
)

// Cache stores opaque byte payloads under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the payload for key. A miss is reported with hit=false
	// and a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TreeKeyOpts holds fetch options that change the resulting tree.
type TreeKeyOpts struct {
	Exclude []string `json:"exclude,omitempty"`
}

// LayoutKeyOpts holds layout options that change the resulting positions.
type LayoutKeyOpts struct {
	SpacingX float64 `json:"spacing_x"`
	SpacingY float64 `json:"spacing_y"`
}

// Keyer builds cache keys.
type Keyer interface {
	// TreeKey identifies a repository tree, e.g. ("github", "owner/repo", "main").
	TreeKey(source, target, ref string, opts TreeKeyOpts) string

	// LayoutKey identifies the layout of a graph by its content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TreeKey implements [Keyer].
func (DefaultKeyer) TreeKey(source, target, ref string, opts TreeKeyOpts) string {
	return hashKey(KeyTypeTree, source, target, ref, opts)
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, graphHash, opts)
}
