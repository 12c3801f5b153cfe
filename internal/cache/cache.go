// Package cache defines the read surface of a normalized GraphQL cache and an
// in-memory Store implementing it.
//
// Data is addressed by entity key (e.g. "Todo:1", or "Query" for the root) and
// field key. A field key is the field name, optionally followed by the
// canonical JSON encoding of its arguments (see KeyOfField). Each
// (entity, field key) pair holds either a record (a scalar value) or a link
// (an entity key, nil, or a list of links).
//
// Resolvers registered with a host read through the Cache interface only, so
// they work against any implementation that exposes these three operations.
package cache

import "context"

// Args maps argument names to coerced values.
type Args = map[string]any

// FieldInfo describes one cached variant of a field on an entity.
type FieldInfo struct {
	FieldName string
	FieldKey  string
	// Arguments is nil when the variant was stored without arguments.
	Arguments Args
}

// Cache is the narrow read interface over a normalized store.
type Cache interface {
	// Resolve reads the value of fieldName with args on the entity
	// identified by parent. It returns the stored link when present, else
	// the stored record, else nil.
	Resolve(parent string, fieldName string, args Args) any

	// ResolveFieldByKey reads a specific field variant by its field key.
	ResolveFieldByKey(entityKey, fieldKey string) any

	// InspectFields lists every cached field variant on the entity in the
	// order they were first written.
	InspectFields(entityKey string) []FieldInfo
}

// Info is the read context handed to a Resolver.
type Info struct {
	ParentKey      string
	ParentTypeName string
	FieldName      string
	FieldKey       string
	// HasSchema reports whether the host can tell optional fields from
	// required ones, and so can serve partial results.
	HasSchema bool
}

// Result is what a Resolver produces. A nil Value is a cache miss.
type Result struct {
	Value any
	// Partial marks Value as best-effort data that was not proven to satisfy
	// the exact request.
	Partial bool
}

// Resolver computes a field value from the cache at read time.
type Resolver func(ctx context.Context, args Args, c Cache, info Info) (Result, error)
