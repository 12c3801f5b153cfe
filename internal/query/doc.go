// Package query reads GraphQL query documents from a normalized cache.
//
// The Reader walks an operation's selection set starting at the root entity
// ("Query"). Leaf fields are read as records; fields with selections follow
// links to other entities, lists of links, or inline objects returned by
// resolvers. A resolver registered for a (type, field) pair replaces the
// stored value of that field, which is how computed fields such as paginated
// connections are served.
//
// # Misses and partial results
//
// A field with nothing cached is a miss. Without a schema, any miss makes the
// whole read a miss (Result.Data is nil) so that the caller fetches. With a
// schema, a missing nullable field reads as null and marks the result
// Partial; a missing non-nullable field makes its parent object a miss, which
// propagates up to the nearest nullable field. Resolvers contribute to
// Partial through cache.Result.
//
// Fragment type conditions match the cached __typename exactly, or any
// possible type of an interface or union when a schema is available.
package query
