// Package pagination reconstructs one logical relay-style connection from the
// many page fetches of a field that a normalized cache holds.
//
// # Overview
//
// A client that paginates a connection issues several requests for the same
// field with different pagination arguments (first, last, after, before) and
// identical filter arguments. The cache stores each request as its own field
// variant. On read, Relay gathers every variant at the parent entity and folds
// their pages into a single connection value:
//
//   - MatchArgs keeps only variants with the same filter arguments as the
//     request, whatever their pagination window.
//   - ReadPage extracts the connection typename, node keys and page info of one
//     variant, filling defaults for missing page info.
//   - ConcatNodes merges node lists, keeping the first occurrence of each key.
//   - Assemble classifies each variant by its pagination arguments and
//     accumulates nodes at the start or the end of the connection.
//   - Decide reports whether the result is complete, partial or a miss.
//
// # Merge modes
//
// Pages are accumulated into a start list (forward pages) and an end list
// (backward pages). Inwards, the default, joins them as start+end; Outwards
// joins them as end+start. Only Inwards recognises pivot pages that carry both
// first and last; in that mode at most one pivot variant may be cached per
// connection, and more than one yields ErrMultiplePivots.
//
// # Completeness
//
// Assembled data is complete when the exact request is itself cached. Otherwise
// it is reported as partial when the host has a schema, and as a miss when it
// does not, so schemaless hosts always fetch.
//
// Nothing in this package writes to the cache or keeps state between calls.
package pagination
