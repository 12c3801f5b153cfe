package pagination

import "github.com/hanpama/graphcache/internal/cache"

// Completeness is the outcome of Decide.
type Completeness int

const (
	Miss Completeness = iota
	Partial
	Complete
)

func (c Completeness) String() string {
	switch c {
	case Partial:
		return "partial"
	case Complete:
		return "complete"
	}
	return "miss"
}

// Decide reports whether an assembled connection satisfies the request. The
// exact request must itself be cached for a Complete result; otherwise the
// data is Partial on hosts with a schema and a Miss on hosts without one.
func Decide(c cache.Cache, entityKey, fieldName string, requested cache.Args, hasSchema bool) Completeness {
	if link, ok := c.Resolve(entityKey, fieldName, requested).(string); ok && link != "" {
		return Complete
	}
	if !hasSchema {
		return Miss
	}
	return Partial
}
