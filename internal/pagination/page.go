package pagination

import "github.com/hanpama/graphcache/internal/cache"

// ConnectionPage is one connection value: a cached page or an assembled
// connection.
type ConnectionPage struct {
	Typename string
	// Nodes holds entity keys in connection order. An empty key is a node
	// reference that did not resolve.
	Nodes    []string
	PageInfo PageInfo
}

type PageInfo struct {
	Typename        string
	EndCursor       *string
	StartCursor     *string
	HasNextPage     bool
	HasPreviousPage bool
}

// DefaultPageInfo is the page info of a page stored without one.
func DefaultPageInfo() PageInfo {
	return PageInfo{Typename: "PageInfo"}
}

// Value projects the page into the host's value shape: a map with
// __typename, nodes ([]any of entity keys or nil) and pageInfo.
func (p *ConnectionPage) Value() map[string]any {
	nodes := make([]any, len(p.Nodes))
	for i, key := range p.Nodes {
		if key != "" {
			nodes[i] = key
		}
	}
	return map[string]any{
		"__typename": p.Typename,
		"nodes":      nodes,
		"pageInfo":   p.PageInfo.Value(),
	}
}

func (pi PageInfo) Value() map[string]any {
	return map[string]any{
		"__typename":      pi.Typename,
		"endCursor":       cursorValue(pi.EndCursor),
		"startCursor":     cursorValue(pi.StartCursor),
		"hasNextPage":     pi.HasNextPage,
		"hasPreviousPage": pi.HasPreviousPage,
	}
}

func cursorValue(c *string) any {
	if c == nil {
		return nil
	}
	return *c
}

// ReadPage reads the connection page stored for fieldKey on entityKey. It
// returns nil when nothing is linked there or the linked connection has no
// string __typename. A page without nodes is returned with an empty node
// list.
func ReadPage(c cache.Cache, entityKey, fieldKey string) *ConnectionPage {
	link, ok := c.ResolveFieldByKey(entityKey, fieldKey).(string)
	if !ok || link == "" {
		return nil
	}
	typename, ok := c.Resolve(link, "__typename", nil).(string)
	if !ok {
		return nil
	}
	page := &ConnectionPage{
		Typename: typename,
		Nodes:    readNodes(c.Resolve(link, "nodes", nil)),
		PageInfo: DefaultPageInfo(),
	}
	if pageInfoKey, ok := c.Resolve(link, "pageInfo", nil).(string); ok && pageInfoKey != "" {
		page.PageInfo = readPageInfo(c, pageInfoKey)
	}
	return page
}

func readNodes(v any) []string {
	switch list := v.(type) {
	case []any:
		nodes := make([]string, len(list))
		for i, item := range list {
			if key, ok := item.(string); ok {
				nodes[i] = key
			}
		}
		return nodes
	case []string:
		return append([]string(nil), list...)
	}
	return []string{}
}

// readPageInfo tolerates partially written page info: missing booleans are
// derived from the presence of the matching cursor.
func readPageInfo(c cache.Cache, key string) PageInfo {
	pi := DefaultPageInfo()
	if typename, ok := c.Resolve(key, "__typename", nil).(string); ok {
		pi.Typename = typename
	}
	pi.EndCursor = readCursor(c.Resolve(key, "endCursor", nil))
	pi.StartCursor = readCursor(c.Resolve(key, "startCursor", nil))
	if v, ok := c.Resolve(key, "hasNextPage", nil).(bool); ok {
		pi.HasNextPage = v
	} else {
		pi.HasNextPage = pi.EndCursor != nil && *pi.EndCursor != ""
	}
	if v, ok := c.Resolve(key, "hasPreviousPage", nil).(bool); ok {
		pi.HasPreviousPage = v
	} else {
		pi.HasPreviousPage = pi.StartCursor != nil && *pi.StartCursor != ""
	}
	return pi
}

func readCursor(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
