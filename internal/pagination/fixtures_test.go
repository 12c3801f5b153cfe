package pagination

import (
	"testing"

	"github.com/hanpama/graphcache/internal/cache"
)

// writePage stores a connection page for field with args on entity the way a
// normalizing cache would: the field links to a connection entity, which
// links to its nodes and page info.
func writePage(t *testing.T, s *cache.Store, entity, field string, args cache.Args, typename string, nodes []any, pageInfo map[string]any) {
	t.Helper()
	key := entity + "." + cache.KeyOfField(field, args)
	s.WriteLink(entity, field, args, key)
	s.WriteRecord(key, "__typename", nil, typename)
	s.WriteLink(key, "nodes", nil, nodes)
	if pageInfo != nil {
		pageInfoKey := key + ".pageInfo"
		s.WriteLink(key, "pageInfo", nil, pageInfoKey)
		for name, v := range pageInfo {
			s.WriteRecord(pageInfoKey, name, nil, v)
		}
	}
	for _, n := range nodes {
		if k, ok := n.(string); ok {
			s.WriteRecord(k, "__typename", nil, "Item")
		}
	}
}

func ptr(s string) *string { return &s }
