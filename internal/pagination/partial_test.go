package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/graphcache/internal/cache"
)

func TestDecide(t *testing.T) {
	s := cache.NewStore()
	writePage(t, s, "Query", "items", cache.Args{"first": 1}, "ItemConnection", []any{"Item:1"}, nil)

	tests := []struct {
		name      string
		args      cache.Args
		hasSchema bool
		want      Completeness
	}{
		{"exact request cached", cache.Args{"first": 1}, false, Complete},
		{"exact request cached with schema", cache.Args{"first": 1}, true, Complete},
		{"null arguments ignored", cache.Args{"first": 1, "after": nil}, false, Complete},
		{"different window without schema", cache.Args{"first": 2}, false, Miss},
		{"different window with schema", cache.Args{"first": 2}, true, Partial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(s, "Query", "items", tt.args, tt.hasSchema)
			require.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestDecide_NullLinkIsNotCached(t *testing.T) {
	s := cache.NewStore()
	s.WriteLink("Query", "items", cache.Args{"first": 1}, nil)
	require.Equal(t, Miss, Decide(s, "Query", "items", cache.Args{"first": 1}, false))
	require.Equal(t, Partial, Decide(s, "Query", "items", cache.Args{"first": 1}, true))
}
