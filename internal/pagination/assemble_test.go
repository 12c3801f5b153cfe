package pagination

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/graphcache/internal/cache"
)

func assemble(t *testing.T, s *cache.Store, args cache.Args, mode MergeMode) *ConnectionPage {
	t.Helper()
	page, err := Assemble(s, "Query", "items", args, mode)
	require.NoError(t, err)
	return page
}

func TestAssemble_ForwardPagination(t *testing.T) {
	s := cache.NewStore()
	writePage(t, s, "Query", "items", cache.Args{"first": 1, "after": nil}, "ItemConnection",
		[]any{"Item:1"}, map[string]any{"hasNextPage": true, "endCursor": "1"})
	writePage(t, s, "Query", "items", cache.Args{"first": 1, "after": "1"}, "ItemConnection",
		[]any{"Item:2"}, map[string]any{"hasNextPage": false, "endCursor": nil})

	want := &ConnectionPage{
		Typename: "ItemConnection",
		Nodes:    []string{"Item:1", "Item:2"},
		PageInfo: PageInfo{Typename: "PageInfo", HasNextPage: false},
	}
	if diff := cmp.Diff(want, assemble(t, s, cache.Args{"first": 1}, Inwards)); diff != "" {
		t.Fatalf("connection mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, Complete, Decide(s, "Query", "items", cache.Args{"first": 1, "after": nil}, false))
}

func TestAssemble_BackwardPagination(t *testing.T) {
	s := cache.NewStore()
	writePage(t, s, "Query", "items", cache.Args{"last": 1}, "ItemConnection",
		[]any{"Item:2"}, map[string]any{"hasPreviousPage": true, "startCursor": "2"})
	writePage(t, s, "Query", "items", cache.Args{"last": 1, "before": "2"}, "ItemConnection",
		[]any{"Item:1"}, map[string]any{"hasPreviousPage": false, "startCursor": nil})

	want := &ConnectionPage{
		Typename: "ItemConnection",
		Nodes:    []string{"Item:1", "Item:2"},
		PageInfo: PageInfo{Typename: "PageInfo", HasPreviousPage: false},
	}
	if diff := cmp.Diff(want, assemble(t, s, cache.Args{"last": 1}, Inwards)); diff != "" {
		t.Fatalf("connection mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_OverlappingPages(t *testing.T) {
	s := cache.NewStore()
	writePage(t, s, "Query", "items", cache.Args{"first": 2}, "ItemConnection",
		[]any{"Item:a", "Item:b"}, map[string]any{"hasNextPage": true, "endCursor": "b"})
	writePage(t, s, "Query", "items", cache.Args{"first": 2, "after": "a"}, "ItemConnection",
		[]any{"Item:b", "Item:c"}, map[string]any{"hasNextPage": false, "endCursor": "c"})

	page := assemble(t, s, cache.Args{"first": 2}, Inwards)
	require.NotNil(t, page)
	if diff := cmp.Diff([]string{"Item:a", "Item:b", "Item:c"}, page.Nodes); diff != "" {
		t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, ptr("c"), page.PageInfo.EndCursor)
	require.False(t, page.PageInfo.HasNextPage)
}

func TestAssemble_MergeModes(t *testing.T) {
	s := cache.NewStore()
	writePage(t, s, "Query", "items", cache.Args{"last": 1, "before": "3"}, "ItemConnection",
		[]any{"Item:2"}, map[string]any{"hasPreviousPage": true, "startCursor": "2"})
	writePage(t, s, "Query", "items", cache.Args{"first": 1, "after": "3"}, "ItemConnection",
		[]any{"Item:4"}, map[string]any{"hasNextPage": true, "endCursor": "4"})

	inwards := assemble(t, s, cache.Args{}, Inwards)
	outwards := assemble(t, s, cache.Args{}, Outwards)
	if diff := cmp.Diff([]string{"Item:4", "Item:2"}, inwards.Nodes); diff != "" {
		t.Fatalf("inwards nodes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Item:2", "Item:4"}, outwards.Nodes); diff != "" {
		t.Fatalf("outwards nodes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(inwards.PageInfo, outwards.PageInfo); diff != "" {
		t.Fatalf("page info should not depend on merge mode (-inwards +outwards):\n%s", diff)
	}
	want := PageInfo{
		Typename:        "PageInfo",
		EndCursor:       ptr("4"),
		StartCursor:     ptr("2"),
		HasNextPage:     true,
		HasPreviousPage: true,
	}
	if diff := cmp.Diff(want, inwards.PageInfo); diff != "" {
		t.Fatalf("page info mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_PivotPage(t *testing.T) {
	s := cache.NewStore()
	pivotInfo := map[string]any{"hasNextPage": true, "hasPreviousPage": true, "startCursor": "a", "endCursor": "d"}
	writePage(t, s, "Query", "items", cache.Args{"first": 1, "last": 1}, "ItemConnection",
		[]any{"Item:a", "Item:b", "Item:c", "Item:d"}, pivotInfo)

	t.Run("inwards splits the pivot", func(t *testing.T) {
		page := assemble(t, s, cache.Args{}, Inwards)
		want := &ConnectionPage{
			Typename: "ItemConnection",
			Nodes:    []string{"Item:a", "Item:b", "Item:d"},
			PageInfo: PageInfo{
				Typename:        "PageInfo",
				StartCursor:     ptr("a"),
				EndCursor:       ptr("d"),
				HasNextPage:     true,
				HasPreviousPage: true,
			},
		}
		if diff := cmp.Diff(want, page); diff != "" {
			t.Fatalf("connection mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("outwards treats it as a last page", func(t *testing.T) {
		page := assemble(t, s, cache.Args{}, Outwards)
		if diff := cmp.Diff([]string{"Item:a", "Item:b", "Item:c", "Item:d"}, page.Nodes); diff != "" {
			t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("second pivot is unsupported inwards", func(t *testing.T) {
		s := cache.NewStore()
		writePage(t, s, "Query", "items", cache.Args{"first": 1, "last": 1}, "ItemConnection",
			[]any{"Item:a", "Item:b"}, pivotInfo)
		writePage(t, s, "Query", "items", cache.Args{"first": 2, "last": 1}, "ItemConnection",
			[]any{"Item:c", "Item:d"}, pivotInfo)

		page, err := Assemble(s, "Query", "items", cache.Args{}, Inwards)
		require.Nil(t, page)
		require.True(t, errors.Is(err, ErrMultiplePivots))

		page, err = Assemble(s, "Query", "items", cache.Args{}, Outwards)
		require.NoError(t, err)
		require.NotNil(t, page)
	})
}

func TestAssemble_FilterIsolation(t *testing.T) {
	s := cache.NewStore()
	writePage(t, s, "Query", "items", cache.Args{"filter": "one", "first": 1}, "ItemConnection",
		[]any{"Item:1"}, map[string]any{"hasNextPage": true, "endCursor": "1"})
	writePage(t, s, "Query", "items", cache.Args{"filter": "two", "first": 1}, "ItemConnection",
		[]any{"Item:2"}, map[string]any{"hasNextPage": true, "endCursor": "2"})
	writePage(t, s, "Query", "items", cache.Args{"filter": "one", "first": 1, "after": "1"}, "ItemConnection",
		[]any{"Item:3"}, map[string]any{"hasNextPage": false, "endCursor": "3"})

	one := assemble(t, s, cache.Args{"filter": "one", "first": 1}, Inwards)
	if diff := cmp.Diff([]string{"Item:1", "Item:3"}, one.Nodes); diff != "" {
		t.Fatalf("filter one mismatch (-want +got):\n%s", diff)
	}
	two := assemble(t, s, cache.Args{"filter": "two", "first": 1}, Inwards)
	if diff := cmp.Diff([]string{"Item:2"}, two.Nodes); diff != "" {
		t.Fatalf("filter two mismatch (-want +got):\n%s", diff)
	}
	require.Nil(t, assemble(t, s, cache.Args{"filter": "three", "first": 1}, Inwards))
}

func TestAssemble_Misses(t *testing.T) {
	t.Run("nothing cached at entity", func(t *testing.T) {
		require.Nil(t, assemble(t, cache.NewStore(), cache.Args{"first": 1}, Inwards))
	})

	t.Run("only other fields cached", func(t *testing.T) {
		s := cache.NewStore()
		writePage(t, s, "Query", "others", cache.Args{"first": 1}, "OtherConnection", []any{"Item:1"}, nil)
		require.Nil(t, assemble(t, s, cache.Args{"first": 1}, Inwards))
	})

	t.Run("variant without arguments", func(t *testing.T) {
		s := cache.NewStore()
		writePage(t, s, "Query", "items", nil, "ItemConnection", []any{"Item:1"}, nil)
		require.Nil(t, assemble(t, s, cache.Args{}, Inwards))
	})

	t.Run("no readable page", func(t *testing.T) {
		s := cache.NewStore()
		s.WriteLink("Query", "items", cache.Args{"first": 1}, "conn")
		require.Nil(t, assemble(t, s, cache.Args{"first": 1}, Inwards))
	})
}

func TestAssemble_SkipsUnreadablePages(t *testing.T) {
	s := cache.NewStore()
	s.WriteLink("Query", "items", cache.Args{"first": 1}, "broken")
	writePage(t, s, "Query", "items", cache.Args{"first": 1, "after": "0"}, "ItemConnection",
		[]any{"Item:1"}, map[string]any{"hasNextPage": false, "endCursor": "1"})

	page := assemble(t, s, cache.Args{"first": 1}, Inwards)
	require.NotNil(t, page)
	if diff := cmp.Diff([]string{"Item:1"}, page.Nodes); diff != "" {
		t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_EmptyPageIsNotAMiss(t *testing.T) {
	s := cache.NewStore()
	writePage(t, s, "Query", "items", cache.Args{"first": 10}, "ItemConnection", []any{}, map[string]any{"hasNextPage": false})

	want := &ConnectionPage{Typename: "ItemConnection", Nodes: []string{}, PageInfo: DefaultPageInfo()}
	if diff := cmp.Diff(want, assemble(t, s, cache.Args{"first": 10}, Inwards)); diff != "" {
		t.Fatalf("connection mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_KeepsUnresolvedNodes(t *testing.T) {
	s := cache.NewStore()
	writePage(t, s, "Query", "items", cache.Args{"first": 2}, "ItemConnection", []any{"Item:a", nil}, nil)

	page := assemble(t, s, cache.Args{"first": 2}, Inwards)
	if diff := cmp.Diff([]string{"Item:a", ""}, page.Nodes); diff != "" {
		t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_PivotWithUnboundedFirst(t *testing.T) {
	tests := []struct {
		name  string
		first any
	}{
		{"max int", math.MaxInt},
		{"max uint64", uint64(math.MaxUint64)},
		{"huge float", 1e300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cache.NewStore()
			writePage(t, s, "Query", "items", cache.Args{"first": tt.first, "last": 1}, "ItemConnection",
				[]any{"Item:a", "Item:b", "Item:c"}, nil)

			page := assemble(t, s, cache.Args{}, Inwards)
			if diff := cmp.Diff([]string{"Item:a", "Item:b", "Item:c"}, page.Nodes); diff != "" {
				t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssemble_TracksLatestTypenames(t *testing.T) {
	s := cache.NewStore()
	writePage(t, s, "Query", "items", cache.Args{"first": 1}, "ItemConnection",
		[]any{"Item:1"}, map[string]any{"__typename": "PageInfo", "hasNextPage": true, "endCursor": "1"})
	writePage(t, s, "Query", "items", cache.Args{"first": 1, "after": "1"}, "ItemConnectionV2",
		[]any{"Item:2"}, map[string]any{"__typename": "ItemPageInfo", "hasNextPage": false, "endCursor": "2"})

	page := assemble(t, s, cache.Args{"first": 1}, Inwards)
	require.Equal(t, "ItemConnectionV2", page.Typename)
	require.Equal(t, "ItemPageInfo", page.PageInfo.Typename)
}

func TestAssemble_DoesNotWrite(t *testing.T) {
	s := cache.NewStore()
	writePage(t, s, "Query", "items", cache.Args{"first": 1}, "ItemConnection",
		[]any{"Item:1"}, map[string]any{"hasNextPage": true, "endCursor": "1"})
	before := s.InspectFields("Query")

	assemble(t, s, cache.Args{"first": 5, "filter": nil}, Inwards)
	if diff := cmp.Diff(before, s.InspectFields("Query")); diff != "" {
		t.Fatalf("store changed (-before +after):\n%s", diff)
	}
}
