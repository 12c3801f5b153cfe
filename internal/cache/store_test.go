package cache

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStore_ResolveAndLookup(t *testing.T) {
	s := NewStore()
	s.WriteRecord("Todo:1", "text", nil, "write tests")
	s.WriteRecord("Todo:1", "note", nil, nil)
	s.WriteLink("Query", "todo", Args{"id": "1"}, "Todo:1")

	require.Equal(t, "write tests", s.Resolve("Todo:1", "text", nil))
	require.Equal(t, "Todo:1", s.Resolve("Query", "todo", Args{"id": "1"}))
	require.Equal(t, "Todo:1", s.ResolveFieldByKey("Query", `todo({"id":"1"})`))
	require.Nil(t, s.Resolve("Query", "todo", Args{"id": "2"}))

	v, ok := s.Lookup("Todo:1", "note")
	require.True(t, ok)
	require.Nil(t, v)

	_, ok = s.Lookup("Todo:1", "done")
	require.False(t, ok)
	_, ok = s.Lookup("Todo:2", "text")
	require.False(t, ok)
}

func TestStore_LinkReplacesRecord(t *testing.T) {
	s := NewStore()
	s.WriteRecord("Query", "viewer", nil, "anonymous")
	s.WriteLink("Query", "viewer", nil, "User:1")
	require.Equal(t, "User:1", s.Resolve("Query", "viewer", nil))

	s.WriteRecord("Query", "viewer", nil, "anonymous")
	require.Equal(t, "anonymous", s.Resolve("Query", "viewer", nil))
}

func TestStore_InspectFields(t *testing.T) {
	s := NewStore()
	s.WriteRecord("Query", "count", nil, 3)
	s.WriteLink("Query", "todos", Args{"first": 2}, "Query.todos.1")
	s.WriteLink("Query", "todos", Args{"first": 2, "after": "b"}, "Query.todos.2")
	s.WriteRecord("Query", "count", nil, 4)

	want := []FieldInfo{
		{FieldName: "count", FieldKey: "count"},
		{FieldName: "todos", FieldKey: `todos({"first":2})`, Arguments: Args{"first": 2}},
		{FieldName: "todos", FieldKey: `todos({"after":"b","first":2})`, Arguments: Args{"after": "b", "first": 2}},
	}
	got := s.InspectFields("Query")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	got[1].Arguments["first"] = 100
	require.Equal(t, 2, s.InspectFields("Query")[1].Arguments["first"])

	require.Empty(t, s.InspectFields("Unknown"))
}

func TestStore_ImplementsCache(t *testing.T) {
	var _ Cache = NewStore()
}
