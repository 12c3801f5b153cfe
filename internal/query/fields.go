package query

import (
	language "github.com/hanpama/graphcache/internal/language"
)

// collectedFieldMap preserves field order as written in the query
type collectedFieldMap struct {
	fields []collectedField
	index  map[string]int
}

type collectedField struct {
	ResponseName string
	Fields       []*language.Field
}

func newCollectedFieldMap() *collectedFieldMap {
	return &collectedFieldMap{
		fields: make([]collectedField, 0),
		index:  make(map[string]int),
	}
}

func (cfm *collectedFieldMap) add(responseName string, field *language.Field) {
	if idx, exists := cfm.index[responseName]; exists {
		cfm.fields[idx].Fields = append(cfm.fields[idx].Fields, field)
		return
	}
	cfm.index[responseName] = len(cfm.fields)
	cfm.fields = append(cfm.fields, collectedField{
		ResponseName: responseName,
		Fields:       []*language.Field{field},
	})
}

func (cfm *collectedFieldMap) orderedFields() []collectedField {
	return cfm.fields
}

// subSelection merges the selection sets of every field sharing a response
// name.
func (cf collectedField) subSelection() language.SelectionSet {
	if len(cf.Fields) == 1 {
		return cf.Fields[0].SelectionSet
	}
	var out language.SelectionSet
	for _, f := range cf.Fields {
		out = append(out, f.SelectionSet...)
	}
	return out
}

// collectFields collects the fields of selectionSet that apply to typename.
func collectFields(state *readState, typename string, selectionSet language.SelectionSet) *collectedFieldMap {
	groupedFields := newCollectedFieldMap()
	visitedFragments := make(map[string]bool)
	collectFieldsImpl(state, typename, selectionSet, groupedFields, visitedFragments)
	return groupedFields
}

func collectFieldsImpl(state *readState, typename string, selectionSet language.SelectionSet, groupedFields *collectedFieldMap, visitedFragments map[string]bool) {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			if !shouldIncludeNode(state, sel.Directives) {
				continue
			}
			responseName := sel.Alias
			if responseName == "" {
				responseName = sel.Name
			}
			groupedFields.add(responseName, sel)

		case *language.InlineFragment:
			if !shouldIncludeNode(state, sel.Directives) {
				continue
			}
			if !typeConditionMatches(state, sel.TypeCondition, typename) {
				continue
			}
			collectFieldsImpl(state, typename, sel.SelectionSet, groupedFields, visitedFragments)

		case *language.FragmentSpread:
			if !shouldIncludeNode(state, sel.Directives) {
				continue
			}
			if visitedFragments[sel.Name] {
				continue
			}
			visitedFragments[sel.Name] = true

			fragmentDef := state.document.Fragments.ForName(sel.Name)
			if fragmentDef == nil {
				continue
			}
			if !typeConditionMatches(state, fragmentDef.TypeCondition, typename) {
				continue
			}
			if !shouldIncludeNode(state, fragmentDef.Directives) {
				continue
			}
			collectFieldsImpl(state, typename, fragmentDef.SelectionSet, groupedFields, visitedFragments)
		}
	}
}

// typeConditionMatches matches a fragment type condition against the cached
// typename. Abstract conditions need a schema to resolve; without one only
// exact matches apply.
func typeConditionMatches(state *readState, condition, typename string) bool {
	if condition == "" || condition == typename {
		return true
	}
	return state.schema != nil && state.schema.IsPossibleType(condition, typename)
}

// shouldIncludeNode evaluates @skip and @include.
func shouldIncludeNode(state *readState, directives language.DirectiveList) bool {
	if skip := directives.ForName("skip"); skip != nil {
		if arg := skip.Arguments.ForName("if"); arg != nil {
			if v, ok := valueFromAST(arg.Value, state.variableValues).(bool); ok && v {
				return false
			}
		}
	}
	if include := directives.ForName("include"); include != nil {
		if arg := include.Arguments.ForName("if"); arg != nil {
			if v, ok := valueFromAST(arg.Value, state.variableValues).(bool); ok && !v {
				return false
			}
		}
	}
	return true
}
