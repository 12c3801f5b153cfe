package schema

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// BuildFromSDL parses and validates sdl together with the built-in scalars
// and directives, and returns the corresponding Schema.
func BuildFromSDL(sdl string) (*Schema, error) {
	src, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: sdl})
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return BuildFromAST(src), nil
}

// BuildFromAST converts a validated gqlparser schema.
func BuildFromAST(src *ast.Schema) *Schema {
	s := &Schema{
		Types:  make(map[string]*Type, len(src.Types)),
		source: src,
	}
	if src.Query != nil {
		s.QueryType = src.Query.Name
	}
	for name, def := range src.Types {
		t := buildType(def)
		if def.Kind == ast.Interface || def.Kind == ast.Union {
			for _, possible := range src.PossibleTypes[name] {
				t.PossibleTypes = append(t.PossibleTypes, possible.Name)
			}
		}
		s.Types[name] = t
	}
	return s
}

func buildType(def *ast.Definition) *Type {
	t := &Type{Name: def.Name, Kind: buildKind(def.Kind)}
	switch def.Kind {
	case ast.Object, ast.Interface:
		for _, f := range def.Fields {
			if strings.HasPrefix(f.Name, "__") {
				continue
			}
			t.Fields = append(t.Fields, buildField(f))
		}
	case ast.InputObject:
		for _, f := range def.Fields {
			t.InputFields = append(t.InputFields, buildInputValue(f.Name, f.Type, f.DefaultValue))
		}
	}
	return t
}

func buildKind(k ast.DefinitionKind) TypeKind {
	switch k {
	case ast.Object:
		return TypeKindObject
	case ast.Interface:
		return TypeKindInterface
	case ast.Union:
		return TypeKindUnion
	case ast.Enum:
		return TypeKindEnum
	case ast.InputObject:
		return TypeKindInputObject
	}
	return TypeKindScalar
}

func buildField(def *ast.FieldDefinition) *Field {
	f := &Field{Name: def.Name, Type: TypeRefFromAST(def.Type)}
	for _, arg := range def.Arguments {
		f.Arguments = append(f.Arguments, buildInputValue(arg.Name, arg.Type, arg.DefaultValue))
	}
	return f
}

// TypeRefFromAST converts a parsed type reference such as [String!]!.
func TypeRefFromAST(t *ast.Type) *TypeRef {
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListType(TypeRefFromAST(t.Elem))
	} else {
		ref = NamedType(t.NamedType)
	}
	if t.NonNull {
		ref = NonNullType(ref)
	}
	return ref
}

// buildInputValue converts an argument or input field. Declared defaults are
// evaluated once here so reads can apply them without the AST.
func buildInputValue(name string, typ *ast.Type, def *ast.Value) *InputValue {
	in := &InputValue{Name: name, Type: TypeRefFromAST(typ)}
	if def != nil {
		if v, err := def.Value(nil); err == nil {
			in.DefaultValue = v
		}
	}
	return in
}
