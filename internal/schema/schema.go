// Package schema models a GraphQL schema for cache reads: which fields exist,
// which may be null, and which concrete types an abstract type covers.
package schema

import "github.com/vektah/gqlparser/v2/ast"

// Schema represents the complete GraphQL schema
type Schema struct {
	QueryType string
	Types     map[string]*Type // All named types keyed by name

	source *ast.Schema
}

// AST returns the parsed schema the model was built from, for validating
// query documents. It is nil for schemas assembled by hand.
func (s *Schema) AST() *ast.Schema { return s.source }

// FieldDefinition returns the field named fieldName on typename, or nil.
func (s *Schema) FieldDefinition(typename, fieldName string) *Field {
	t := s.Types[typename]
	if t == nil {
		return nil
	}
	for _, f := range t.Fields {
		if f.Name == fieldName {
			return f
		}
	}
	return nil
}

// IsFieldNullable reports whether a missing value for the field may be read as
// null. Unknown fields are not nullable.
func (s *Schema) IsFieldNullable(typename, fieldName string) bool {
	f := s.FieldDefinition(typename, fieldName)
	return f != nil && !IsNonNull(f.Type)
}

// IsListItemNullable reports whether items of a list field may be null.
func (s *Schema) IsListItemNullable(typename, fieldName string) bool {
	f := s.FieldDefinition(typename, fieldName)
	if f == nil || !IsList(f.Type) {
		return false
	}
	t := f.Type
	if t.IsNonNull() {
		t = t.Unwrap()
	}
	return !IsNonNull(t.Unwrap())
}

// InputObject returns the input object type named typename, or nil.
func (s *Schema) InputObject(typename string) *Type {
	if t := s.Types[typename]; t != nil && t.Kind == TypeKindInputObject {
		return t
	}
	return nil
}

// IsPossibleType reports whether concrete satisfies the type condition
// abstract: the same type, an implementation of the interface, or a member of
// the union.
func (s *Schema) IsPossibleType(abstract, concrete string) bool {
	if abstract == concrete {
		return true
	}
	t := s.Types[abstract]
	if t == nil {
		return false
	}
	for _, name := range t.PossibleTypes {
		if name == concrete {
			return true
		}
	}
	return false
}

// Type is a named GraphQL type (object, interface, union, scalar, enum, input)
type Type struct {
	Name          string
	Kind          TypeKind
	Fields        []*Field      // For OBJECT and INTERFACE
	PossibleTypes []string      // For INTERFACE and UNION
	InputFields   []*InputValue // For INPUT_OBJECT
}

// Field represents a field on an object or interface
type Field struct {
	Name      string
	Type      *TypeRef
	Arguments []*InputValue
}

// TypeKind represents the kind of GraphQL type
type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
)

// TypeRef represents a reference to a type (can be wrapped)
type TypeRef struct {
	Kind   TypeRefKind
	OfType *TypeRef // For List and NonNull
	Named  string   // For named types
}

type TypeRefKind string

const (
	TypeRefKindNamed   TypeRefKind = "NAMED"
	TypeRefKindList    TypeRefKind = "LIST"
	TypeRefKindNonNull TypeRefKind = "NON_NULL"
)

// Helper functions for TypeRef
func (t *TypeRef) IsNonNull() bool {
	return t != nil && t.Kind == TypeRefKindNonNull
}

func (t *TypeRef) IsList() bool {
	if t.Kind == TypeRefKindList {
		return true
	}
	if t.Kind == TypeRefKindNonNull && t.OfType != nil {
		return t.OfType.Kind == TypeRefKindList
	}
	return false
}

func (t *TypeRef) Unwrap() *TypeRef {
	if t.Kind == TypeRefKindNonNull || t.Kind == TypeRefKindList {
		return t.OfType
	}
	return t
}

func (t *TypeRef) GetNamedType() string {
	current := t
	for current != nil {
		if current.Named != "" {
			return current.Named
		}
		current = current.OfType
	}
	return ""
}

// InputValue is an argument or an input object field. DefaultValue is nil
// when none is declared.
type InputValue struct {
	Name         string
	Type         *TypeRef
	DefaultValue any
}

func NonNullType(t *TypeRef) *TypeRef { return &TypeRef{Kind: TypeRefKindNonNull, OfType: t} }
func ListType(t *TypeRef) *TypeRef    { return &TypeRef{Kind: TypeRefKindList, OfType: t} }
func NamedType(name string) *TypeRef  { return &TypeRef{Kind: TypeRefKindNamed, Named: name} }

// IsNonNull reports whether the type is wrapped with Non-Null.
func IsNonNull(t *TypeRef) bool { return t != nil && t.IsNonNull() }

// IsList reports whether the type is (or is wrapped by) a list type.
func IsList(t *TypeRef) bool { return t != nil && t.IsList() }

// Unwrap removes one layer of Non-Null or List wrapping and returns the inner type.
func Unwrap(t *TypeRef) *TypeRef { return t.Unwrap() }

// GetNamedType returns the innermost named type for the given reference.
func GetNamedType(t *TypeRef) string { return t.GetNamedType() }
