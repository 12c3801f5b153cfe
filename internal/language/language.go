// Package language wraps gqlparser for reading GraphQL query documents.
package language

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseQuery parses source without validating it against a schema.
func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadQuery parses source and validates it against schema.
func LoadQuery(schema *ast.Schema, source string) (*QueryDocument, error) {
	doc, errs := gqlparser.LoadQuery(schema, source)
	if len(errs) > 0 {
		return nil, errs
	}
	return doc, nil
}
