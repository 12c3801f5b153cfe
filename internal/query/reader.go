package query

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/hanpama/graphcache/internal/cache"
	eventbus "github.com/hanpama/graphcache/internal/eventbus"
	events "github.com/hanpama/graphcache/internal/events"
	language "github.com/hanpama/graphcache/internal/language"
	"github.com/hanpama/graphcache/internal/log"
	reqid "github.com/hanpama/graphcache/internal/reqid"
	schema "github.com/hanpama/graphcache/internal/schema"
)

// Store is the cache a Reader reads from. Lookup tells a stored null apart
// from a field that was never written.
type Store interface {
	cache.Cache
	Lookup(entityKey, fieldKey string) (any, bool)
}

type Options struct {
	// Schema enables partial results and abstract fragment matching.
	Schema *schema.Schema
	// Resolvers are keyed by "Type.field".
	Resolvers map[string]cache.Resolver
}

type Option func(*Options)

func WithSchema(s *schema.Schema) Option { return func(o *Options) { o.Schema = s } }

// WithResolver serves typename.field with r instead of the stored value.
func WithResolver(typename, field string, r cache.Resolver) Option {
	return func(o *Options) {
		if o.Resolvers == nil {
			o.Resolvers = make(map[string]cache.Resolver)
		}
		o.Resolvers[typename+"."+field] = r
	}
}

// Reader reads query documents from a Store. It holds no per-read state and
// may be shared.
type Reader struct {
	store Store
	opt   Options
}

func NewReader(store Store, opts ...Option) *Reader {
	r := &Reader{store: store}
	for _, f := range opts {
		f(&r.opt)
	}
	return r
}

type readState struct {
	ctx            context.Context
	logger         logr.Logger
	reader         *Reader
	schema         *schema.Schema
	document       *language.QueryDocument
	variableValues map[string]any
	partial        bool
	errors         []ReadError
}

func (s *readState) addError(msg string, path Path) {
	s.errors = append(s.errors, ReadError{Message: msg, Path: path})
}

// source is the object a selection set is read from: a cached entity, or an
// inline object produced by a resolver.
type source struct {
	key   string
	value map[string]any
}

// ReadQuery parses query, validating it when the reader has a schema, and
// reads the named operation.
func (r *Reader) ReadQuery(ctx context.Context, query, operationName string, variables map[string]any) (*Result, error) {
	var (
		doc *language.QueryDocument
		err error
	)
	if r.opt.Schema != nil && r.opt.Schema.AST() != nil {
		doc, err = language.LoadQuery(r.opt.Schema.AST(), query)
	} else {
		doc, err = language.ParseQuery(query)
	}
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	return r.Read(ctx, doc, operationName, variables), nil
}

// Read reads the named operation of document (or its only operation when
// operationName is empty).
func (r *Reader) Read(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variableValues map[string]any,
) *Result {
	ctx, _ = reqid.NewContext(ctx)
	start := time.Now()

	operation := getOperation(document, operationName)
	if operation == nil {
		return &Result{Errors: []ReadError{{Message: "operation not found"}}}
	}
	eventbus.Publish(ctx, events.ReadStart{
		OperationName: operation.Name,
		OperationType: string(operation.Operation),
	})

	res := r.read(ctx, document, operation, variableValues)

	errs := make([]error, len(res.Errors))
	for i, e := range res.Errors {
		errs[i] = e
	}
	eventbus.Publish(ctx, events.ReadFinish{
		OperationName: operation.Name,
		OperationType: string(operation.Operation),
		Miss:          res.Data == nil,
		Partial:       res.Partial,
		Errors:        errs,
		Duration:      time.Since(start),
	})
	return res
}

func (r *Reader) read(ctx context.Context, document *language.QueryDocument, operation *language.OperationDefinition, variableValues map[string]any) *Result {
	if operation.Operation != language.Query {
		return &Result{Errors: []ReadError{{Message: fmt.Sprintf("cannot read %s operations from the cache", operation.Operation)}}}
	}
	coerced, err := coerceVariableValues(r.opt.Schema, operation, variableValues)
	if err != nil {
		return &Result{Errors: []ReadError{{Message: err.Error()}}}
	}

	rootType := "Query"
	if r.opt.Schema != nil && r.opt.Schema.QueryType != "" {
		rootType = r.opt.Schema.QueryType
	}
	state := &readState{
		ctx:            ctx,
		logger:         log.FromContext(ctx),
		reader:         r,
		schema:         r.opt.Schema,
		document:       document,
		variableValues: coerced,
	}

	data, ok := readSelectionSet(state, source{key: rootType}, rootType, operation.SelectionSet, Path{})
	if !ok {
		return &Result{Errors: state.errors}
	}
	return &Result{Data: data, Partial: state.partial, Errors: state.errors}
}

// readSelectionSet reads every collected field of selectionSet from src. It
// reports false when a required field is missing.
func readSelectionSet(state *readState, src source, typename string, selectionSet language.SelectionSet, path Path) (map[string]any, bool) {
	groupedFields := collectFields(state, typename, selectionSet)
	resultMap := make(map[string]any)

	for _, cf := range groupedFields.orderedFields() {
		responseName := cf.ResponseName
		field := cf.Fields[0]
		fieldPath := appendPath(path, responseName)

		if field.Name == "__typename" {
			resultMap[responseName] = typename
			continue
		}

		value, present := readField(state, src, typename, field, fieldPath)
		if present {
			sub := cf.subSelection()
			if len(sub) == 0 {
				resultMap[responseName] = value
				continue
			}
			var completed any
			if completed, present = readValue(state, typename, field.Name, value, sub, fieldPath); present {
				resultMap[responseName] = completed
				continue
			}
		}

		if state.schema != nil && state.schema.IsFieldNullable(typename, field.Name) {
			resultMap[responseName] = nil
			state.partial = true
			continue
		}
		state.logger.V(1).Info("cache miss", "entity", src.key, "type", typename, "field", field.Name)
		return nil, false
	}
	return resultMap, true
}

// readField produces the raw value of field on src: from a registered
// resolver, the inline object, or the store.
func readField(state *readState, src source, typename string, field *language.Field, path Path) (any, bool) {
	args, ok := coerceArgumentValues(state, typename, field, path)
	if !ok {
		return nil, false
	}
	fieldKey := cache.KeyOfField(field.Name, args)

	if src.value != nil {
		v, ok := src.value[field.Name]
		return v, ok
	}

	if resolve := state.reader.opt.Resolvers[typename+"."+field.Name]; resolve != nil {
		res, err := resolve(state.ctx, args, state.reader.store, cache.Info{
			ParentKey:      src.key,
			ParentTypeName: typename,
			FieldName:      field.Name,
			FieldKey:       fieldKey,
			HasSchema:      state.schema != nil,
		})
		if err != nil {
			state.addError(err.Error(), path)
			return nil, false
		}
		if res.Partial {
			state.partial = true
		}
		return res.Value, res.Value != nil
	}

	return state.reader.store.Lookup(src.key, fieldKey)
}

// readValue completes a value that has a selection set.
func readValue(state *readState, parentType, fieldName string, value any, sub language.SelectionSet, path Path) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case string:
		typename, ok := state.reader.store.Resolve(v, "__typename", nil).(string)
		if !ok {
			return nil, false
		}
		data, ok := readSelectionSet(state, source{key: v}, typename, sub, path)
		if !ok {
			return nil, false
		}
		return data, true
	case map[string]any:
		typename, _ := v["__typename"].(string)
		data, ok := readSelectionSet(state, source{value: v}, typename, sub, path)
		if !ok {
			return nil, false
		}
		return data, true
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			completed, ok := readValue(state, parentType, fieldName, item, sub, appendPath(path, i))
			if !ok {
				if state.schema != nil && state.schema.IsListItemNullable(parentType, fieldName) {
					state.partial = true
					continue
				}
				return nil, false
			}
			out[i] = completed
		}
		return out, true
	}
	return nil, false
}

func getOperation(document *language.QueryDocument, operationName string) *language.OperationDefinition {
	if operationName == "" {
		if len(document.Operations) == 1 {
			return document.Operations[0]
		}
		return nil
	}
	return document.Operations.ForName(operationName)
}
