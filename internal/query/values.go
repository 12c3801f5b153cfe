package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hanpama/graphcache/internal/cache"
	language "github.com/hanpama/graphcache/internal/language"
	schema "github.com/hanpama/graphcache/internal/schema"
)

// coerceVariableValues applies defaults and, when a schema is available,
// coerces provided variables to their declared types.
func coerceVariableValues(
	sch *schema.Schema,
	operation *language.OperationDefinition,
	variableValues map[string]any,
) (map[string]any, error) {
	coerced := make(map[string]any)
	for _, varDef := range operation.VariableDefinitions {
		name := varDef.Variable
		t := varDef.Type
		val, ok := variableValues[name]
		if !ok {
			if v2, ok2 := variableValues[strings.TrimPrefix(name, "$")]; ok2 {
				val = v2
				ok = true
			}
		}
		if !ok {
			if varDef.DefaultValue != nil {
				val = valueFromAST(varDef.DefaultValue, nil)
			} else if t.NonNull {
				return nil, fmt.Errorf("variable $%s of required type %s was not provided", name, t.String())
			} else {
				continue
			}
		}
		if val == nil && t.NonNull {
			return nil, fmt.Errorf("variable $%s of type %s cannot be null", name, t.String())
		}
		if sch != nil {
			cv, err := coerceValue(sch, val, schema.TypeRefFromAST(t))
			if err != nil {
				return nil, fmt.Errorf("variable $%s of type %s cannot be coerced: %v", name, t.String(), err)
			}
			val = cv
		}
		coerced[name] = val
	}
	return coerced, nil
}

// coerceArgumentValues computes the arguments of a field. Null arguments are
// dropped, matching how the store derives field keys. It reports false when
// an argument cannot be coerced; the field is then read as missing.
func coerceArgumentValues(state *readState, parentType string, field *language.Field, path Path) (cache.Args, bool) {
	var fieldDef *schema.Field
	if state.schema != nil {
		fieldDef = state.schema.FieldDefinition(parentType, field.Name)
	}
	args := make(cache.Args)
	for _, arg := range field.Arguments {
		val := valueFromAST(arg.Value, state.variableValues)
		if fieldDef != nil {
			for _, argDef := range fieldDef.Arguments {
				if argDef.Name != arg.Name {
					continue
				}
				cv, err := coerceValue(state.schema, val, argDef.Type)
				if err != nil {
					state.addError(fmt.Sprintf("argument '%s' cannot be coerced: %v", arg.Name, err), path)
					return nil, false
				}
				val = cv
			}
		}
		args[arg.Name] = val
	}
	if fieldDef != nil {
		for _, argDef := range fieldDef.Arguments {
			if _, ok := args[argDef.Name]; !ok && argDef.DefaultValue != nil {
				args[argDef.Name] = argDef.DefaultValue
			}
		}
	}
	return cache.NormalizeArgs(args), true
}

// valueFromAST converts an AST value to a runtime value, substituting
// variables at any depth.
func valueFromAST(value *language.Value, variableValues map[string]any) any {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case language.Variable:
		name := value.Raw
		if v, ok := variableValues[name]; ok {
			return v
		}
		if v, ok := variableValues[strings.TrimPrefix(name, "$")]; ok {
			return v
		}
		return nil
	case language.IntValue:
		iv, _ := strconv.Atoi(value.Raw)
		return iv
	case language.FloatValue:
		fv, _ := strconv.ParseFloat(value.Raw, 64)
		return fv
	case language.StringValue, language.BlockValue, language.EnumValue:
		return value.Raw
	case language.BooleanValue:
		return value.Raw == "true"
	case language.NullValue:
		return nil
	case language.ListValue:
		out := make([]any, len(value.Children))
		for i, c := range value.Children {
			out[i] = valueFromAST(c.Value, variableValues)
		}
		return out
	case language.ObjectValue:
		m := make(map[string]any)
		for _, f := range value.Children {
			m[f.Name] = valueFromAST(f.Value, variableValues)
		}
		return m
	default:
		return nil
	}
}

// coerceValue coerces a value to the specified GraphQL type
func coerceValue(sch *schema.Schema, value any, targetType *schema.TypeRef) (any, error) {
	if schema.IsNonNull(targetType) {
		if value == nil {
			return nil, fmt.Errorf("cannot provide null for non-null type")
		}
		return coerceValue(sch, value, schema.Unwrap(targetType))
	}
	if value == nil {
		return nil, nil
	}
	if schema.IsList(targetType) {
		return coerceListValue(sch, value, targetType)
	}

	name := schema.GetNamedType(targetType)
	switch name {
	case "Int":
		return coerceToInt(value)
	case "Float":
		return coerceToFloat(value)
	case "String":
		return coerceToString(value)
	case "Boolean":
		return coerceToBoolean(value)
	case "ID":
		return coerceToID(value)
	}
	if sch != nil {
		if input := sch.InputObject(name); input != nil {
			return coerceInputObject(sch, value, input)
		}
	}
	// Enums and custom scalars are kept as provided.
	return value, nil
}

// coerceInputObject coerces each declared field and fills in declared
// defaults, so the value encodes like the arguments the cache was written
// with.
func coerceInputObject(sch *schema.Schema, value any, input *schema.Type) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("cannot coerce %v (%T) to input object %s", value, value, input.Name)
	}
	out := make(map[string]any, len(input.InputFields))
	for _, f := range input.InputFields {
		v, ok := m[f.Name]
		if !ok {
			if f.DefaultValue != nil {
				out[f.Name] = f.DefaultValue
			} else if schema.IsNonNull(f.Type) {
				return nil, fmt.Errorf("field %s.%s is required", input.Name, f.Name)
			}
			continue
		}
		cv, err := coerceValue(sch, v, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", input.Name, f.Name, err)
		}
		out[f.Name] = cv
	}
	for k := range m {
		if !hasInputField(input, k) {
			return nil, fmt.Errorf("field %q is not defined by %s", k, input.Name)
		}
	}
	return out, nil
}

func hasInputField(input *schema.Type, name string) bool {
	for _, f := range input.InputFields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func coerceListValue(sch *schema.Schema, value any, listType *schema.TypeRef) (any, error) {
	innerType := schema.Unwrap(listType)
	if slice, ok := value.([]any); ok {
		coercedSlice := make([]any, len(slice))
		for i, item := range slice {
			coercedItem, err := coerceValue(sch, item, innerType)
			if err != nil {
				return nil, err
			}
			coercedSlice[i] = coercedItem
		}
		return coercedSlice, nil
	}

	// Single value becomes a list of one
	coercedItem, err := coerceValue(sch, value, innerType)
	if err != nil {
		return nil, err
	}
	return []any{coercedItem}, nil
}

func coerceToInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	case float32:
		if v == float32(int(v)) {
			return int(v), nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to int", value, value)
}

func coerceToFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to float", value, value)
}

func coerceToString(value any) (any, error) {
	if v, ok := value.(string); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to string", value, value)
}

func coerceToBoolean(value any) (any, error) {
	if v, ok := value.(bool); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to boolean", value, value)
}

func coerceToID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to ID", value, value)
}
