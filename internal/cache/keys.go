package cache

import (
	"encoding/json"
	"fmt"
)

// KeyOfField derives the field key for fieldName with args. Arguments whose
// value is nil are dropped, so an explicit null and an omitted argument
// address the same variant.
func KeyOfField(fieldName string, args Args) string {
	norm := NormalizeArgs(args)
	if norm == nil {
		return fieldName
	}
	return fieldName + "(" + Stringify(norm) + ")"
}

// NormalizeArgs returns a copy of args without nil values, or nil when no
// argument remains.
func NormalizeArgs(args Args) Args {
	var out Args
	for k, v := range args {
		if v == nil {
			continue
		}
		if out == nil {
			out = make(Args, len(args))
		}
		out[k] = v
	}
	return out
}

// Stringify returns a canonical encoding of v. Map keys are sorted, so two
// values that differ only in key order encode identically.
func Stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
