// Package attr provides typed attribute values for telemetry.
//
// Attributes attach structured metadata to spans, events, and session
// actions. Values are a closed set of kinds (string, int, float) so an
// unsupported attribute type is a compile error rather than a runtime
// surprise.
package attr

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the type stored in a Value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Value holds one of the supported attribute types.
// The zero Value is an empty string.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

// StringValue creates a string-kinded value.
func StringValue(v string) Value {
	return Value{kind: KindString, s: v}
}

// IntValue creates an int-kinded value.
func IntValue(v int64) Value {
	return Value{kind: KindInt, i: v}
}

// FloatValue creates a float-kinded value.
func FloatValue(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

// Kind returns the stored kind.
func (v Value) Kind() Kind {
	return v.kind
}

// AsString returns the string payload. Zero value for other kinds.
func (v Value) AsString() string {
	return v.s
}

// AsInt returns the int payload. Zero value for other kinds.
func (v Value) AsInt() int64 {
	return v.i
}

// AsFloat returns the float payload. Zero value for other kinds.
func (v Value) AsFloat() float64 {
	return v.f
}

// Any returns the payload as an interface value, used for JSON encoding.
func (v Value) Any() interface{} {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	default:
		return v.s
	}
}

// MarshalJSON emits the native scalar form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// Emit renders the value for logs and display strings.
func (v Value) Emit() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return v.s
	}
}

// KeyValue pairs an attribute key with its value.
type KeyValue struct {
	Key   string
	Value Value
}

// String creates a string attribute.
func String(key, value string) KeyValue {
	return KeyValue{Key: key, Value: StringValue(value)}
}

// Int creates an int attribute.
func Int(key string, value int64) KeyValue {
	return KeyValue{Key: key, Value: IntValue(value)}
}

// Float creates a float attribute.
func Float(key string, value float64) KeyValue {
	return KeyValue{Key: key, Value: FloatValue(value)}
}

// Emit renders the pair as key=value.
func (kv KeyValue) Emit() string {
	return fmt.Sprintf("%s=%s", kv.Key, kv.Value.Emit())
}

// Map flattens a list of pairs into a map for JSON encoding.
// Later duplicates win, matching merge semantics elsewhere.
func Map(kvs []KeyValue) map[string]interface{} {
	if len(kvs) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(kvs))
	for _, kv := range kvs {
		out[kv.Key] = kv.Value.Any()
	}
	return out
}

// Merge appends pairs into dst with last-write-wins per key while
// preserving first-insertion order.
func Merge(dst []KeyValue, kvs ...KeyValue) []KeyValue {
	for _, kv := range kvs {
		replaced := false
		for i := range dst {
			if dst[i].Key == kv.Key {
				dst[i].Value = kv.Value
				replaced = true
				break
			}
		}
		if !replaced {
			dst = append(dst, kv)
		}
	}
	return dst
}
