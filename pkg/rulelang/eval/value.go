package eval

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Kind is the dynamic type of a record value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a record value with JSON semantics. Arrays and objects only
// carry their length; the language never looks inside them.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	size int
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// FromAny converts a decoded JSON value, or a plain Go value of the same
// shape, into a Value. Integer and float types of any width become
// numbers; slices and maps become arrays and objects.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Number(f)
		}
		return String(x.String())
	case string:
		return String(x)
	case []any:
		return Value{kind: KindArray, size: len(x)}
	case map[string]any:
		return Value{kind: KindObject, size: len(x)}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return Value{kind: KindArray, size: rv.Len()}
	case reflect.Map:
		return Value{kind: KindObject, size: rv.Len()}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Struct:
		return Value{kind: KindObject, size: rv.NumField()}
	default:
		return String(fmt.Sprint(v))
	}
}

// Kind returns the dynamic type of the value.
func (v Value) Kind() Kind { return v.kind }

// Float returns the numeric value and whether v is a number.
func (v Value) Float() (float64, bool) {
	return v.n, v.kind == KindNumber
}

// Truthy coerces the value to a boolean: null is false, a bool is itself,
// a number is true when non-zero, and strings, arrays and objects are true
// when non-empty.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != ""
	case KindArray, KindObject:
		return v.size > 0
	default:
		return false
	}
}

// String renders the value for error messages.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindArray:
		return fmt.Sprintf("array(%d)", v.size)
	default:
		return fmt.Sprintf("object(%d)", v.size)
	}
}
