package smartsync

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the concrete kind of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
)

// Value is a scalar cell value: null, bool, integer, float or text.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns an integer Value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float returns a floating-point Value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Text returns a text Value.
func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

// FromAny converts an arbitrary scalar (typically decoded from JSON or read
// from a spreadsheet cell) into a Value. Integral floats collapse to KindInt
// so that a cell holding 42 compares equal regardless of the wire encoding.
func FromAny(v interface{}) Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(val)
	case int:
		return Int(int64(val))
	case int64:
		return Int(val)
	case float64:
		if i, ok := intExact(val); ok {
			return Int(i)
		}
		return Float(val)
	case float32:
		return FromAny(float64(val))
	case string:
		return Text(val)
	default:
		return Text(fmt.Sprintf("%v", val))
	}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean form of the value. Numbers are true when
// non-zero, text when non-empty, null is false.
func (v Value) Bool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindText:
		return v.s != ""
	default:
		return false
	}
}

// Int returns the value as int64 and whether the conversion is exact.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if i, ok := intExact(v.f); ok {
			return i, true
		}
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindText:
		if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(v.s, 64); err == nil {
			if i, ok := intExact(f); ok {
				return i, true
			}
		}
	}
	return 0, false
}

// Float returns the value as float64 and whether the conversion is exact.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindText:
		if f, err := strconv.ParseFloat(v.s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// String returns the text form of the value. Null renders as the empty
// string.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// Key returns the canonical logical-key form of the value, used to match
// reference columns across the input and remote datasets. Numerically equal
// values produce the same key: Int(1), Float(1.0) and Text("1") all map to
// "1". Null maps to the empty string and is never matchable.
func (v Value) Key() string {
	if v.kind == KindFloat {
		if i, ok := intExact(v.f); ok {
			return strconv.FormatInt(i, 10)
		}
	}
	return v.String()
}

// intExact reports the int64 form of f when the conversion is exact:
// integral, finite, and within the int64 range so the cast round-trips.
// math.MaxInt64 rounds up to 2^63 as a float64, so the upper bound is
// exclusive.
func intExact(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// Coerce converts a value into the remote store's expected representation
// for the destination column type. It is total: any value that cannot be
// represented numerically degrades to its string form, never an error. The
// remote store performs its own server-side validation.
//
// A null value always maps to the empty string, which clears the cell on
// write (the store has no explicit unset).
func Coerce(v Value, t ColumnType) interface{} {
	if v.IsNull() {
		return ""
	}

	if t == ColumnTypeCheckbox {
		return v.Bool()
	}

	if i, ok := v.Int(); ok {
		return i
	}
	if f, ok := v.Float(); ok {
		return f
	}
	return v.String()
}
