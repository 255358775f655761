/* Copyright 2024 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/Comcast/soup/syntax"
)

// Tag is the runtime type of a Value.
type Tag int

const (
	NoTag Tag = iota
	IntTag
	DoubleTag
	BoolTag
)

func (t Tag) String() string {
	switch t {
	case IntTag:
		return "integer"
	case DoubleTag:
		return "double"
	case BoolTag:
		return "boolean"
	}
	return "none"
}

// Value is a runtime value: an integer, a double, or a boolean.
//
// The zero Value has NoTag and is never produced by evaluation.
type Value struct {
	tag Tag
	i   int64
	f   float64
	b   bool
}

func Int(i int64) Value { return Value{tag: IntTag, i: i} }
func Double(f float64) Value { return Value{tag: DoubleTag, f: f} }
func Bool(b bool) Value { return Value{tag: BoolTag, b: b} }

// Tag returns the runtime type.
func (v Value) Tag() Tag {
	return v.tag
}

// AsInt returns the integer and whether v is one.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.tag == IntTag
}

// AsDouble returns the double and whether v is one.
func (v Value) AsDouble() (float64, bool) {
	return v.f, v.tag == DoubleTag
}

// AsBool returns the boolean and whether v is one.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.tag == BoolTag
}

// numeric returns v as a double when v is an integer or a double.
func (v Value) numeric() (float64, bool) {
	switch v.tag {
	case IntTag:
		return float64(v.i), true
	case DoubleTag:
		return v.f, true
	}
	return 0, false
}

// Equal is tag-strict: Int(42) does not equal Double(42).  Doubles
// are compared by bit pattern, so NaN equals itself and 0.0 does not
// equal -0.0.
func (v Value) Equal(w Value) bool {
	if v.tag != w.tag {
		return false
	}
	switch v.tag {
	case IntTag:
		return v.i == w.i
	case DoubleTag:
		if math.IsNaN(v.f) && math.IsNaN(w.f) {
			return true
		}
		return math.Float64bits(v.f) == math.Float64bits(w.f)
	case BoolTag:
		return v.b == w.b
	}
	return true
}

func (v Value) String() string {
	switch v.tag {
	case IntTag:
		return strconv.FormatInt(v.i, 10)
	case DoubleTag:
		return syntax.FormatDouble(v.f)
	case BoolTag:
		return strconv.FormatBool(v.b)
	}
	return "<none>"
}

// Interface returns the Go value: int64, float64, or bool.
func (v Value) Interface() interface{} {
	switch v.tag {
	case IntTag:
		return v.i
	case DoubleTag:
		return v.f
	case BoolTag:
		return v.b
	}
	return nil
}

// MarshalJSON writes integers and booleans as JSON numbers and
// booleans.  Doubles are written with a fraction so they read back as
// doubles.  Non-finite doubles are written as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.tag {
	case DoubleTag:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return json.Marshal(syntax.FormatDouble(v.f))
		}
		return []byte(syntax.FormatDouble(v.f)), nil
	case NoTag:
		return []byte("null"), nil
	}
	return []byte(v.String()), nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(bs []byte) error {
	var x interface{}
	d := json.NewDecoder(bytes.NewReader(bs))
	d.UseNumber()
	if err := d.Decode(&x); err != nil {
		return err
	}
	w, err := ValueOf(x)
	if err != nil {
		return err
	}
	*v = w
	return nil
}

// ValueOf converts a Go value into a Value.
//
// A json.Number or numeric string without a fraction or exponent is
// an integer.  The strings "Infinity", "-Infinity", and "NaN" are
// doubles.
func ValueOf(x interface{}) (Value, error) {
	switch vv := x.(type) {
	case Value:
		return vv, nil
	case bool:
		return Bool(vv), nil
	case int:
		return Int(int64(vv)), nil
	case int32:
		return Int(int64(vv)), nil
	case int64:
		return Int(vv), nil
	case float32:
		return Double(float64(vv)), nil
	case float64:
		return Double(vv), nil
	case json.Number:
		if i, err := vv.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := vv.Float64()
		if err != nil {
			return Value{}, err
		}
		return Double(f), nil
	case string:
		switch vv {
		case "Infinity":
			return Double(math.Inf(1)), nil
		case "-Infinity":
			return Double(math.Inf(-1)), nil
		case "NaN":
			return Double(math.NaN()), nil
		}
		return ValueOf(json.Number(vv))
	}
	return Value{}, fmt.Errorf("can't make a value from %#v (%T)", x, x)
}
