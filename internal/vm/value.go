package vm

import (
	"fmt"
	"io"
	"math"
	"strconv"
)

// ValueType identifies which variant a Value currently holds.
type ValueType uint8

const (
	ValNil ValueType = iota
	ValBool
	ValNumber
	ValObject
)

// Value is a stack-allocated tagged union: {Nil, Bool, Number, Object}.
// Numbers and bools are stored inline (Data) so pushing/popping never
// touches the heap; Object holds a reference to a heap-allocated Object
// when Type == ValObject.
type Value struct {
	Type ValueType
	Data uint64 // bool (0/1) or float64 bits, depending on Type
	Obj  Object
}

func NilVal() Value {
	return Value{Type: ValNil}
}

func BoolVal(b bool) Value {
	var data uint64
	if b {
		data = 1
	}
	return Value{Type: ValBool, Data: data}
}

func NumberVal(n float64) Value {
	return Value{Type: ValNumber, Data: math.Float64bits(n)}
}

func ObjectVal(o Object) Value {
	return Value{Type: ValObject, Obj: o}
}

func (v Value) AsBool() bool {
	return v.Data == 1
}

func (v Value) AsNumber() float64 {
	return math.Float64frombits(v.Data)
}

func (v Value) AsObject() Object {
	return v.Obj
}

func (v Value) IsNil() bool    { return v.Type == ValNil }
func (v Value) IsBool() bool   { return v.Type == ValBool }
func (v Value) IsNumber() bool { return v.Type == ValNumber }
func (v Value) IsObject() bool { return v.Type == ValObject }

func (v Value) IsString() bool {
	if v.Type != ValObject {
		return false
	}
	_, ok := v.Obj.(*ObjString)
	return ok
}

// IsFalsey reports whether v is Nil or Bool(false); everything else is truthy.
func (v Value) IsFalsey() bool {
	return v.Type == ValNil || (v.Type == ValBool && !v.AsBool())
}

// Equals implements valuesEqual: same variant and component equality.
// Object values compare by reference identity (strings are interned, so
// content equality and identity equality coincide for strings).
func (v Value) Equals(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ValNil:
		return true
	case ValBool, ValNumber:
		return v.Data == other.Data
	case ValObject:
		return v.Obj == other.Obj
	default:
		return false
	}
}

// Hash returns a 32-bit hash of v. Nothing in this package calls it; the
// string/global table hashes ObjString.Hash directly rather than Value.
func (v Value) Hash() uint32 {
	switch v.Type {
	case ValNil:
		return 0
	case ValBool, ValNumber:
		return uint32(v.Data ^ (v.Data >> 32))
	case ValObject:
		if s, ok := v.Obj.(*ObjString); ok {
			return s.Hash
		}
		return 0
	default:
		return 0
	}
}

// Inspect returns the human-readable form printValue writes: nil, true/false,
// a minimal-length decimal for numbers, raw characters for strings, and
// <fn name>/<native fn> for callables. Closures print as their function.
func (v Value) Inspect() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		return fmt.Sprintf("%t", v.AsBool())
	case ValNumber:
		return strconv.FormatFloat(v.AsNumber(), 'g', -1, 64)
	case ValObject:
		if v.Obj == nil {
			return "nil"
		}
		return v.Obj.Inspect()
	default:
		return "<?>"
	}
}

// Print writes printValue(v)'s representation followed by a newline, as
// OP_PRINT requires.
func Print(w io.Writer, v Value) {
	fmt.Fprintln(w, v.Inspect())
}
