package vm

import "fmt"

// ObjType tags the variant of a heap Object.
type ObjType uint8

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
	ObjTypeNative
	ObjTypeClosure
	ObjTypeUpvalue
)

// Object is the common header of every heap allocation: a variant tag, a
// human representation, and a slot for the intrusive "every live heap
// object is linked into the VM's object list exactly once" invariant. Go's
// collector owns the memory; the list exists only so VM teardown can drop
// every allocation in bulk. String deduplication (FindString) probes the
// intern Table, not this list.
type Object interface {
	Type() ObjType
	Inspect() string
	setNext(Object)
	next() Object
}

type objHeader struct {
	nextObj Object
}

func (h *objHeader) setNext(o Object) { h.nextObj = o }
func (h *objHeader) next() Object     { return h.nextObj }

// ObjString is an interned, immutable character buffer with a precomputed
// hash (see heap.go's hashString and table.go's FindString).
type ObjString struct {
	objHeader
	Chars string
	Hash  uint32
}

func (s *ObjString) Type() ObjType   { return ObjTypeString }
func (s *ObjString) Inspect() string { return s.Chars }

// ObjFunction is a compiled function: its arity, how many upvalues it
// captures, its bytecode, and an optional name (nil for the implicit
// top-level script function).
type ObjFunction struct {
	objHeader
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
	Name         *ObjString
}

func (f *ObjFunction) Type() ObjType { return ObjTypeFunction }
func (f *ObjFunction) Inspect() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// NativeFn is a host callable: it receives the call's arguments and returns
// a Value, mirroring the embedder ABI's defineNative(name, fn).
type NativeFn func(args []Value) Value

// ObjNative wraps a host function so it can be called like an Onyx
// function.
type ObjNative struct {
	objHeader
	Name string
	Fn   NativeFn
}

func (n *ObjNative) Type() ObjType   { return ObjTypeNative }
func (n *ObjNative) Inspect() string { return "<native fn>" }

// ObjClosure pairs a Function with the upvalue cells it captured at
// creation time; length(Upvalues) == Function.UpvalueCount.
type ObjClosure struct {
	objHeader
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func (c *ObjClosure) Type() ObjType   { return ObjTypeClosure }
func (c *ObjClosure) Inspect() string { return c.Function.Inspect() }

// ObjUpvalue is a shared mutable cell for a variable captured by one or
// more nested closures. While open, Location indexes into the VM's value
// stack (an index stands in for the original's raw stack pointer, so the
// upvalue survives stack reallocation). Once the enclosing scope exits,
// Closed holds the value directly and IsOpen becomes false; this
// transition is one-way. Next threads the VM's open-upvalue list, kept
// sorted by descending Location.
type ObjUpvalue struct {
	objHeader
	Location int
	Closed   Value
	IsOpen   bool
	Next     *ObjUpvalue
}

func (u *ObjUpvalue) Type() ObjType   { return ObjTypeUpvalue }
func (u *ObjUpvalue) Inspect() string { return "<upvalue>" }
