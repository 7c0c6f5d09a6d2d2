package vm

import "hash/fnv"

// Heap owns the string intern pool and the linked list of every heap
// object allocated through it. A Compiler and a VM share one Heap so that
// strings interned at compile time (identifiers, string literals) and
// strings interned at run time (concatenation results) dedupe against the
// same pool, per the "every String is present in the global intern table"
// invariant.
type Heap struct {
	strings  *Table
	objHead  Object
	objCount int
}

// NewHeap creates an empty heap with its own intern table.
func NewHeap() *Heap {
	return &Heap{strings: NewTable()}
}

func (h *Heap) track(o Object) {
	o.setNext(h.objHead)
	h.objHead = o
	h.objCount++
}

// hashString computes the 32-bit FNV-1a hash used throughout the string
// table, matching the original's precomputed per-string hash.
func hashString(s string) uint32 {
	f := fnv.New32a()
	f.Write([]byte(s))
	return f.Sum32()
}

// InternString returns the canonical ObjString for chars, allocating and
// registering a new one only if an equal string isn't already interned.
func (h *Heap) InternString(chars string) *ObjString {
	hash := hashString(chars)
	if existing := h.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	s := &ObjString{Chars: chars, Hash: hash}
	h.track(s)
	h.strings.SetString(s, BoolVal(true))
	return s
}

// NewFunction allocates an empty ObjFunction and registers it on the heap.
func (h *Heap) NewFunction() *ObjFunction {
	f := &ObjFunction{Chunk: NewChunk()}
	h.track(f)
	return f
}

// NewNative allocates an ObjNative and registers it on the heap.
func (h *Heap) NewNative(name string, fn NativeFn) *ObjNative {
	n := &ObjNative{Name: name, Fn: fn}
	h.track(n)
	return n
}

// NewClosure allocates an ObjClosure wrapping fn, with fn.UpvalueCount
// upvalue slots ready to be filled by OP_CLOSURE.
func (h *Heap) NewClosure(fn *ObjFunction) *ObjClosure {
	c := &ObjClosure{Function: fn, Upvalues: make([]*ObjUpvalue, fn.UpvalueCount)}
	h.track(c)
	return c
}

// NewUpvalue allocates an open upvalue pointing at the given stack index.
func (h *Heap) NewUpvalue(location int) *ObjUpvalue {
	u := &ObjUpvalue{Location: location, IsOpen: true}
	h.track(u)
	return u
}

// Release drops the head of the object list and replaces the intern table,
// releasing every allocation in bulk in lieu of a tracing collector. The
// list is not walked: Go's GC reclaims the memory once nothing else
// references these objects; this just severs the heap's own hold on them.
func (h *Heap) Release() {
	h.objHead = nil
	h.objCount = 0
	h.strings = NewTable()
}
