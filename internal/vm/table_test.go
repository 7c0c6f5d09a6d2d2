package vm

import "testing"

func newStr(s string) *ObjString {
	return &ObjString{Chars: s, Hash: hashString(s)}
}

func TestTableSetGetDelete(t *testing.T) {
	tbl := NewTable()
	key := newStr("answer")

	if _, ok := tbl.Get(key); ok {
		t.Fatal("expected miss on empty table")
	}

	isNew := tbl.Set(key, NumberVal(42))
	if !isNew {
		t.Error("first Set of a key should report isNewKey=true")
	}
	v, ok := tbl.Get(key)
	if !ok || v.AsNumber() != 42 {
		t.Fatalf("got (%v, %v), want (42, true)", v, ok)
	}

	isNew = tbl.Set(key, NumberVal(43))
	if isNew {
		t.Error("overwriting an existing key should report isNewKey=false")
	}

	if !tbl.Delete(key) {
		t.Error("Delete should report success for a present key")
	}
	if _, ok := tbl.Get(key); ok {
		t.Error("Get should miss after Delete")
	}
}

// TestTableTombstoneDoesNotShrinkCount verifies that deletion leaves a
// tombstone counted toward the load factor rather than lowering count.
func TestTableTombstoneDoesNotShrinkCount(t *testing.T) {
	tbl := NewTable()
	a, b := newStr("a"), newStr("b")
	tbl.Set(a, NumberVal(1))
	tbl.Set(b, NumberVal(2))

	before := tbl.count
	tbl.Delete(a)
	if tbl.count != before {
		t.Errorf("count changed after delete: got %d, want %d (tombstones stay counted)", tbl.count, before)
	}

	// b must still be reachable: the tombstone left by deleting a must
	// not break the probe chain for other keys.
	if _, ok := tbl.Get(b); !ok {
		t.Error("deleting one key must not break lookup of another")
	}
}

func TestTableFindStringContentEquality(t *testing.T) {
	tbl := NewTable()
	s := newStr("hello")
	tbl.SetString(s, BoolVal(true))

	found := tbl.FindString("hello", hashString("hello"))
	if found != s {
		t.Error("FindString should return the exact interned object for matching content")
	}

	if tbl.FindString("nope", hashString("nope")) != nil {
		t.Error("FindString should miss content that was never interned")
	}
}

func TestTableGrows(t *testing.T) {
	tbl := NewTable()
	keys := make([]*ObjString, 100)
	for i := range keys {
		keys[i] = newStr(string(rune('a')) + string(rune(i)))
		tbl.Set(keys[i], NumberVal(float64(i)))
	}

	for i, k := range keys {
		v, ok := tbl.Get(k)
		if !ok || v.AsNumber() != float64(i) {
			t.Fatalf("key %d lost after growth: got (%v, %v)", i, v, ok)
		}
	}
}

func TestTableAddAll(t *testing.T) {
	from := NewTable()
	to := NewTable()
	x, y := newStr("x"), newStr("y")
	from.Set(x, NumberVal(1))
	from.Set(y, NumberVal(2))

	from.AddAll(to)

	if v, ok := to.Get(x); !ok || v.AsNumber() != 1 {
		t.Error("AddAll should copy every live entry")
	}
}
