package vm

import "testing"

func TestValueTruthiness(t *testing.T) {
	falsey := []Value{NilVal(), BoolVal(false)}
	for _, v := range falsey {
		if !v.IsFalsey() {
			t.Errorf("expected %v to be falsey", v.Inspect())
		}
	}

	truthy := []Value{BoolVal(true), NumberVal(0), NumberVal(-1), ObjectVal(&ObjString{Chars: ""})}
	for _, v := range truthy {
		if v.IsFalsey() {
			t.Errorf("expected %v to be truthy", v.Inspect())
		}
	}
}

func TestValueEquals(t *testing.T) {
	if !NilVal().Equals(NilVal()) {
		t.Error("Nil should equal Nil")
	}
	if NumberVal(1).Equals(BoolVal(true)) {
		t.Error("values of different variants must never be equal")
	}
	if !NumberVal(3.5).Equals(NumberVal(3.5)) {
		t.Error("equal numbers should compare equal")
	}

	a := &ObjString{Chars: "hi"}
	b := &ObjString{Chars: "hi"}
	if a == b {
		t.Fatal("test setup: expected distinct pointers")
	}
	if ObjectVal(a).Equals(ObjectVal(b)) {
		t.Error("distinct (uninterned) string objects must not compare equal by content")
	}
	if !ObjectVal(a).Equals(ObjectVal(a)) {
		t.Error("a string object must equal itself")
	}
}

func TestValueInspect(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{NilVal(), "nil"},
		{BoolVal(true), "true"},
		{BoolVal(false), "false"},
		{NumberVal(3), "3"},
		{NumberVal(3.5), "3.5"},
		{ObjectVal(&ObjString{Chars: "abc"}), "abc"},
	}
	for _, c := range cases {
		if got := c.v.Inspect(); got != c.want {
			t.Errorf("Inspect() = %q, want %q", got, c.want)
		}
	}
}
