package vm

import (
	"bytes"
	"strings"
	"testing"
)

func compileSource(t *testing.T, source string) (ok bool, errs string) {
	t.Helper()
	var errOut bytes.Buffer
	_, ok = Compile(source, NewHeap(), &errOut)
	return ok, errOut.String()
}

func TestCompileReturnAtTopLevelIsError(t *testing.T) {
	ok, errs := compileSource(t, `return 1;`)
	if ok {
		t.Fatal("expected a compile error")
	}
	if !strings.Contains(errs, "Can't return from top-level code.") {
		t.Fatalf("unexpected error text: %q", errs)
	}
}

func TestCompileDuplicateLocalIsError(t *testing.T) {
	ok, errs := compileSource(t, `{ var a = 1; var a = 2; }`)
	if ok {
		t.Fatal("expected a compile error")
	}
	if !strings.Contains(errs, "Already a variable with this name in this scope.") {
		t.Fatalf("unexpected error text: %q", errs)
	}
}

func TestCompileSelfReferentialInitializerIsError(t *testing.T) {
	ok, errs := compileSource(t, `{ var a = a; }`)
	if ok {
		t.Fatal("expected a compile error")
	}
	if !strings.Contains(errs, "Can't read local variable in its own initializer.") {
		t.Fatalf("unexpected error text: %q", errs)
	}
}

func TestCompileValidProgramSucceeds(t *testing.T) {
	ok, errs := compileSource(t, `fun add(a, b) { return a + b; } print add(1, 2);`)
	if !ok {
		t.Fatalf("expected compile success, got errors: %q", errs)
	}
}

func TestCompilePanicModeSuppressesCascadingErrors(t *testing.T) {
	// Each statement has a missing ')' that would cascade into a second
	// "Expect ';'" error; panic mode reports only the first of each, and
	// both statements are reported once synchronize() resumes at the
	// semicolon.
	_, errs := compileSource(t, `print (1 2; print (3 4;`)
	count := strings.Count(errs, "[line")
	if count != 2 {
		t.Fatalf("expected exactly 2 reported errors, got %d in: %q", count, errs)
	}
}
