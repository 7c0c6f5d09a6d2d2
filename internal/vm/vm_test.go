package vm

import (
	"bytes"
	"strings"
	"testing"
)

func runSource(t *testing.T, source string) (stdout string, result InterpretResult) {
	t.Helper()
	var out, errOut bytes.Buffer
	machine := New(WithOutput(&out), WithErrorOutput(&errOut))
	result = machine.Interpret(source)
	if result == InterpretCompileError || result == InterpretRuntimeError {
		t.Logf("stderr: %s", errOut.String())
	}
	return out.String(), result
}

func TestArithmeticPrint(t *testing.T) {
	out, result := runSource(t, "print 1 + 2;")
	if result != InterpretOk {
		t.Fatalf("expected Ok, got %v", result)
	}
	if strings.TrimSpace(out) != "3" {
		t.Fatalf("got %q, want %q", out, "3")
	}
}

func TestStringConcatenation(t *testing.T) {
	out, result := runSource(t, `var a = "foo"; var b = "bar"; print a + b;`)
	if result != InterpretOk {
		t.Fatalf("expected Ok, got %v", result)
	}
	if strings.TrimSpace(out) != "foobar" {
		t.Fatalf("got %q, want %q", out, "foobar")
	}
}

func TestRecursiveFibonacci(t *testing.T) {
	out, result := runSource(t, `fun fib(n){ if(n<2) return n; return fib(n-1)+fib(n-2);} print fib(10);`)
	if result != InterpretOk {
		t.Fatalf("expected Ok, got %v", result)
	}
	if strings.TrimSpace(out) != "55" {
		t.Fatalf("got %q, want %q", out, "55")
	}
}

func TestClosureCountsIndependently(t *testing.T) {
	source := `fun makeCounter(){ var i=0; fun c(){ i = i+1; return i; } return c; }
var c = makeCounter(); print c(); print c(); print c();`
	out, result := runSource(t, source)
	if result != InterpretOk {
		t.Fatalf("expected Ok, got %v", result)
	}
	lines := strings.Fields(out)
	want := []string{"1", "2", "3"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("got %v, want %v", lines, want)
		}
	}
}

func TestAddStringAndNumberIsRuntimeError(t *testing.T) {
	_, result := runSource(t, `print "a" + 1;`)
	if result != InterpretRuntimeError {
		t.Fatalf("expected RuntimeError, got %v", result)
	}
}

func TestUninitializedVarIsNil(t *testing.T) {
	out, result := runSource(t, `var x; print x;`)
	if result != InterpretOk {
		t.Fatalf("expected Ok, got %v", result)
	}
	if strings.TrimSpace(out) != "nil" {
		t.Fatalf("got %q, want %q", out, "nil")
	}
}

func TestStackEmptyAfterSuccessfulRun(t *testing.T) {
	var out, errOut bytes.Buffer
	machine := New(WithOutput(&out), WithErrorOutput(&errOut))
	if machine.Interpret(`var a = 1; { var b = 2; print a + b; }`) != InterpretOk {
		t.Fatalf("stderr: %s", errOut.String())
	}
	if machine.sp != 0 {
		t.Fatalf("expected empty value stack at top level, sp=%d", machine.sp)
	}
}

func TestForLoop(t *testing.T) {
	out, result := runSource(t, `var sum = 0; for (var i = 0; i < 5; i = i + 1) sum = sum + i; print sum;`)
	if result != InterpretOk {
		t.Fatalf("expected Ok, got %v", result)
	}
	if strings.TrimSpace(out) != "10" {
		t.Fatalf("got %q, want %q", out, "10")
	}
}

func TestLogicalShortCircuit(t *testing.T) {
	out, result := runSource(t, `print false and (-nil == 1); print true or (-nil == 1);`)
	if result != InterpretOk {
		t.Fatalf("expected Ok, got %v", result)
	}
	lines := strings.Fields(out)
	if len(lines) != 2 || lines[0] != "false" || lines[1] != "true" {
		t.Fatalf("got %v", lines)
	}
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, result := runSource(t, `print undefinedThing;`)
	if result != InterpretRuntimeError {
		t.Fatalf("expected RuntimeError, got %v", result)
	}
}

func TestCallArityMismatchIsRuntimeError(t *testing.T) {
	_, result := runSource(t, `fun f(a, b) { return a + b; } f(1);`)
	if result != InterpretRuntimeError {
		t.Fatalf("expected RuntimeError, got %v", result)
	}
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, result := runSource(t, `var x = 1; x();`)
	if result != InterpretRuntimeError {
		t.Fatalf("expected RuntimeError, got %v", result)
	}
}

func TestCompileErrorReturnsCompileError(t *testing.T) {
	_, result := runSource(t, `var x = ;`)
	if result != InterpretCompileError {
		t.Fatalf("expected CompileError, got %v", result)
	}
}

func TestIntDivideAndModulus(t *testing.T) {
	out, result := runSource(t, `print 7 \ 2; print 7 % 2;`)
	if result != InterpretOk {
		t.Fatalf("expected Ok, got %v", result)
	}
	lines := strings.Fields(out)
	if len(lines) != 2 || lines[0] != "3" || lines[1] != "1" {
		t.Fatalf("got %v", lines)
	}
}

func TestStringInterning(t *testing.T) {
	machine := New(WithOutput(&bytes.Buffer{}), WithErrorOutput(&bytes.Buffer{}))
	if machine.Interpret(`var a = "same"; var b = "same";`) != InterpretOk {
		t.Fatal("expected Ok")
	}
	a, _ := machine.globals.Get(machine.heap.InternString("a"))
	b, _ := machine.globals.Get(machine.heap.InternString("b"))
	if a.AsObject() != b.AsObject() {
		t.Error("two equal string literals should intern to the same object")
	}
}
