package vm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"time"
)

// defineNative interns name, wraps fn as an ObjNative, and installs it in
// the globals table.
func (vm *VM) defineNative(name string, fn NativeFn) {
	native := vm.heap.NewNative(name, fn)
	vm.globals.Set(vm.heap.InternString(name), ObjectVal(native))
}

// registerNatives installs the clock, input, and num built-ins at VM
// init.
func (vm *VM) registerNatives() {
	start := time.Now()

	vm.defineNative("clock", func(args []Value) Value {
		return NumberVal(time.Since(start).Seconds())
	})

	vm.defineNative("input", func(args []Value) Value {
		if len(args) > 0 && args[0].IsString() {
			fmt.Fprint(vm.stdout, args[0].AsObject().(*ObjString).Chars)
		}
		line, err := vm.stdin.ReadString('\n')
		if err != nil && err != io.EOF {
			line = ""
		}
		return ObjectVal(vm.heap.InternString(line))
	})

	vm.defineNative("num", func(args []Value) Value {
		if len(args) == 0 || !args[0].IsString() {
			return NumberVal(0)
		}
		n, err := strconv.ParseFloat(args[0].AsObject().(*ObjString).Chars, 64)
		if err != nil {
			// Parse failure returns 0 silently rather than raising.
			return NumberVal(0)
		}
		return NumberVal(n)
	})
}

// newStdinReader wraps an io.Reader for the input native's line reads.
func newStdinReader(r io.Reader) *bufio.Reader {
	return bufio.NewReader(r)
}
