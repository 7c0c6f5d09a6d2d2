package vm

// traceHook is invoked once per executed instruction when non-nil. It stays
// nil unless the debugtrace build tag wires it up (see disasm.go), so the
// dispatch loop pays one nil-check and nothing else in ordinary builds.
var traceHook func(vm *VM, f *CallFrame)
