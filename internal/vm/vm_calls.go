package vm

// callValue implements CALL argc's dispatch: a Closure gets a new call
// frame, a Native is invoked directly, anything else is a runtime error.
func (vm *VM) callValue(callee Value, argCount int) error {
	if callee.IsObject() {
		switch fn := callee.AsObject().(type) {
		case *ObjClosure:
			return vm.callClosure(fn, argCount)
		case *ObjNative:
			return vm.callNative(fn, argCount)
		}
	}
	return vm.runtimeError("Can only call functions and classes.")
}

func (vm *VM) callClosure(closure *ObjClosure, argCount int) error {
	if argCount != closure.Function.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if vm.frameCount >= vm.maxFrames {
		return vm.runtimeError("Stack overflow.")
	}
	if vm.frameCount >= len(vm.frames) {
		grown := make([]CallFrame, len(vm.frames)*2)
		copy(grown, vm.frames)
		vm.frames = grown
	}

	f := &vm.frames[vm.frameCount]
	vm.frameCount++
	f.closure = closure
	f.ip = 0
	f.base = vm.sp - argCount - 1
	return nil
}

func (vm *VM) callNative(native *ObjNative, argCount int) error {
	args := make([]Value, argCount)
	copy(args, vm.stack[vm.sp-argCount:vm.sp])
	result := native.Fn(args)
	vm.sp -= argCount + 1
	vm.push(result)
	return nil
}

// captureUpvalue returns the open upvalue already pointing at stack index
// location, or allocates and links a new one (sorted by descending
// location).
func (vm *VM) captureUpvalue(location int) *ObjUpvalue {
	var prev *ObjUpvalue
	cur := vm.openUpvalues
	for cur != nil && cur.Location > location {
		prev = cur
		cur = cur.Next
	}
	if cur != nil && cur.Location == location {
		return cur
	}

	created := vm.heap.NewUpvalue(location)
	created.Next = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue with Location >= last, copying
// the stack value into Closed and redirecting the upvalue to own it. This
// open-to-closed transition is one-way.
func (vm *VM) closeUpvalues(last int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Location >= last {
		uv := vm.openUpvalues
		uv.Closed = vm.stack[uv.Location]
		uv.IsOpen = false
		vm.openUpvalues = uv.Next
		uv.Next = nil
	}
}
