package vm

import "math"

func (vm *VM) readByte(f *CallFrame) byte {
	b := f.closure.Function.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readShort(f *CallFrame) int {
	hi := vm.readByte(f)
	lo := vm.readByte(f)
	return int(hi)<<8 | int(lo)
}

// run is the dispatch loop: fetch the current frame, decode one
// instruction, act on it, repeat until a RETURN unwinds the last frame or
// a runtime error aborts execution. A malformed chunk (one that reads
// past its own code) is reported as a runtime error rather than crashing
// the host process.
func (vm *VM) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = vm.runtimeError("%v", errTruncatedBytecode)
		}
	}()

	for {
		f := vm.frame()
		if vm.traceEnabled && traceHook != nil {
			traceHook(vm, f)
		}
		op := Opcode(vm.readByte(f))

		switch op {
		case OP_CONSTANT:
			vm.push(f.closure.Function.Chunk.Constants[vm.readByte(f)])

		case OP_NIL:
			vm.push(NilVal())
		case OP_TRUE:
			vm.push(BoolVal(true))
		case OP_FALSE:
			vm.push(BoolVal(false))
		case OP_POP:
			vm.pop()

		case OP_GET_LOCAL:
			slot := int(vm.readByte(f))
			vm.push(vm.stack[f.base+slot])
		case OP_SET_LOCAL:
			slot := int(vm.readByte(f))
			vm.stack[f.base+slot] = vm.peek(0)

		case OP_GET_GLOBAL:
			name := vm.constantString(f, vm.readByte(f))
			val, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			vm.push(val)
		case OP_DEFINE_GLOBAL:
			name := vm.constantString(f, vm.readByte(f))
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case OP_SET_GLOBAL:
			name := vm.constantString(f, vm.readByte(f))
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}

		case OP_GET_UPVALUE:
			slot := vm.readByte(f)
			uv := f.closure.Upvalues[slot]
			if uv.IsOpen {
				vm.push(vm.stack[uv.Location])
			} else {
				vm.push(uv.Closed)
			}
		case OP_SET_UPVALUE:
			slot := vm.readByte(f)
			uv := f.closure.Upvalues[slot]
			if uv.IsOpen {
				vm.stack[uv.Location] = vm.peek(0)
			} else {
				uv.Closed = vm.peek(0)
			}

		case OP_EQUAL:
			b := vm.pop()
			a := vm.pop()
			vm.push(BoolVal(a.Equals(b)))
		case OP_GREATER:
			if err := vm.numericBinary(func(a, b float64) Value { return BoolVal(a > b) }); err != nil {
				return err
			}
		case OP_LESS:
			if err := vm.numericBinary(func(a, b float64) Value { return BoolVal(a < b) }); err != nil {
				return err
			}

		case OP_ADD:
			if err := vm.add(); err != nil {
				return err
			}
		case OP_SUBTRACT:
			if err := vm.numericBinary(func(a, b float64) Value { return NumberVal(a - b) }); err != nil {
				return err
			}
		case OP_MULTIPLY:
			if err := vm.numericBinary(func(a, b float64) Value { return NumberVal(a * b) }); err != nil {
				return err
			}
		case OP_DIVIDE:
			if err := vm.numericBinary(func(a, b float64) Value { return NumberVal(a / b) }); err != nil {
				return err
			}
		case OP_INT_DIVIDE:
			// C-style integer division: truncate both operands, divide,
			// then truncate the quotient.
			if err := vm.numericBinary(func(a, b float64) Value {
				return NumberVal(math.Trunc(math.Trunc(a) / math.Trunc(b)))
			}); err != nil {
				return err
			}
		case OP_MODULUS:
			// C-style remainder: a - trunc(a/b)*b.
			if err := vm.numericBinary(func(a, b float64) Value { return NumberVal(a - math.Trunc(a/b)*b) }); err != nil {
				return err
			}

		case OP_NOT:
			vm.push(BoolVal(vm.pop().IsFalsey()))
		case OP_NEGATE:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.push(NumberVal(-vm.pop().AsNumber()))

		case OP_PRINT:
			Print(vm.stdout, vm.pop())

		case OP_JUMP:
			offset := vm.readShort(f)
			f.ip += offset
		case OP_JUMP_IF_FALSE:
			offset := vm.readShort(f)
			if vm.peek(0).IsFalsey() {
				f.ip += offset
			}
		case OP_LOOP:
			offset := vm.readShort(f)
			f.ip -= offset

		case OP_CALL:
			argCount := int(vm.readByte(f))
			callee := vm.peek(argCount)
			if err := vm.callValue(callee, argCount); err != nil {
				return err
			}

		case OP_CLOSURE:
			fnVal := f.closure.Function.Chunk.Constants[vm.readByte(f)]
			fn := fnVal.AsObject().(*ObjFunction)
			closure := vm.heap.NewClosure(fn)
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte(f)
				index := vm.readByte(f)
				if isLocal == 1 {
					closure.Upvalues[i] = vm.captureUpvalue(f.base + int(index))
				} else {
					closure.Upvalues[i] = f.closure.Upvalues[index]
				}
			}
			vm.push(ObjectVal(closure))

		case OP_CLOSE_UPVALUE:
			vm.closeUpvalues(vm.sp - 1)
			vm.pop()

		case OP_RETURN:
			result := vm.pop()
			vm.closeUpvalues(f.base)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop()
				return nil
			}
			vm.sp = f.base
			vm.push(result)

		default:
			return vm.runtimeError("%v", errTruncatedBytecode)
		}
	}
}

func (vm *VM) constantString(f *CallFrame, idx byte) *ObjString {
	return f.closure.Function.Chunk.Constants[idx].AsObject().(*ObjString)
}

func (vm *VM) numericBinary(op func(a, b float64) Value) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop()
	a := vm.pop()
	vm.push(op(a.AsNumber(), b.AsNumber()))
	return nil
}

func (vm *VM) add() error {
	if vm.peek(0).IsNumber() && vm.peek(1).IsNumber() {
		b := vm.pop()
		a := vm.pop()
		vm.push(NumberVal(a.AsNumber() + b.AsNumber()))
		return nil
	}
	if vm.peek(0).IsString() && vm.peek(1).IsString() {
		b := vm.pop().AsObject().(*ObjString)
		a := vm.pop().AsObject().(*ObjString)
		vm.push(ObjectVal(vm.heap.InternString(a.Chars + b.Chars)))
		return nil
	}
	return vm.runtimeError("Operands must be two numbers or two strings.")
}
