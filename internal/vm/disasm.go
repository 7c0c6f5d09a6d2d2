//go:build debugtrace

package vm

import (
	"fmt"
	"strings"
)

func init() {
	traceHook = traceInstruction
}

// traceInstruction prints the current stack contents and the instruction
// about to execute, mirroring the original's DEBUG_TRACE_EXECUTION output.
func traceInstruction(vm *VM, f *CallFrame) {
	fmt.Print("          ")
	for i := 0; i < vm.sp; i++ {
		fmt.Printf("[ %s ]", vm.stack[i].Inspect())
	}
	fmt.Println()

	var sb strings.Builder
	disassembleInstruction(&sb, f.closure.Function.Chunk, f.ip)
	fmt.Print(sb.String())
}

// Disassemble returns a human-readable listing of chunk's bytecode. It is
// only compiled in under the debugtrace build tag (go build -tags
// debugtrace), mirroring the original's DEBUG_PRINT_CODE macro: it never
// runs, and never affects semantics, unless explicitly asked for.
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)

	offset := 0
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(&sb, chunk, offset)
	}
	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	fmt.Fprintf(sb, "%04d ", offset)
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		sb.WriteString("   | ")
	} else {
		fmt.Fprintf(sb, "%4d ", chunk.Lines[offset])
	}

	op := Opcode(chunk.Code[offset])
	name, ok := OpcodeNames[op]
	if !ok {
		fmt.Fprintf(sb, "Unknown opcode %d\n", op)
		return offset + 1
	}

	switch op {
	case OP_CONSTANT, OP_GET_GLOBAL, OP_DEFINE_GLOBAL, OP_SET_GLOBAL:
		return constantInstruction(sb, name, chunk, offset)
	case OP_GET_LOCAL, OP_SET_LOCAL, OP_GET_UPVALUE, OP_SET_UPVALUE, OP_CALL:
		return byteInstruction(sb, name, chunk, offset)
	case OP_JUMP, OP_JUMP_IF_FALSE:
		return jumpInstruction(sb, name, 1, chunk, offset)
	case OP_LOOP:
		return jumpInstruction(sb, name, -1, chunk, offset)
	case OP_CLOSURE:
		return closureInstruction(sb, chunk, offset)
	default:
		return simpleInstruction(sb, name, offset)
	}
}

func simpleInstruction(sb *strings.Builder, name string, offset int) int {
	fmt.Fprintf(sb, "%s\n", name)
	return offset + 1
}

func byteInstruction(sb *strings.Builder, name string, chunk *Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(sb, "%-16s %4d\n", name, slot)
	return offset + 2
}

func constantInstruction(sb *strings.Builder, name string, chunk *Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(sb, "%-16s %4d '%s'\n", name, idx, chunk.Constants[idx].Inspect())
	return offset + 2
}

func jumpInstruction(sb *strings.Builder, name string, sign int, chunk *Chunk, offset int) int {
	jump := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	fmt.Fprintf(sb, "%-16s %4d -> %d\n", name, offset, offset+3+sign*jump)
	return offset + 3
}

func closureInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	offset += 2
	fmt.Fprintf(sb, "%-16s %4d '%s'\n", "OP_CLOSURE", idx, chunk.Constants[idx].Inspect())

	fn, ok := chunk.Constants[idx].AsObject().(*ObjFunction)
	if !ok {
		return offset
	}
	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := chunk.Code[offset]
		index := chunk.Code[offset+1]
		offset += 2
		kind := "upvalue"
		if isLocal == 1 {
			kind = "local"
		}
		fmt.Fprintf(sb, "%04d      |                     %s %d\n", offset-2, kind, index)
	}
	return offset
}
