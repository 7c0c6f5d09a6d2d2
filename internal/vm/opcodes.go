// Package vm implements the Onyx bytecode compiler and stack-based virtual
// machine: a single-pass Pratt parser that emits bytecode directly, the
// instruction set and its stack discipline, call-frame/closure machinery,
// and the string-interning hash table.
package vm

// Opcode is a single VM instruction.
type Opcode byte

const (
	OP_CONSTANT Opcode = iota
	OP_NIL
	OP_TRUE
	OP_FALSE
	OP_POP

	OP_GET_LOCAL
	OP_SET_LOCAL
	OP_GET_GLOBAL
	OP_DEFINE_GLOBAL
	OP_SET_GLOBAL
	OP_GET_UPVALUE
	OP_SET_UPVALUE

	OP_EQUAL
	OP_GREATER
	OP_LESS

	OP_ADD
	OP_SUBTRACT
	OP_MULTIPLY
	OP_DIVIDE
	OP_INT_DIVIDE
	OP_MODULUS

	OP_NOT
	OP_NEGATE

	OP_PRINT

	OP_JUMP
	OP_JUMP_IF_FALSE
	OP_LOOP

	OP_CALL
	OP_CLOSURE
	OP_CLOSE_UPVALUE
	OP_RETURN
)

// OpcodeNames maps opcodes to their disassembly mnemonic.
var OpcodeNames = map[Opcode]string{
	OP_CONSTANT: "OP_CONSTANT",
	OP_NIL:      "OP_NIL",
	OP_TRUE:     "OP_TRUE",
	OP_FALSE:    "OP_FALSE",
	OP_POP:      "OP_POP",

	OP_GET_LOCAL:     "OP_GET_LOCAL",
	OP_SET_LOCAL:     "OP_SET_LOCAL",
	OP_GET_GLOBAL:    "OP_GET_GLOBAL",
	OP_DEFINE_GLOBAL: "OP_DEFINE_GLOBAL",
	OP_SET_GLOBAL:    "OP_SET_GLOBAL",
	OP_GET_UPVALUE:   "OP_GET_UPVALUE",
	OP_SET_UPVALUE:   "OP_SET_UPVALUE",

	OP_EQUAL:   "OP_EQUAL",
	OP_GREATER: "OP_GREATER",
	OP_LESS:    "OP_LESS",

	OP_ADD:        "OP_ADD",
	OP_SUBTRACT:   "OP_SUBTRACT",
	OP_MULTIPLY:   "OP_MULTIPLY",
	OP_DIVIDE:     "OP_DIVIDE",
	OP_INT_DIVIDE: "OP_INT_DIVIDE",
	OP_MODULUS:    "OP_MODULUS",

	OP_NOT:    "OP_NOT",
	OP_NEGATE: "OP_NEGATE",

	OP_PRINT: "OP_PRINT",

	OP_JUMP:          "OP_JUMP",
	OP_JUMP_IF_FALSE: "OP_JUMP_IF_FALSE",
	OP_LOOP:          "OP_LOOP",

	OP_CALL:          "OP_CALL",
	OP_CLOSURE:       "OP_CLOSURE",
	OP_CLOSE_UPVALUE: "OP_CLOSE_UPVALUE",
	OP_RETURN:        "OP_RETURN",
}
