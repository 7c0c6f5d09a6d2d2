package vm

import "github.com/OmarAzizi/Onyx/internal/scanner"

func (p *Parser) emitByte(b byte, line int) {
	p.currentChunk().WriteByte(b, line)
}

func (p *Parser) emitOp(op Opcode) {
	p.currentChunk().WriteOp(op, p.previous.Line)
}

func (p *Parser) emitBytes(op Opcode, operand byte) {
	p.emitOp(op)
	p.emitByte(operand, p.previous.Line)
}

func (p *Parser) makeConstant(v Value) byte {
	idx, err := p.currentChunk().AddConstant(v)
	if err != nil {
		p.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (p *Parser) emitConstant(v Value) {
	p.emitBytes(OP_CONSTANT, p.makeConstant(v))
}

// emitJump writes op followed by a two-byte placeholder and returns the
// offset of that placeholder for patchJump to fill in later.
func (p *Parser) emitJump(op Opcode) int {
	p.emitOp(op)
	p.emitByte(0xff, p.previous.Line)
	p.emitByte(0xff, p.previous.Line)
	return p.currentChunk().Len() - 2
}

// patchJump fills the placeholder at offset with the big-endian distance
// from just after it to the current end of code.
func (p *Parser) patchJump(offset int) {
	jump := p.currentChunk().Len() - offset - 2
	if jump > 0xffff {
		p.error("Too much code to jump over.")
		return
	}
	p.currentChunk().Code[offset] = byte(jump >> 8)
	p.currentChunk().Code[offset+1] = byte(jump)
}

// emitLoop writes OP_LOOP followed by the big-endian distance back to
// loopStart.
func (p *Parser) emitLoop(loopStart int) {
	p.emitOp(OP_LOOP)
	offset := p.currentChunk().Len() - loopStart + 2
	if offset > 0xffff {
		p.error("Loop body too large.")
	}
	p.emitByte(byte(offset>>8), p.previous.Line)
	p.emitByte(byte(offset), p.previous.Line)
}

func (p *Parser) emitReturn() {
	p.emitOp(OP_NIL)
	p.emitOp(OP_RETURN)
}

// endCompiler finishes the current function, emitting an implicit
// "return nil" for the case control falls off the end, and pops back to
// the enclosing Compiler (nil at the top-level script).
func (p *Parser) endCompiler() *ObjFunction {
	p.emitReturn()
	fn := p.comp.function
	p.comp = p.comp.enclosing
	return fn
}

func (p *Parser) beginScope() {
	p.comp.scopeDepth++
}

// endScope pops every local declared in the scope being exited, emitting
// OP_CLOSE_UPVALUE for locals that were captured by a nested closure and
// OP_POP for the rest.
func (p *Parser) endScope() {
	c := p.comp
	c.scopeDepth--

	for len(c.locals) > 0 && c.locals[len(c.locals)-1].Depth > c.scopeDepth {
		if c.locals[len(c.locals)-1].IsCaptured {
			p.emitOp(OP_CLOSE_UPVALUE)
		} else {
			p.emitOp(OP_POP)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// identifierConstant interns name and stores it in the constant pool,
// returning its index for OP_*_GLOBAL operands.
func (p *Parser) identifierConstant(name string) byte {
	return p.makeConstant(ObjectVal(p.heap.InternString(name)))
}

func identifiersEqual(a, b string) bool {
	return a == b
}

// resolveLocal walks c's locals from the top, returning the matching
// slot's index, or -1 if name isn't a local in this function.
func (p *Parser) resolveLocal(c *Compiler, name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if identifiersEqual(c.locals[i].Name, name) {
			if c.locals[i].Depth == -1 {
				p.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// resolveUpvalue recursively searches enclosing compilers for name. If
// found as a local there, it marks that local captured and records a
// local-referencing upvalue; if found as an upvalue there, it chains a
// non-local-referencing upvalue. Returns -1 if name is not found in any
// enclosing scope (and so must be a global).
func (p *Parser) resolveUpvalue(c *Compiler, name string) int {
	if c.enclosing == nil {
		return -1
	}

	if local := p.resolveLocal(c.enclosing, name); local != -1 {
		c.enclosing.locals[local].IsCaptured = true
		return p.addUpvalue(c, uint8(local), true)
	}

	if upvalue := p.resolveUpvalue(c.enclosing, name); upvalue != -1 {
		return p.addUpvalue(c, uint8(upvalue), false)
	}

	return -1
}

func (p *Parser) addUpvalue(c *Compiler, index uint8, isLocal bool) int {
	for i, uv := range c.upvalues {
		if uv.Index == index && uv.IsLocal == isLocal {
			return i
		}
	}

	if len(c.upvalues) >= 256 {
		p.error("Too many closure variables in function.")
		return 0
	}

	c.upvalues = append(c.upvalues, Upvalue{Index: index, IsLocal: isLocal})
	c.function.UpvalueCount = len(c.upvalues)
	return len(c.upvalues) - 1
}

func (p *Parser) addLocal(name string) {
	if len(p.comp.locals) >= 256 {
		p.error("Too many local variables in function.")
		return
	}
	p.comp.locals = append(p.comp.locals, Local{Name: name, Depth: -1})
}

// declareVariable registers a local for the identifier just consumed (a
// no-op at global scope, where variables live in the globals table
// instead). Redeclaring a name already declared in the same scope is a
// compile error.
func (p *Parser) declareVariable(name scanner.Token) {
	if p.comp.scopeDepth == 0 {
		return
	}

	for i := len(p.comp.locals) - 1; i >= 0; i-- {
		local := p.comp.locals[i]
		if local.Depth != -1 && local.Depth < p.comp.scopeDepth {
			break
		}
		if identifiersEqual(local.Name, name.Lexeme) {
			p.error("Already a variable with this name in this scope.")
		}
	}

	p.addLocal(name.Lexeme)
}

func (p *Parser) markInitialized() {
	if p.comp.scopeDepth == 0 {
		return
	}
	p.comp.locals[len(p.comp.locals)-1].Depth = p.comp.scopeDepth
}

// parseVariable consumes an identifier, declares it as a local if in a
// local scope, and returns the constant-pool index to use for
// OP_DEFINE_GLOBAL if it turns out to be a global.
func (p *Parser) parseVariable(errMsg string) byte {
	p.consume(scanner.IDENTIFIER, errMsg)

	p.declareVariable(p.previous)
	if p.comp.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.previous.Lexeme)
}

func (p *Parser) defineVariable(global byte) {
	if p.comp.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitBytes(OP_DEFINE_GLOBAL, global)
}
