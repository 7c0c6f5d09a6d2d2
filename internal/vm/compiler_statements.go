package vm

import "github.com/OmarAzizi/Onyx/internal/scanner"

// declaration parses one top-level-or-block item: a var/fun declaration or
// a plain statement. On a parse error it resynchronizes at the next
// likely statement boundary so one mistake doesn't cascade.
func (p *Parser) declaration() {
	switch {
	case p.match(scanner.FUN):
		p.funDeclaration()
	case p.match(scanner.VAR):
		p.varDeclaration()
	default:
		p.statement()
	}

	if p.panicMode {
		p.synchronize()
	}
}

func (p *Parser) statement() {
	switch {
	case p.match(scanner.PRINT):
		p.printStatement()
	case p.match(scanner.IF):
		p.ifStatement()
	case p.match(scanner.WHILE):
		p.whileStatement()
	case p.match(scanner.FOR):
		p.forStatement()
	case p.match(scanner.RETURN):
		p.returnStatement()
	case p.match(scanner.LEFT_BRACE):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) block() {
	for !p.check(scanner.RIGHT_BRACE) && !p.check(scanner.EOF) {
		p.declaration()
	}
	p.consume(scanner.RIGHT_BRACE, "Expect '}' after block.")
}

func (p *Parser) expressionStatement() {
	p.expression()
	p.consume(scanner.SEMICOLON, "Expect ';' after expression.")
	p.emitOp(OP_POP)
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(scanner.SEMICOLON, "Expect ';' after value.")
	p.emitOp(OP_PRINT)
}

func (p *Parser) ifStatement() {
	p.consume(scanner.LEFT_PAREN, "Expect '(' after 'if'.")
	p.expression()
	p.consume(scanner.RIGHT_PAREN, "Expect ')' after condition.")

	thenJump := p.emitJump(OP_JUMP_IF_FALSE)
	p.emitOp(OP_POP)
	p.statement()

	elseJump := p.emitJump(OP_JUMP)
	p.patchJump(thenJump)
	p.emitOp(OP_POP)

	if p.match(scanner.ELSE) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *Parser) whileStatement() {
	loopStart := p.currentChunk().Len()
	p.consume(scanner.LEFT_PAREN, "Expect '(' after 'while'.")
	p.expression()
	p.consume(scanner.RIGHT_PAREN, "Expect ')' after condition.")

	exitJump := p.emitJump(OP_JUMP_IF_FALSE)
	p.emitOp(OP_POP)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(OP_POP)
}

// forStatement desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr; } }`, the only place a for-loop
// exists once compiled.
func (p *Parser) forStatement() {
	p.beginScope()
	p.consume(scanner.LEFT_PAREN, "Expect '(' after 'for'.")

	switch {
	case p.match(scanner.SEMICOLON):
		// No initializer.
	case p.match(scanner.VAR):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := p.currentChunk().Len()
	exitJump := -1
	if !p.match(scanner.SEMICOLON) {
		p.expression()
		p.consume(scanner.SEMICOLON, "Expect ';' after loop condition.")
		exitJump = p.emitJump(OP_JUMP_IF_FALSE)
		p.emitOp(OP_POP)
	}

	if !p.check(scanner.RIGHT_PAREN) {
		bodyJump := p.emitJump(OP_JUMP)
		incrementStart := p.currentChunk().Len()
		p.expression()
		p.emitOp(OP_POP)
		p.consume(scanner.RIGHT_PAREN, "Expect ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		p.patchJump(bodyJump)
	} else {
		p.consume(scanner.RIGHT_PAREN, "Expect ')' after for clauses.")
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(OP_POP)
	}

	p.endScope()
}

func (p *Parser) returnStatement() {
	if p.comp.fnType == FuncTypeScript {
		p.error("Can't return from top-level code.")
	}

	if p.match(scanner.SEMICOLON) {
		p.emitReturn()
		return
	}
	p.expression()
	p.consume(scanner.SEMICOLON, "Expect ';' after return value.")
	p.emitOp(OP_RETURN)
}

func (p *Parser) varDeclaration() {
	global := p.parseVariable("Expect variable name.")

	if p.match(scanner.EQUAL) {
		p.expression()
	} else {
		p.emitOp(OP_NIL)
	}
	p.consume(scanner.SEMICOLON, "Expect ';' after variable declaration.")

	p.defineVariable(global)
}

func (p *Parser) funDeclaration() {
	global := p.parseVariable("Expect function name.")
	p.markInitialized()
	p.function(FuncTypeFunction)
	p.defineVariable(global)
}

// function compiles a nested fun's parameter list and body in a fresh
// Compiler, then emits OP_CLOSURE in the enclosing function followed by
// one (isLocal, index) descriptor pair per upvalue the nested function
// captures.
func (p *Parser) function(fnType FunctionType) {
	fn := p.heap.NewFunction()
	if p.previous.Lexeme != "" {
		fn.Name = p.heap.InternString(p.previous.Lexeme)
	}
	enclosing := p.comp
	p.comp = newCompiler(enclosing, fnType, fn)

	p.beginScope()
	p.consume(scanner.LEFT_PAREN, "Expect '(' after function name.")
	if !p.check(scanner.RIGHT_PAREN) {
		for {
			fn.Arity++
			if fn.Arity > 255 {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			paramConstant := p.parseVariable("Expect parameter name.")
			p.defineVariable(paramConstant)
			if !p.match(scanner.COMMA) {
				break
			}
		}
	}
	p.consume(scanner.RIGHT_PAREN, "Expect ')' after parameters.")
	p.consume(scanner.LEFT_BRACE, "Expect '{' before function body.")
	p.block()

	upvalues := p.comp.upvalues
	compiled := p.endCompiler()

	idx := p.makeConstant(ObjectVal(compiled))
	p.emitBytes(OP_CLOSURE, idx)
	for _, uv := range upvalues {
		isLocal := byte(0)
		if uv.IsLocal {
			isLocal = 1
		}
		p.emitByte(isLocal, p.previous.Line)
		p.emitByte(uv.Index, p.previous.Line)
	}
}
