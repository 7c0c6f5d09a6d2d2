package vm

import (
	"strconv"

	"github.com/OmarAzizi/Onyx/internal/scanner"
)

// rules is the per-token-kind ParseRule table that drives parsePrecedence:
// a null prefix field means "no rule", so that token can never start an
// expression.
var rules map[scanner.TokenType]ParseRule

func init() {
	rules = map[scanner.TokenType]ParseRule{
		scanner.LEFT_PAREN:  {prefix: grouping, infix: call, precedence: PrecCall},
		scanner.RIGHT_PAREN: {},
		scanner.LEFT_BRACE:  {},
		scanner.RIGHT_BRACE: {},
		scanner.COMMA:       {},
		scanner.DOT:         {},
		scanner.MINUS:       {prefix: unary, infix: binary, precedence: PrecTerm},
		scanner.PLUS:        {infix: binary, precedence: PrecTerm},
		scanner.SEMICOLON:   {},
		scanner.SLASH:       {infix: binary, precedence: PrecFactor},
		scanner.STAR:        {infix: binary, precedence: PrecFactor},
		scanner.PERCENT:     {infix: binary, precedence: PrecFactor},
		scanner.BACKSLASH:   {infix: binary, precedence: PrecFactor},

		scanner.BANG:          {prefix: unary},
		scanner.BANG_EQUAL:    {infix: binary, precedence: PrecEquality},
		scanner.EQUAL:         {},
		scanner.EQUAL_EQUAL:   {infix: binary, precedence: PrecEquality},
		scanner.GREATER:       {infix: binary, precedence: PrecComparison},
		scanner.GREATER_EQUAL: {infix: binary, precedence: PrecComparison},
		scanner.LESS:          {infix: binary, precedence: PrecComparison},
		scanner.LESS_EQUAL:    {infix: binary, precedence: PrecComparison},

		scanner.IDENTIFIER: {prefix: variable},
		scanner.STRING:     {prefix: stringLiteral},
		scanner.NUMBER:     {prefix: number},

		scanner.AND:    {infix: and_, precedence: PrecAnd},
		scanner.CLASS:  {},
		scanner.ELSE:   {},
		scanner.FALSE:  {prefix: literal},
		scanner.FOR:    {},
		scanner.FUN:    {},
		scanner.IF:     {},
		scanner.NIL:    {prefix: literal},
		scanner.OR:     {infix: or_, precedence: PrecOr},
		scanner.PRINT:  {},
		scanner.RETURN: {},
		scanner.SUPER:  {},
		scanner.THIS:   {},
		scanner.TRUE:   {prefix: literal},
		scanner.VAR:    {},
		scanner.WHILE:  {},

		scanner.ERROR: {},
		scanner.EOF:   {},
	}
}

func grouping(p *Parser, canAssign bool) {
	p.expression()
	p.consume(scanner.RIGHT_PAREN, "Expect ')' after expression.")
}

func number(p *Parser, canAssign bool) {
	value, _ := strconv.ParseFloat(p.previous.Lexeme, 64)
	p.emitConstant(NumberVal(value))
}

// stringLiteral strips the surrounding quotes and interns the contents;
// the language has no escape sequences.
func stringLiteral(p *Parser, canAssign bool) {
	raw := p.previous.Lexeme
	contents := raw[1 : len(raw)-1]
	p.emitConstant(ObjectVal(p.heap.InternString(contents)))
}

func literal(p *Parser, canAssign bool) {
	switch p.previous.Type {
	case scanner.FALSE:
		p.emitOp(OP_FALSE)
	case scanner.TRUE:
		p.emitOp(OP_TRUE)
	case scanner.NIL:
		p.emitOp(OP_NIL)
	}
}

func unary(p *Parser, canAssign bool) {
	operatorType := p.previous.Type
	p.parsePrecedence(PrecUnary)

	switch operatorType {
	case scanner.BANG:
		p.emitOp(OP_NOT)
	case scanner.MINUS:
		p.emitOp(OP_NEGATE)
	}
}

func binary(p *Parser, canAssign bool) {
	operatorType := p.previous.Type
	rule := getRule(operatorType)
	p.parsePrecedence(rule.precedence + 1)

	switch operatorType {
	case scanner.BANG_EQUAL:
		p.emitOp(OP_EQUAL)
		p.emitOp(OP_NOT)
	case scanner.EQUAL_EQUAL:
		p.emitOp(OP_EQUAL)
	case scanner.GREATER:
		p.emitOp(OP_GREATER)
	case scanner.GREATER_EQUAL:
		p.emitOp(OP_LESS)
		p.emitOp(OP_NOT)
	case scanner.LESS:
		p.emitOp(OP_LESS)
	case scanner.LESS_EQUAL:
		p.emitOp(OP_GREATER)
		p.emitOp(OP_NOT)
	case scanner.PLUS:
		p.emitOp(OP_ADD)
	case scanner.MINUS:
		p.emitOp(OP_SUBTRACT)
	case scanner.STAR:
		p.emitOp(OP_MULTIPLY)
	case scanner.SLASH:
		p.emitOp(OP_DIVIDE)
	case scanner.BACKSLASH:
		p.emitOp(OP_INT_DIVIDE)
	case scanner.PERCENT:
		p.emitOp(OP_MODULUS)
	}
}

func and_(p *Parser, canAssign bool) {
	endJump := p.emitJump(OP_JUMP_IF_FALSE)
	p.emitOp(OP_POP)
	p.parsePrecedence(PrecAnd)
	p.patchJump(endJump)
}

func or_(p *Parser, canAssign bool) {
	elseJump := p.emitJump(OP_JUMP_IF_FALSE)
	endJump := p.emitJump(OP_JUMP)
	p.patchJump(elseJump)
	p.emitOp(OP_POP)
	p.parsePrecedence(PrecOr)
	p.patchJump(endJump)
}

func call(p *Parser, canAssign bool) {
	argCount := p.argumentList()
	p.emitBytes(OP_CALL, argCount)
}

func (p *Parser) argumentList() byte {
	var count int
	if !p.check(scanner.RIGHT_PAREN) {
		for {
			p.expression()
			if count == 255 {
				p.error("Can't have more than 255 arguments.")
			}
			count++
			if !p.match(scanner.COMMA) {
				break
			}
		}
	}
	p.consume(scanner.RIGHT_PAREN, "Expect ')' after arguments.")
	return byte(count)
}

func variable(p *Parser, canAssign bool) {
	p.namedVariable(p.previous, canAssign)
}

func (p *Parser) namedVariable(name scanner.Token, canAssign bool) {
	var getOp, setOp Opcode
	arg := p.resolveLocal(p.comp, name.Lexeme)
	if arg != -1 {
		getOp, setOp = OP_GET_LOCAL, OP_SET_LOCAL
	} else if arg = p.resolveUpvalue(p.comp, name.Lexeme); arg != -1 {
		getOp, setOp = OP_GET_UPVALUE, OP_SET_UPVALUE
	} else {
		arg = int(p.identifierConstant(name.Lexeme))
		getOp, setOp = OP_GET_GLOBAL, OP_SET_GLOBAL
	}

	if canAssign && p.match(scanner.EQUAL) {
		p.expression()
		p.emitBytes(setOp, byte(arg))
	} else {
		p.emitBytes(getOp, byte(arg))
	}
}
