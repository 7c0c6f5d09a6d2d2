package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/OmarAzizi/Onyx/internal/scanner"
)

// Precedence orders binding strength for the Pratt parser, ascending.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(p *Parser, canAssign bool)

// ParseRule maps a token kind to its prefix/infix handlers and, for infix
// position, the precedence at which it binds.
type ParseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// FunctionType distinguishes the implicit top-level script function from
// an ordinary fun declaration, since only the latter may legally contain a
// return statement (with or without a value) and neither may read/assign
// "this" (classes are out of scope entirely, so the distinction only
// matters for return checking).
type FunctionType int

const (
	FuncTypeFunction FunctionType = iota
	FuncTypeScript
)

// Local is a single entry in a Compiler's local-variable array. Depth of
// -1 marks a local whose initializer hasn't finished running yet, so
// reading it from its own initializer is a compile error.
type Local struct {
	Name       string
	Depth      int
	IsCaptured bool
}

// Upvalue is a compile-time descriptor: which slot of the enclosing
// function to capture (a local slot if IsLocal, otherwise an upvalue slot
// of the enclosing function itself).
type Upvalue struct {
	Index   uint8
	IsLocal bool
}

// Compiler holds the per-function compile-time state: the function being
// built, its local-variable and upvalue bookkeeping, and a link to the
// enclosing function's Compiler so nested fun declarations can resolve
// captures outward.
type Compiler struct {
	enclosing  *Compiler
	function   *ObjFunction
	fnType     FunctionType
	locals     []Local
	scopeDepth int
	upvalues   []Upvalue
}

func newCompiler(enclosing *Compiler, fnType FunctionType, fn *ObjFunction) *Compiler {
	c := &Compiler{enclosing: enclosing, fnType: fnType, function: fn}
	// Slot 0 is reserved for the callee itself (frame.slots[0]).
	c.locals = append(c.locals, Local{Name: "", Depth: 0})
	return c
}

// Parser drives the single-pass Pratt parser: it owns the token stream,
// the chain of Compilers (innermost at comp), and the shared Heap that
// both compile-time and run-time string interning draw from.
type Parser struct {
	sc       *scanner.Scanner
	current  scanner.Token
	previous scanner.Token

	hadError  bool
	panicMode bool
	errOut    io.Writer

	heap *Heap
	comp *Compiler
}

// Compile compiles source into the implicit top-level function, or
// returns ok=false if any compile error was reported to errOut.
func Compile(source string, heap *Heap, errOut io.Writer) (fn *ObjFunction, ok bool) {
	if errOut == nil {
		errOut = os.Stderr
	}
	p := &Parser{sc: scanner.New(source), heap: heap, errOut: errOut}
	top := heap.NewFunction()
	p.comp = newCompiler(nil, FuncTypeScript, top)

	p.advance()
	for !p.match(scanner.EOF) {
		p.declaration()
	}
	fn = p.endCompiler()
	return fn, !p.hadError
}

func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.sc.Next()
		if p.current.Type != scanner.ERROR {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *Parser) check(t scanner.TokenType) bool {
	return p.current.Type == t
}

func (p *Parser) match(t scanner.TokenType) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(t scanner.TokenType, message string) {
	if p.current.Type == t {
		p.advance()
		return
	}
	p.errorAtCurrent(message)
}

func (p *Parser) errorAtCurrent(message string) {
	p.errorAt(p.current, message)
}

func (p *Parser) error(message string) {
	p.errorAt(p.previous, message)
}

func (p *Parser) errorAt(tok scanner.Token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	fmt.Fprintf(p.errOut, "[line %d] Error", tok.Line)
	switch tok.Type {
	case scanner.EOF:
		fmt.Fprint(p.errOut, " at end")
	case scanner.ERROR:
		// The lexeme already holds the scanner's own message.
	default:
		fmt.Fprintf(p.errOut, " at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(p.errOut, ": %s\n", message)
	p.hadError = true
}

// synchronize discards tokens after a parse error until it finds a
// plausible statement boundary, so one mistake doesn't cascade into a
// wall of spurious errors.
func (p *Parser) synchronize() {
	p.panicMode = false

	for p.current.Type != scanner.EOF {
		if p.previous.Type == scanner.SEMICOLON {
			return
		}
		switch p.current.Type {
		case scanner.CLASS, scanner.FUN, scanner.VAR, scanner.FOR,
			scanner.IF, scanner.WHILE, scanner.PRINT, scanner.RETURN:
			return
		}
		p.advance()
	}
}

func (p *Parser) currentChunk() *Chunk {
	return p.comp.function.Chunk
}

// parsePrecedence is the heart of the Pratt parser: consume a token, run
// its prefix handler, then keep consuming and running infix handlers as
// long as the next token binds at least as tightly as minPrec.
func (p *Parser) parsePrecedence(minPrec Precedence) {
	p.advance()
	prefixRule := getRule(p.previous.Type).prefix
	if prefixRule == nil {
		p.error("Expect expression.")
		return
	}

	canAssign := minPrec <= PrecAssignment
	prefixRule(p, canAssign)

	for minPrec <= getRule(p.current.Type).precedence {
		p.advance()
		infixRule := getRule(p.previous.Type).infix
		infixRule(p, canAssign)
	}

	if canAssign && p.match(scanner.EQUAL) {
		p.error("Invalid assignment target.")
	}
}

func (p *Parser) expression() {
	p.parsePrecedence(PrecAssignment)
}

func getRule(t scanner.TokenType) ParseRule {
	if rule, ok := rules[t]; ok {
		return rule
	}
	return ParseRule{}
}
