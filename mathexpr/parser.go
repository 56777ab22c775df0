package mathexpr

import (
	"strings"

	"github.com/lambdalang/lambda/diag"
	"github.com/lambdalang/lambda/value"
)

// Operator precedence levels, adapted from the teacher's Pratt-parser
// precedence table (parser/parser.go's LOWEST/.../INDEX const block):
// math notation is itself an expression grammar (sum, product, power,
// postfix factorial, implicit multiplication by juxtaposition).
const (
	_ int = iota
	LOWEST
	RELATION // = < > below SUM, so "x + 1 = y - 1" relates two sum-level expressions
	SUM      // + -
	PRODUCT  // * / and implicit juxtaposition
	PREFIX   // unary -x
	POWER    // ^ _ (superscript/subscript)
	POSTFIX  // x!
)

var precedences = map[Type]int{
	EQ:         RELATION,
	LT_:        RELATION,
	GT_:        RELATION,
	PLUS:       SUM,
	MINUS:      SUM,
	STAR:       PRODUCT,
	SLASH:      PRODUCT,
	CARET:      POWER,
	UNDERSCORE: POWER,
	BANG:       POSTFIX,
}

type (
	prefixParseFn  func() *value.Element
	infixParseFn   func(left *value.Element) *value.Element
	postfixParseFn func(left *value.Element) *value.Element
)

// Parser turns a math Lexer's token stream into a normalized Element tree.
type Parser struct {
	l        *Lexer
	vctx     *value.Context
	notation Notation
	diags    *diag.Diagnostics

	cur, peekTok Token

	prefixFns  map[Type]prefixParseFn
	infixFns   map[Type]infixParseFn
	postfixFns map[Type]postfixParseFn
}

// NewParser builds a Parser reading notation over l, reporting into diags.
func NewParser(l *Lexer, vctx *value.Context, notation Notation, diags *diag.Diagnostics) *Parser {
	p := &Parser{l: l, vctx: vctx, notation: notation, diags: diags}

	p.prefixFns = map[Type]prefixParseFn{
		NUMBER:   p.parseNumber,
		IDENT:    p.parseIdent,
		COMMAND:  p.parseCommand,
		LBRACE:   func() *value.Element { return p.parseGroup(LBRACE, RBRACE, "{}") },
		LPAREN:   func() *value.Element { return p.parseGroup(LPAREN, RPAREN, "()") },
		PIPE:     p.parseAbs,
		MINUS:    p.parseUnaryMinus,
	}
	p.infixFns = map[Type]infixParseFn{
		PLUS:       func(l *value.Element) *value.Element { return p.parseBinary(l, "+", ORD) },
		MINUS:      func(l *value.Element) *value.Element { return p.parseBinary(l, "-", ORD) },
		STAR:       func(l *value.Element) *value.Element { return p.parseBinary(l, "*", BIN) },
		SLASH:      p.parseSlash,
		CARET:      p.parsePow,
		UNDERSCORE: p.parseSubscript,
		EQ:         func(l *value.Element) *value.Element { return p.parseBinary(l, "=", REL) },
		LT_:        func(l *value.Element) *value.Element { return p.parseBinary(l, "<", REL) },
		GT_:        func(l *value.Element) *value.Element { return p.parseBinary(l, ">", REL) },
	}
	p.postfixFns = map[Type]postfixParseFn{
		BANG: p.parseFactorial,
	}

	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peekTok
	p.peekTok = p.l.NextToken()
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekTok.Type]; ok {
		return pr
	}
	return LOWEST
}

// canStartPrefix reports whether t can begin a bare primary expression, used
// to recognize implicit multiplication ("a b", "2x") where no operator
// token separates two adjacent primaries (spec §4.G: "a b and ab are the
// same tree").
func (p *Parser) canStartPrefix(t Type) bool {
	switch t {
	case NUMBER, IDENT, COMMAND, LBRACE, LPAREN, PIPE:
		return true
	default:
		return false
	}
}

// Parse runs the full Pratt loop and returns the top-level expression.
func (p *Parser) Parse() *value.Element {
	if p.cur.Type == EOF {
		return newAtom(p.vctx, AtomSymbol, "", ORD)
	}
	e := p.parseExpression(LOWEST)
	if p.peekTok.Type != EOF {
		p.diags.Add(diag.Syntax(diag.Position{StartByte: p.peekTok.Start, EndByte: p.peekTok.End},
			"unexpected token after expression: "+p.peekTok.Literal, "EOF"))
	}
	return e
}

// isSpacingCommand reports whether t is one of the LaTeX horizontal-spacing
// commands (\quad, \qquad, \,, \;, \:). These carry no mathematical content
// of their own, so the parser skips them wherever a primary or operator is
// expected instead of threading them through the expression tree — a
// narrower reading of spec §4.G's "preserved structurally but not in
// equivalence comparison" than a literal AST node would give, traded for a
// parser that doesn't have to special-case a no-op node at every call site;
// see DESIGN.md for the full rationale.
func isSpacingCommand(t Token) bool {
	if t.Type != COMMAND {
		return false
	}
	switch t.Literal {
	case "quad", "qquad", ",", ";", ":":
		return true
	default:
		return false
	}
}

func (p *Parser) skipLeadingSpacing() {
	for isSpacingCommand(p.cur) && p.peekTok.Type != EOF {
		p.next()
	}
}

func (p *Parser) parseExpression(precedence int) *value.Element {
	p.skipLeadingSpacing()
	prefix, ok := p.prefixFns[p.cur.Type]
	if !ok {
		p.diags.Add(diag.Syntax(diag.Position{StartByte: p.cur.Start, EndByte: p.cur.End},
			"no prefix parse for "+p.cur.Type.String(), ""))
		return newAtom(p.vctx, AtomSymbol, p.cur.Literal, ORD)
	}
	left := prefix()

	for p.peekTok.Type != EOF {
		for isSpacingCommand(p.peekTok) {
			p.next()
		}
		if fn, ok := p.postfixFns[p.peekTok.Type]; ok && precedence < POSTFIX {
			p.next()
			left = fn(left)
			continue
		}
		if pr, ok := precedences[p.peekTok.Type]; ok {
			if precedence >= pr {
				break
			}
			infix := p.infixFns[p.peekTok.Type]
			p.next()
			left = infix(left)
			continue
		}
		if p.canStartPrefix(p.peekTok.Type) && precedence < PRODUCT {
			p.next()
			right := p.parseExpression(PRODUCT)
			left = p.mkOp("", ORD, left, right)
			continue
		}
		break
	}
	return left
}

// parseNextArg advances to the next token and parses one argument group:
// a brace or paren group consumes through its closing delimiter; a bare
// token parses a single tightly-bound primary (so "\hat x" accents only x,
// not a trailing expression).
func (p *Parser) parseNextArg() *value.Element {
	p.next()
	return p.parseArg()
}

func (p *Parser) parseArg() *value.Element {
	switch p.cur.Type {
	case LBRACE:
		return p.parseGroup(LBRACE, RBRACE, "{}")
	case LPAREN:
		return p.parseGroup(LPAREN, RPAREN, "()")
	default:
		fn, ok := p.prefixFns[p.cur.Type]
		if !ok {
			p.diags.Add(diag.Syntax(diag.Position{StartByte: p.cur.Start, EndByte: p.cur.End},
				"expected argument, got "+p.cur.Type.String(), ""))
			return newAtom(p.vctx, AtomSymbol, p.cur.Literal, ORD)
		}
		return fn()
	}
}

// parseGroup consumes open, an inner expression, and close, assuming
// p.cur.Type == open on entry; p.cur is left on the close token.
func (p *Parser) parseGroup(open, close Type, delim string) *value.Element {
	start := p.cur.Start
	p.next()
	var inner *value.Element
	if p.cur.Type == close {
		inner = newAtom(p.vctx, AtomSymbol, "", ORD)
	} else {
		inner = p.parseExpression(LOWEST)
		if p.peekTok.Type == close {
			p.next()
		} else {
			p.diags.Add(diag.Syntax(diag.Position{StartByte: p.peekTok.Start, EndByte: p.peekTok.End},
				"unterminated group", close.String()))
		}
	}
	g := value.NewElement(GroupType)
	setAttr(p.vctx, g, "delim", delim)
	push(g, inner)
	g.StartByte, g.EndByte = start, p.cur.End
	return g
}

func (p *Parser) parseAbs() *value.Element {
	return p.parseGroup(PIPE, PIPE, "||")
}

func (p *Parser) parseNumber() *value.Element {
	e := newAtom(p.vctx, AtomNumber, p.cur.Literal, ORD)
	e.StartByte, e.EndByte = p.cur.Start, p.cur.End
	return e
}

func (p *Parser) parseIdent() *value.Element {
	e := newAtom(p.vctx, AtomSymbol, p.cur.Literal, ORD)
	e.StartByte, e.EndByte = p.cur.Start, p.cur.End
	return e
}

func (p *Parser) parseUnaryMinus() *value.Element {
	p.next()
	operand := p.parseExpression(PREFIX)
	return p.mkOp("-", BIN, operand, nil)
}

func (p *Parser) parseFactorial(left *value.Element) *value.Element {
	return p.mkOp("!", ORD, left, nil)
}

func (p *Parser) parseBinary(left *value.Element, symbol string, class Class) *value.Element {
	prec := precedences[p.cur.Type]
	p.next()
	right := p.parseExpression(prec)
	return p.mkOp(symbol, class, left, right)
}

// parseSlash builds a frac node with style "slash", so ASCII-math's "a/b"
// and LaTeX's "\frac{a}{b}" compare equal under Equivalent (spec §4.G:
// fraction styles collapse to frac with only a style flag distinguishing
// them).
func (p *Parser) parseSlash(left *value.Element) *value.Element {
	p.next()
	right := p.parseExpression(PRODUCT)
	f := value.NewElement(FracType)
	setAttr(p.vctx, f, "style", "slash")
	push(f, left)
	push(f, right)
	return f
}

func (p *Parser) parsePow(left *value.Element) *value.Element {
	arg := p.parseNextArg()
	n := value.NewElement(PowType)
	push(n, left)
	push(n, arg)
	return n
}

func (p *Parser) parseSubscript(left *value.Element) *value.Element {
	arg := p.parseNextArg()
	n := value.NewElement(SubscriptType)
	push(n, left)
	push(n, arg)
	return n
}

func (p *Parser) mkOp(symbol string, class Class, left, right *value.Element) *value.Element {
	e := newAtom(p.vctx, AtomOperator, symbol, class)
	push(e, left)
	if right != nil {
		push(e, right)
	}
	return e
}

// parseCommand dispatches a COMMAND token (a LaTeX "\name" or a bare
// ASCII-math/Typst word already recognized by the lexer) to its structural
// parse, or resolves it against the fixed symbol table, or — if unknown —
// lets it round-trip as an opaque atom (spec §8 P8: the symbol table is
// total: every name either resolves or round-trips opaque).
func (p *Parser) parseCommand() *value.Element {
	name := p.cur.Literal
	start := p.cur.Start
	var e *value.Element
	switch name {
	case "frac", "dfrac", "tfrac":
		num := p.parseNextArg()
		den := p.parseNextArg()
		e = value.NewElement(FracType)
		setAttr(p.vctx, e, "style", name)
		push(e, num)
		push(e, den)
	case "sqrt":
		if p.peekTok.Type == LBRACKET {
			p.next()
			p.next()
			index := p.parseExpression(LOWEST)
			if p.peekTok.Type == RBRACKET {
				p.next()
			}
			radicand := p.parseNextArg()
			e = value.NewElement(RootType)
			push(e, index)
			push(e, radicand)
		} else {
			radicand := p.parseNextArg()
			e = value.NewElement(SqrtType)
			push(e, radicand)
		}
	case "root":
		index := p.parseNextArg()
		radicand := p.parseNextArg()
		e = value.NewElement(RootType)
		push(e, index)
		push(e, radicand)
	case "hat":
		e = p.parseAccentBody(HatType)
	case "tilde":
		e = p.parseAccentBody(TildeType)
	case "bar":
		e = p.parseAccentBody(BarType)
	case "dot":
		e = p.parseAccentBody(DotType)
	case "sum":
		e = value.NewElement(SumType)
	case "prod":
		e = value.NewElement(ProdType)
	case "int":
		e = value.NewElement(IntType)
	case "oint":
		e = value.NewElement(OintType)
	case "lim":
		e = value.NewElement(LimType)
	case "matrix", "pmatrix", "bmatrix":
		e = p.parseMatrix(name)
	case "quad", "qquad", ",", ";", ":":
		e = newAtom(p.vctx, AtomSpacing, name, ORD)
	case "cdot":
		e = newAtom(p.vctx, AtomOperator, "·", BIN)
	default:
		if sym, ok := lookupSymbol(name); ok {
			e = newAtom(p.vctx, AtomSymbol, sym.Unicode, sym.Class)
			setAttr(p.vctx, e, "latex", sym.Name)
		} else if functionNames[strings.ToLower(name)] {
			e = newAtom(p.vctx, AtomFunction, name, OP)
		} else {
			e = newAtom(p.vctx, AtomSymbol, name, ORD)
		}
	}
	e.StartByte = start
	e.EndByte = p.cur.End
	return e
}

func (p *Parser) parseAccentBody(desc *value.ElementType) *value.Element {
	arg := p.parseNextArg()
	e := value.NewElement(desc)
	push(e, arg)
	return e
}

// parseMatrix reads "{ cell & cell \\ cell & cell }" into a row-major grid.
func (p *Parser) parseMatrix(variant string) *value.Element {
	m := value.NewElement(MatrixType)
	setAttr(p.vctx, m, "variant", variant)
	if p.peekTok.Type != LBRACE {
		return m
	}
	p.next() // cur = LBRACE
	p.next() // cur = first cell token (or RBRACE if empty)

	rows := 0
	cols := 0
	var row *value.Element
	newRow := func() {
		row = value.NewElement(MatrixRowType)
		rows++
	}
	newRow()
	for p.cur.Type != RBRACE && p.cur.Type != EOF {
		cell := p.parseExpression(LOWEST)
		push(row, cell)
		if row.Children.Len() > cols {
			cols = row.Children.Len()
		}
		switch p.peekTok.Type {
		case AMP:
			p.next()
			p.next()
		case DBLBACKSLASH:
			p.next()
			push(m, row)
			p.next()
			newRow()
		case RBRACE:
			p.next()
		default:
			p.next()
		}
	}
	if row.Children.Len() > 0 {
		push(m, row)
	} else {
		rows--
	}
	setAttr(p.vctx, m, "rows", itoa(rows))
	setAttr(p.vctx, m, "cols", itoa(cols))
	return m
}

// MatrixRowType is internal scaffolding (not part of spec §4.G's user-facing
// vocabulary) grouping one matrix row's cells; Equivalent and the view-tree
// bridge both know to look inside it.
var MatrixRowType = &value.ElementType{Tag: "matrix_row"}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Parse tokenizes and parses src as notation, returning the normalized
// Element tree plus any diagnostics (spec §4.G, §6 "parse_math(text,
// notation) → (Element, Diagnostics)").
func Parse(vctx *value.Context, src string, notation Notation) (*value.Element, *diag.Diagnostics) {
	diags := diag.NewDiagnostics(vctx.TraceID)
	l := New(src, 0)
	p := NewParser(l, vctx, notation, diags)
	root := p.Parse()
	return root, diags
}
