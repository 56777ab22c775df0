// Package viewtree implements spec §4.I's view-tree bridge:
// to_view_tree(ast, options) -> ViewTree, a total, pure conversion from a
// markup/parser AST to a strictly layout-oriented sum type with no CSS and
// no flavor-specific metadata.
//
// The sum type is expressed the way the teacher expresses its own AST node
// hierarchy (ast.go's Node interface plus a marker method per node
// category, one concrete struct per variant) rather than as a Go untagged
// union, since Go has no such thing.
package viewtree

import (
	"strconv"

	"github.com/lambdalang/lambda/markup/parser"
	"github.com/lambdalang/lambda/mathexpr"
	"github.com/lambdalang/lambda/value"
)

// Node is any view-tree node. Every variant spec §4.I lists — Block,
// Inline, TextRun, MathElement, Line, Group, Page — implements it.
type Node interface{ viewNode() }

// Kind names a Block or Inline node's role (the markup tag it came from:
// "heading", "paragraph", "emphasis", "link", ...). It carries semantic
// meaning for a layout engine to key off of, never presentation.
type Kind string

// Block is a block-level layout container: headings, paragraphs,
// blockquotes, lists, code blocks, tables, directives.
type Block struct {
	Kind     Kind
	Level    int // heading level; 0 for every other block
	Attrs    map[string]string
	Children []Node
}

func (*Block) viewNode() {}

// Inline is an inline-level layout container: emphasis, strong, strike,
// code spans, links, images, autolinks, entities.
type Inline struct {
	Kind     Kind
	Attrs    map[string]string
	Children []Node
}

func (*Inline) viewNode() {}

// TextRun is a leaf run of literal text.
type TextRun struct{ Text string }

func (*TextRun) viewNode() {}

// MathElement wraps one normalized math subtree, converted to the role-
// tagged MathKind shape spec §4.I defines (Fraction/Script/Radical/
// Operator/Matrix/Accent/Atom).
type MathElement struct {
	Math    MathKind
	Display bool // true for math_block (own line), false for math_inline
}

func (*MathElement) viewNode() {}

// Line groups nodes that lay out along one line; the conversion produces
// one per table row.
type Line struct{ Children []Node }

func (*Line) viewNode() {}

// Group is a generic, presentation-free grouping: a list item, a table
// cell's content.
type Group struct {
	Attrs    map[string]string
	Children []Node
}

func (*Group) viewNode() {}

// Page is the view tree's root: the whole document.
type Page struct{ Children []Node }

func (*Page) viewNode() {}

// MathKind is any math role child spec §4.I lists.
type MathKind interface{ mathKind() }

// Fraction is \frac{Num}{Denom} (and its style variants, collapsed).
type Fraction struct{ Num, Denom MathKind }

func (*Fraction) mathKind() {}

// Script is a base with an optional subscript and/or superscript, combined
// from mathexpr's nested Subscript/Pow representation by scriptOrOperator.
type Script struct {
	Base     MathKind
	Sub, Sup MathKind // nil when absent
}

func (*Script) mathKind() {}

// Radical is \sqrt{Radicand} or \sqrt[Index]{Radicand}.
type Radical struct {
	Radicand MathKind
	Index    MathKind // nil for a plain square root
}

func (*Radical) mathKind() {}

// Operator is a symbol with optional lower/upper limits (big operators
// like \sum, or any atom carrying its TeX spacing class).
type Operator struct {
	Symbol       string
	Lower, Upper MathKind // nil when absent
	Class        string
}

func (*Operator) mathKind() {}

// Row is a flat horizontal sequence of math items: a TeX math list. Not one
// of spec §4.I's named role children, but required to express a plain
// infix/prefix/postfix expression ("a + b", "-x", "n!") faithfully —
// mathexpr represents these as a binary AtomType{kind:operator} tree for
// parsing convenience (see DESIGN.md's mathexpr notes), but a typesetter lays out
// "a", "+", "b" as three siblings on one line, not as a nested tree; see
// DESIGN.md for the full rationale.
type Row struct{ Items []MathKind }

func (*Row) mathKind() {}

// Matrix is a row-major grid of cells.
type Matrix struct {
	Rows, Cols int
	Cells      []MathKind // Rows*Cols entries, row-major
	Delim      string     // "", "()", "[]" (plain/pmatrix/bmatrix)
}

func (*Matrix) mathKind() {}

// Accent is \hat/\tilde/\bar/\dot applied to Base.
type Accent struct {
	Base   MathKind
	Symbol string // "hat", "tilde", "bar", "dot"
}

func (*Accent) mathKind() {}

// Atom is a leaf symbol, number, operator glyph, or function name.
type Atom struct {
	Symbol string
	Class  string
}

func (*Atom) mathKind() {}

// Options configures the conversion. It carries layout-relevant knobs
// only (spec §4.I: "no CSS, no flavor-specific metadata"); zero value is
// the identity conversion.
type Options struct {
	// TabWidth is reserved for a future code-block/table column-layout
	// pass; the conversion itself does not yet use it.
	TabWidth int
}

// ToViewTree implements to_view_tree(ast, options) -> ViewTree: total over
// every well-formed AST (a nil root yields an empty Page) and pure (no I/O,
// no font resolution — spec §4.I leaves that to the renderers in §6).
func ToViewTree(root *value.Element, options Options) Node {
	if root == nil {
		return &Page{}
	}
	return toNode(root, options)
}

func childNodes(e *value.Element, options Options) []Node {
	var out []Node
	for i := 0; i < e.Children.Len(); i++ {
		c, err := value.AsElement(e.Children.Get(i))
		if err != nil {
			continue
		}
		out = append(out, toNode(c, options))
	}
	return out
}

func attrMap(e *value.Element, keys ...string) map[string]string {
	m := make(map[string]string, len(keys))
	for _, k := range keys {
		if v := attrString(e, k); v != "" {
			m[k] = v
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func attrString(e *value.Element, key string) string {
	it := e.Attrs.Get(key)
	s, err := value.AsString(it)
	if err != nil {
		return ""
	}
	return s.String()
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// toNode dispatches on the markup AST's tag. An unrecognized tag still
// produces a node (a Block carrying its tag as Kind and its children
// converted), keeping the conversion total over any Element tree, not just
// the tags markup/parser itself emits.
func toNode(e *value.Element, options Options) Node {
	if e == nil || e.Desc == nil {
		return &TextRun{}
	}
	switch e.Desc {
	case parser.DocumentType:
		return &Page{Children: childNodes(e, options)}
	case parser.HeadingType:
		return &Block{Kind: "heading", Level: atoi(attrString(e, "level")),
			Attrs: attrMap(e, "style"), Children: childNodes(e, options)}
	case parser.ParagraphType:
		return &Block{Kind: "paragraph", Children: childNodes(e, options)}
	case parser.BlockquoteType:
		return &Block{Kind: "blockquote", Children: childNodes(e, options)}
	case parser.ListType:
		return &Block{Kind: "list", Attrs: attrMap(e, "ordered"), Children: childNodes(e, options)}
	case parser.ListItemType:
		return &Group{Attrs: attrMap(e, "marker"), Children: childNodes(e, options)}
	case parser.CodeBlockType:
		return &Block{Kind: "code_block", Attrs: attrMap(e, "lang", "fence"),
			Children: []Node{&TextRun{Text: attrString(e, "text")}}}
	case parser.HRType:
		return &Block{Kind: "hr"}
	case parser.TableType:
		return &Block{Kind: "table", Attrs: attrMap(e, "style"), Children: childNodes(e, options)}
	case parser.TableRowType:
		return &Line{Children: childNodes(e, options)}
	case parser.TableCellType:
		return &Group{Attrs: attrMap(e, "header", "align"), Children: childNodes(e, options)}
	case parser.DirectiveType:
		return &Block{Kind: "directive", Attrs: attrMap(e, "name", "arg"), Children: childNodes(e, options)}
	case parser.TextType:
		return &TextRun{Text: attrString(e, "text")}
	case parser.EmphasisType:
		return &Inline{Kind: "emphasis", Attrs: attrMap(e, "marker"), Children: childNodes(e, options)}
	case parser.StrongType:
		return &Inline{Kind: "strong", Attrs: attrMap(e, "marker"), Children: childNodes(e, options)}
	case parser.StrikeType:
		return &Inline{Kind: "strike", Children: childNodes(e, options)}
	case parser.CodeSpanType:
		return &Inline{Kind: "code_span", Children: []Node{&TextRun{Text: attrString(e, "text")}}}
	case parser.LinkType:
		return &Inline{Kind: "link", Attrs: attrMap(e, "href", "title"), Children: childNodes(e, options)}
	case parser.ImageType:
		return &Inline{Kind: "image", Attrs: attrMap(e, "href", "alt", "title")}
	case parser.AutolinkType:
		return &Inline{Kind: "autolink", Attrs: attrMap(e, "href")}
	case parser.EntityType:
		return &Inline{Kind: "entity", Attrs: attrMap(e, "name")}
	case parser.MathInlineType, parser.MathBlockType:
		return mathElement(e, options)
	default:
		return &Block{Kind: Kind(e.Desc.Tag), Children: childNodes(e, options)}
	}
}

// mathElement converts a math_inline/math_block node's one mathexpr child
// (see markup/parser/inline.go's mathNode) into a MathElement. A node with
// no attached child (an empty or unparseable formula) still converts
// totally, to a bare opaque Atom carrying the raw source text.
func mathElement(e *value.Element, options Options) Node {
	display := e.Desc == parser.MathBlockType
	if mathexpr.NumChildren(e) == 0 {
		return &MathElement{Display: display, Math: &Atom{Symbol: attrString(e, "source")}}
	}
	return &MathElement{Display: display, Math: mathToView(mathexpr.Child(e, 0))}
}

// mathToView converts one mathexpr Element into the role-tagged MathKind
// shape. \sum/\prod/\int/\oint/\lim parse in mathexpr as a bare leaf with
// subscript/superscript limits attached by the ordinary Subscript/Pow infix
// productions (mathexpr design note in DESIGN.md), so Pow(Subscript(Sum,
// lower), upper) and Subscript(Pow(Sum, upper), lower) both need folding
// into one Operator{Lower, Upper} node here rather than the doubly-nested
// Script the generic case would build.
func mathToView(e *value.Element) MathKind {
	if e == nil {
		return &Atom{}
	}
	switch e.Desc {
	case mathexpr.AtomType:
		if mathexpr.Attr(e, "kind") == mathexpr.AtomOperator && mathexpr.NumChildren(e) > 0 {
			return flattenOperatorAtom(e)
		}
		return &Atom{Symbol: mathexpr.Attr(e, "symbol"), Class: mathexpr.Attr(e, "class")}
	case mathexpr.FracType:
		return &Fraction{Num: mathToView(mathexpr.Child(e, 0)), Denom: mathToView(mathexpr.Child(e, 1))}
	case mathexpr.SqrtType:
		return &Radical{Radicand: mathToView(mathexpr.Child(e, 0))}
	case mathexpr.RootType:
		return &Radical{Index: mathToView(mathexpr.Child(e, 0)), Radicand: mathToView(mathexpr.Child(e, 1))}
	case mathexpr.HatType:
		return &Accent{Symbol: "hat", Base: mathToView(mathexpr.Child(e, 0))}
	case mathexpr.TildeType:
		return &Accent{Symbol: "tilde", Base: mathToView(mathexpr.Child(e, 0))}
	case mathexpr.BarType:
		return &Accent{Symbol: "bar", Base: mathToView(mathexpr.Child(e, 0))}
	case mathexpr.DotType:
		return &Accent{Symbol: "dot", Base: mathToView(mathexpr.Child(e, 0))}
	case mathexpr.MatrixType:
		return matrixToView(e)
	case mathexpr.SumType, mathexpr.ProdType, mathexpr.IntType, mathexpr.OintType, mathexpr.LimType:
		return bigOperator(e)
	case mathexpr.SubscriptType, mathexpr.PowType:
		return scriptOrOperator(e)
	case mathexpr.GroupType:
		return mathToView(mathexpr.Child(e, 0))
	default:
		return &Atom{}
	}
}

// flattenOperatorAtom converts a mkOp-built AtomType{kind:operator} node
// into a Row. Arity alone can't distinguish a one-child prefix node (unary
// minus) from a one-child postfix node (factorial), since mathexpr.mkOp
// gives both the same shape; "-" with one child is the only prefix case
// this grammar produces, so it is special-cased here rather than adding an
// attribute to every other single-child operator just to break the tie.
func flattenOperatorAtom(e *value.Element) MathKind {
	symbol := mathexpr.Attr(e, "symbol")
	class := mathexpr.Attr(e, "class")
	opAtom := &Atom{Symbol: symbol, Class: class}
	n := mathexpr.NumChildren(e)

	var items []MathKind
	switch {
	case n == 1 && symbol == "-":
		items = append(items, opAtom)
		appendFlat(&items, mathexpr.Child(e, 0))
	case n == 1:
		appendFlat(&items, mathexpr.Child(e, 0))
		items = append(items, opAtom)
	default:
		appendFlat(&items, mathexpr.Child(e, 0))
		items = append(items, opAtom)
		appendFlat(&items, mathexpr.Child(e, 1))
	}
	return &Row{Items: items}
}

// appendFlat appends e's view conversion to items, splicing a nested
// operator-atom's own items in directly rather than nesting a Row inside a
// Row, so a left-associative chain like "a + b + c" becomes one flat
// five-item Row instead of a Row containing a Row.
func appendFlat(items *[]MathKind, e *value.Element) {
	if e == nil {
		return
	}
	if e.Desc == mathexpr.AtomType && mathexpr.Attr(e, "kind") == mathexpr.AtomOperator && mathexpr.NumChildren(e) > 0 {
		if row, ok := flattenOperatorAtom(e).(*Row); ok {
			*items = append(*items, row.Items...)
			return
		}
	}
	*items = append(*items, mathToView(e))
}

// bigOperatorSymbols maps a bare big-operator leaf's element type to the
// fixed symbol table name mathexpr.LookupSymbol resolves for its class and
// display glyph, so this table is the single place that association lives.
var bigOperatorSymbols = map[*value.ElementType]string{
	mathexpr.SumType:  "sum",
	mathexpr.ProdType: "prod",
	mathexpr.IntType:  "int",
	mathexpr.OintType: "oint",
	mathexpr.LimType:  "lim",
}

func bigOperator(e *value.Element) *Operator {
	name := bigOperatorSymbols[e.Desc]
	sym, class := name, "OP"
	if s, ok := mathexpr.LookupSymbol(name); ok {
		sym, class = s.Unicode, s.Class.String()
	}
	return &Operator{Symbol: sym, Class: class}
}

// scriptOrOperator converts a Subscript or Pow node. When its base
// (possibly through one nested Subscript/Pow layer) is a big operator, the
// subscript/superscript become that Operator's Lower/Upper limits instead
// of a generic Script wrapper.
func scriptOrOperator(e *value.Element) MathKind {
	base := mathexpr.Child(e, 0)
	arg := mathToView(mathexpr.Child(e, 1))

	if op, lower, upper, ok := asOperatorLimits(base); ok {
		if e.Desc == mathexpr.SubscriptType {
			lower = arg
		} else {
			upper = arg
		}
		return &Operator{Symbol: op.Symbol, Class: op.Class, Lower: lower, Upper: upper}
	}

	sc := &Script{Base: mathToView(base)}
	// x_i^2 parses as Pow(Subscript(x, i), 2): fold it into one Script when
	// the base is itself a bare Subscript/Pow whose slot for this node is free.
	if inner, ok := sc.Base.(*Script); ok && (base.Desc == mathexpr.SubscriptType || base.Desc == mathexpr.PowType) {
		if (e.Desc == mathexpr.SubscriptType && inner.Sub == nil) || (e.Desc == mathexpr.PowType && inner.Sup == nil) {
			sc = inner
		}
	}
	if e.Desc == mathexpr.SubscriptType {
		sc.Sub = arg
	} else {
		sc.Sup = arg
	}
	return sc
}

// asOperatorLimits reports whether base is (possibly through one nested
// Subscript/Pow layer) a big operator, returning its Operator shape and any
// limit already attached by that nested layer.
func asOperatorLimits(base *value.Element) (op *Operator, lower, upper MathKind, ok bool) {
	if base == nil {
		return nil, nil, nil, false
	}
	switch base.Desc {
	case mathexpr.SumType, mathexpr.ProdType, mathexpr.IntType, mathexpr.OintType, mathexpr.LimType:
		return bigOperator(base), nil, nil, true
	case mathexpr.SubscriptType, mathexpr.PowType:
		inner := mathexpr.Child(base, 0)
		innerOp, innerLower, innerUpper, innerOK := asOperatorLimits(inner)
		if !innerOK {
			return nil, nil, nil, false
		}
		arg := mathToView(mathexpr.Child(base, 1))
		if base.Desc == mathexpr.SubscriptType {
			innerLower = arg
		} else {
			innerUpper = arg
		}
		return innerOp, innerLower, innerUpper, true
	default:
		return nil, nil, nil, false
	}
}

func matrixToView(e *value.Element) *Matrix {
	rows := atoi(mathexpr.Attr(e, "rows"))
	cols := atoi(mathexpr.Attr(e, "cols"))
	delim := matrixDelim(mathexpr.Attr(e, "variant"))

	cells := make([]MathKind, 0, rows*cols)
	for r := 0; r < mathexpr.NumChildren(e); r++ {
		row := mathexpr.Child(e, r)
		n := mathexpr.NumChildren(row)
		for c := 0; c < cols; c++ {
			if c < n {
				cells = append(cells, mathToView(mathexpr.Child(row, c)))
			} else {
				cells = append(cells, &Atom{})
			}
		}
	}
	return &Matrix{Rows: rows, Cols: cols, Cells: cells, Delim: delim}
}

func matrixDelim(variant string) string {
	switch variant {
	case "pmatrix":
		return "()"
	case "bmatrix":
		return "[]"
	default:
		return ""
	}
}
