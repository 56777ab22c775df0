package mathexpr

import "github.com/lambdalang/lambda/value"

// Node tag descriptors for the normalized math tree (spec §4.G's fixed
// vocabulary). Reusing value.Element/value.ElementType keeps math nodes
// interchangeable with markup nodes (a math_inline/math_block markup node's
// "source" attribute parses into one of these trees) and gives Walk/
// Inspector from markup/parser a single node shape to traverse across both.
var (
	FracType      = &value.ElementType{Tag: "frac", Attributes: []string{"style"}}
	PowType       = &value.ElementType{Tag: "pow"}
	SubscriptType = &value.ElementType{Tag: "subscript"}
	SqrtType      = &value.ElementType{Tag: "sqrt"}
	RootType      = &value.ElementType{Tag: "root"}
	SumType       = &value.ElementType{Tag: "sum"}
	ProdType      = &value.ElementType{Tag: "prod"}
	IntType       = &value.ElementType{Tag: "int"}
	OintType      = &value.ElementType{Tag: "oint"}
	LimType       = &value.ElementType{Tag: "lim"}
	MatrixType    = &value.ElementType{Tag: "matrix", Attributes: []string{"variant", "rows", "cols"}}
	HatType       = &value.ElementType{Tag: "hat"}
	TildeType     = &value.ElementType{Tag: "tilde"}
	BarType       = &value.ElementType{Tag: "bar"}
	DotType       = &value.ElementType{Tag: "dot"}
	GroupType     = &value.ElementType{Tag: "group"} // parenthesized/braced subexpression, delimiter in attrs
	AtomType      = &value.ElementType{Tag: "atom", Attributes: []string{"kind", "symbol", "unicode", "class"}}
)

// AtomKind values for AtomType's "kind" attribute.
const (
	AtomSymbol   = "symbol"
	AtomNumber   = "number"
	AtomOperator = "operator"
	AtomFunction = "function"
	AtomSpacing  = "spacing"
)

func newAtom(vctx *value.Context, kind, text string, class Class) *value.Element {
	e := value.NewElement(AtomType)
	setAttr(vctx, e, "kind", kind)
	setAttr(vctx, e, "symbol", text)
	setAttr(vctx, e, "class", class.String())
	return e
}

func setAttr(vctx *value.Context, e *value.Element, key, v string) {
	it, err := vctx.Intern([]byte(v))
	if err != nil {
		it = value.Undefined
	}
	e.Attrs.Set(key, it)
}

func attr(e *value.Element, key string) string {
	it := e.Attrs.Get(key)
	s, err := value.AsString(it)
	if err != nil {
		return ""
	}
	return s.String()
}

func push(parent, child *value.Element) {
	parent.Children.Push(value.NewElementItem(child))
}

func child(e *value.Element, i int) *value.Element {
	if i < 0 || i >= e.Children.Len() {
		return nil
	}
	c, err := value.AsElement(e.Children.Get(i))
	if err != nil {
		return nil
	}
	return c
}

// Attr is the exported form of attr, for callers outside this package (the
// view-tree bridge) converting a normalized math tree.
func Attr(e *value.Element, key string) string { return attr(e, key) }

// Child is the exported form of child.
func Child(e *value.Element, i int) *value.Element { return child(e, i) }

// NumChildren returns e's child count, 0 for a nil Element.
func NumChildren(e *value.Element) int {
	if e == nil {
		return 0
	}
	return e.Children.Len()
}
