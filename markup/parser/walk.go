package parser

import "github.com/lambdalang/lambda/value"

// Visitor is walked depth-first over an Element tree, adapted from the
// teacher's ast.Visitor/Walk. Because every node in this AST is a
// value.Element (a children List plus a descriptor) rather than a family of
// distinct Go types, descent is uniform — Walk doesn't need the teacher's
// per-node-type switch, it just recurses over Children.
type Visitor interface {
	// Visit is called for node; if it returns a non-nil Visitor, Walk
	// recurses into node's children with that Visitor, then calls
	// Visit(nil) on it when done (mirroring ast.Walk's post-order signal).
	Visit(node *value.Element) Visitor
}

// Walk traverses e depth-first, calling v.Visit on every node.
func Walk(v Visitor, e *value.Element) {
	if e == nil {
		return
	}
	if v = v.Visit(e); v == nil {
		return
	}
	for i := 0; i < e.Children.Len(); i++ {
		if child, err := value.AsElement(e.Children.Get(i)); err == nil {
			Walk(v, child)
		}
	}
	v.Visit(nil)
}

// Inspector collects every node in a tree for post-hoc querying, adapted
// from the teacher's Inspector (NewInspector/FindVariables/FindFunctionCalls/
// FindSelectStatements generalized to FindByTag, since this AST has one
// node shape distinguished by descriptor tag rather than many Go types).
type Inspector struct {
	nodes []*value.Element
}

// NewInspector walks root once and caches every node.
func NewInspector(root *value.Element) *Inspector {
	insp := &Inspector{}
	insp.collect(root)
	return insp
}

func (insp *Inspector) collect(e *value.Element) {
	if e == nil {
		return
	}
	insp.nodes = append(insp.nodes, e)
	for i := 0; i < e.Children.Len(); i++ {
		if child, err := value.AsElement(e.Children.Get(i)); err == nil {
			insp.collect(child)
		}
	}
}

// FindByTag returns every node whose descriptor has the given tag name.
func (insp *Inspector) FindByTag(tag string) []*value.Element {
	var out []*value.Element
	for _, n := range insp.nodes {
		if n.Desc != nil && n.Desc.Tag == tag {
			out = append(out, n)
		}
	}
	return out
}

// FindLinks returns every link node, the markup equivalent of the
// teacher's FindFunctionCalls (both are "find every occurrence of one
// specific, frequently-queried node kind").
func (insp *Inspector) FindLinks() []*value.Element { return insp.FindByTag(LinkType.Tag) }

// FindHeadings returns every heading node, the markup equivalent of the
// teacher's FindSelectStatements.
func (insp *Inspector) FindHeadings() []*value.Element { return insp.FindByTag(HeadingType.Tag) }

// All returns every node collected, in pre-order.
func (insp *Inspector) All() []*value.Element { return insp.nodes }
