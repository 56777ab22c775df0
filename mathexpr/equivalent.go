package mathexpr

import "github.com/lambdalang/lambda/value"

// Equivalent implements spec §4.G's semantic-equality predicate, the
// foundation of the round-trip contract in §4.H/§8 P7: two math trees are
// equivalent when they differ only by the normalizations §4.G lists —
// brace-stripping around a single token, fraction-style flags, and
// structurally-preserved-but-comparison-irrelevant spacing commands.
//
// Raw whitespace run-length between tokens is never represented in the
// tree at all (the math lexer discards every whitespace run), so "d x",
// "dx" and "d  x" compare equal (see DESIGN.md). The only spacing that can
// reach this predicate is the explicit spacing-command atoms (\quad, \,,
// \;) that survive parsing as distinct AtomSpacing nodes — two
// different spacing commands are NOT equivalent to each other, even though
// neither affects comparison of the surrounding expression.
func Equivalent(a, b *value.Element) bool {
	a = unwrap(a)
	b = unwrap(b)
	if a == nil || b == nil {
		return a == b
	}
	if a.Desc != b.Desc {
		return false
	}

	switch a.Desc {
	case AtomType:
		if attr(a, "kind") != attr(b, "kind") {
			return false
		}
		if attr(a, "symbol") != attr(b, "symbol") {
			return false
		}
	case FracType:
		// style flag (frac/dfrac/tfrac/slash) is intentionally ignored
	case MatrixType:
		if attr(a, "variant") != attr(b, "variant") {
			return false
		}
	}

	ac := significantChildren(a)
	bc := significantChildren(b)
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !Equivalent(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

// unwrap strips a GroupType node with delim "{}" and exactly one child —
// braces purely for grouping a single token are not semantically
// meaningful (spec §4.G: "x^{2} ≡ x^2"). Parenthesis groups ("()") are
// never stripped: they carry real precedence meaning.
func unwrap(e *value.Element) *value.Element {
	for e != nil && e.Desc == GroupType && attr(e, "delim") == "{}" && e.Children.Len() == 1 {
		e = child(e, 0)
	}
	return e
}

// significantChildren returns e's children with spacing-command atoms
// filtered out (spec §4.G: "spacing commands preserved structurally but not
// in equivalence comparison") and groups unwrapped.
func significantChildren(e *value.Element) []*value.Element {
	out := make([]*value.Element, 0, e.Children.Len())
	for i := 0; i < e.Children.Len(); i++ {
		c := child(e, i)
		if c == nil {
			continue
		}
		if c.Desc == AtomType && attr(c, "kind") == AtomSpacing {
			continue
		}
		out = append(out, unwrap(c))
	}
	return out
}
