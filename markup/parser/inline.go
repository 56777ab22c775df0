package parser

import (
	"strings"

	"github.com/lambdalang/lambda/markup/lexer"
	"github.com/lambdalang/lambda/markup/token"
	"github.com/lambdalang/lambda/mathexpr"
	"github.com/lambdalang/lambda/value"
)

// parseInlineInto tokenizes line's text and appends the resulting inline
// nodes (and text runs) as children of parent (spec §4.E's second,
// inline dispatcher: emphasis, code, link, image, math, autolink/entity).
func parseInlineInto(vctx *value.Context, parent *value.Element, line lexer.Line) {
	l := lexer.New(line.Text, line.Start)
	toks := scanAll(l)
	i := 0
	for i < len(toks) && toks[i].Type != token.EOF {
		i = parseInlineOne(vctx, parent, toks, i)
	}
}

func scanAll(l *lexer.Lexer) []token.Token {
	var out []token.Token
	for {
		t := l.NextToken()
		out = append(out, t)
		if t.Type == token.EOF {
			return out
		}
	}
}

// parseInlineOne consumes one inline construct starting at i and returns
// the index just past it.
func parseInlineOne(vctx *value.Context, parent *value.Element, toks []token.Token, i int) int {
	t := toks[i]
	switch t.Type {
	case token.STARSTAR, token.UNDERUNDER:
		if end, ok := findClosing(toks, i+1, t.Type); ok {
			node := value.NewElement(StrongType)
			setAttr(vctx, node, "marker", t.Literal)
			emitInlineChildren(vctx, node, toks, i+1, end)
			setPos(node, toks[i].Start, toks[end].End)
			parent.Children.Push(value.NewElementItem(node))
			return end + 1
		}
	case token.STAR, token.UNDERSCORE:
		if end, ok := findClosing(toks, i+1, t.Type); ok {
			node := value.NewElement(EmphasisType)
			setAttr(vctx, node, "marker", t.Literal)
			emitInlineChildren(vctx, node, toks, i+1, end)
			setPos(node, toks[i].Start, toks[end].End)
			parent.Children.Push(value.NewElementItem(node))
			return end + 1
		}
	case token.TILDE_TILDE:
		if end, ok := findClosing(toks, i+1, t.Type); ok {
			node := value.NewElement(StrikeType)
			emitInlineChildren(vctx, node, toks, i+1, end)
			setPos(node, toks[i].Start, toks[end].End)
			parent.Children.Push(value.NewElementItem(node))
			return end + 1
		}
	case token.BACKTICK:
		if end, ok := findClosing(toks, i+1, token.BACKTICK); ok {
			var text strings.Builder
			for j := i + 1; j < end; j++ {
				text.WriteString(toks[j].Literal)
			}
			node := value.NewElement(CodeSpanType)
			setAttr(vctx, node, "text", text.String())
			setPos(node, toks[i].Start, toks[end].End)
			parent.Children.Push(value.NewElementItem(node))
			return end + 1
		}
	case token.DOLLARDOLLAR:
		if end, ok := findClosing(toks, i+1, token.DOLLARDOLLAR); ok {
			node := mathNode(vctx, MathBlockType, toks, i, end)
			parent.Children.Push(value.NewElementItem(node))
			return end + 1
		}
	case token.DOLLAR:
		if end, ok := findClosing(toks, i+1, token.DOLLAR); ok {
			node := mathNode(vctx, MathInlineType, toks, i, end)
			parent.Children.Push(value.NewElementItem(node))
			return end + 1
		}
	case token.BANG:
		if i+1 < len(toks) && toks[i+1].Type == token.LBRACKET {
			if node, end, ok := parseLinkOrImage(vctx, toks, i+1, true); ok {
				setPos(node, toks[i].Start, toks[end].End)
				parent.Children.Push(value.NewElementItem(node))
				return end + 1
			}
		}
	case token.LBRACKET:
		if node, end, ok := parseLinkOrImage(vctx, toks, i, false); ok {
			setPos(node, toks[i].Start, toks[end].End)
			parent.Children.Push(value.NewElementItem(node))
			return end + 1
		}
	case token.LT:
		if end, ok := findClosing(toks, i+1, token.GT); ok {
			var text strings.Builder
			for j := i + 1; j < end; j++ {
				text.WriteString(toks[j].Literal)
			}
			href := text.String()
			if looksLikeAutolink(href) {
				node := value.NewElement(AutolinkType)
				setAttr(vctx, node, "href", href)
				setPos(node, toks[i].Start, toks[end].End)
				parent.Children.Push(value.NewElementItem(node))
				return end + 1
			}
		}
	case token.AMP:
		if name, end, ok := scanEntity(toks, i+1); ok {
			node := value.NewElement(EntityType)
			setAttr(vctx, node, "name", name)
			setPos(node, toks[i].Start, toks[end].End)
			parent.Children.Push(value.NewElementItem(node))
			return end + 1
		}
	}
	// No construct matched: emit literal text for this one token.
	pushText(vctx, parent, t.Literal, t.Start, t.End)
	return i + 1
}

// emitInlineChildren recursively parses tokens[start:end) as inline content
// of container.
func emitInlineChildren(vctx *value.Context, container *value.Element, toks []token.Token, start, end int) {
	i := start
	sub := append([]token.Token{}, toks[start:end]...)
	sub = append(sub, token.Token{Type: token.EOF})
	j := 0
	for j < len(sub)-1 {
		j = parseInlineOne(vctx, container, sub, j)
	}
	_ = i
}

// findClosing scans forward from i for a token of typ at nesting depth 0
// (no nesting is tracked for same-type delimiters; the first match closes).
func findClosing(toks []token.Token, i int, typ token.Type) (int, bool) {
	for j := i; j < len(toks); j++ {
		if toks[j].Type == token.EOF {
			return 0, false
		}
		if toks[j].Type == typ {
			return j, true
		}
	}
	return 0, false
}

// mathNode builds a math_inline/math_block node. The verbatim "source" and
// "notation" attributes are what the format adapters round-trip from (spec
// §4.H's formatter never re-serializes a math tree, only the source text
// that produced it); the normalized mathexpr tree is additionally parsed
// and attached as the node's one child, so a document parse exercises the
// same entry point a standalone math parse would (a markdown document with
// embedded math gets its math validated and normalized during the document
// parse, not just stored as opaque text). Math syntax errors are swallowed
// here rather than surfaced on the document's own diagnostics vector: a
// malformed inline formula is not a markup syntax error, and the source
// text that failed to normalize is still preserved losslessly either way.
func mathNode(vctx *value.Context, desc *value.ElementType, toks []token.Token, open, close int) *value.Element {
	var src strings.Builder
	for j := open + 1; j < close; j++ {
		// an ESCAPE token's Literal is only the escaped character; restore
		// its backslash so e.g. a matrix row separator "\\" survives.
		if toks[j].Type == token.ESCAPE {
			src.WriteByte('\\')
		}
		src.WriteString(toks[j].Literal)
	}
	node := value.NewElement(desc)
	setAttr(vctx, node, "source", src.String())
	setAttr(vctx, node, "notation", "latex")
	setPos(node, toks[open].Start, toks[close].End)
	if tree, _ := mathexpr.Parse(vctx, src.String(), mathexpr.LaTeX); tree != nil {
		node.Children.Push(value.NewElementItem(tree))
	}
	return node
}

// parseLinkOrImage parses "[text](href "title")" or "![alt](href)" starting
// at the LBRACKET token index i.
func parseLinkOrImage(vctx *value.Context, toks []token.Token, i int, isImage bool) (*value.Element, int, bool) {
	closeBracket, ok := findClosing(toks, i+1, token.RBRACKET)
	if !ok {
		return nil, i, false
	}
	if closeBracket+1 >= len(toks) || toks[closeBracket+1].Type != token.LPAREN {
		return nil, i, false
	}
	closeParen, ok := findClosing(toks, closeBracket+2, token.RPAREN)
	if !ok {
		return nil, i, false
	}

	var inner strings.Builder
	for j := closeBracket + 2; j < closeParen; j++ {
		inner.WriteString(toks[j].Literal)
	}
	href, title := splitHrefTitle(inner.String())

	var desc *value.ElementType
	if isImage {
		desc = ImageType
	} else {
		desc = LinkType
	}
	node := value.NewElement(desc)
	setAttr(vctx, node, "href", href)
	if title != "" {
		setAttr(vctx, node, "title", title)
	}
	if isImage {
		var alt strings.Builder
		for j := i + 1; j < closeBracket; j++ {
			alt.WriteString(toks[j].Literal)
		}
		setAttr(vctx, node, "alt", alt.String())
	} else {
		emitInlineChildren(vctx, node, toks, i+1, closeBracket)
	}
	return node, closeParen, true
}

func splitHrefTitle(s string) (href, title string) {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		href = s[:idx]
		title = strings.Trim(strings.TrimSpace(s[idx+1:]), `"'`)
		return href, title
	}
	return s, ""
}

func looksLikeAutolink(s string) bool {
	return strings.Contains(s, "://") || strings.Contains(s, "@")
}

func scanEntity(toks []token.Token, i int) (name string, end int, ok bool) {
	if i >= len(toks) || toks[i].Type != token.TEXT {
		return "", 0, false
	}
	text := toks[i].Literal
	semi := strings.IndexByte(text, ';')
	if semi < 0 {
		return "", 0, false
	}
	return text[:semi], i, true
}
