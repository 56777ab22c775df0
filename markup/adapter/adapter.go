// Package adapter implements spec §4.F's format adapters: per-flavor
// records of block/inline parser overrides, a directive/role table, and an
// emission table (the reverse direction, driven by the format package).
package adapter

import (
	"strings"

	"github.com/lambdalang/lambda/diag"
	"github.com/lambdalang/lambda/markup/parser"
	"github.com/lambdalang/lambda/value"
)

// Emitter recurses into a child node, writing into whichever builder the
// caller passes — not necessarily the top-level output buffer. An emission
// rule that needs to render a subtree in isolation (e.g. blockquote
// indenting its rendered body, a table cell measuring its own width before
// padding) builds a scratch builder and calls Emitter(&scratch, child).
type Emitter func(w *strings.Builder, e *value.Element)

// EmitFunc renders one node's own markup; call emit(w, child) to recurse
// into children using the same adapter.
type EmitFunc func(w *strings.Builder, vctx *value.Context, e *value.Element, emit Emitter)

// Adapter is one registered flavor (spec §4.F).
type Adapter struct {
	Flavor     string
	Extensions []string
	Engine     *parser.Engine
	Emit       map[string]EmitFunc // keyed by ElementType.Tag

	// PreParse, if set, runs before the engine sees src and may strip a
	// leading metadata block off it (e.g. the markdown adapter's YAML front
	// matter): it returns the body text the engine should actually parse,
	// plus a function that attaches whatever it extracted onto the parsed
	// root once Parse has one. attach may be nil.
	PreParse func(vctx *value.Context, src string) (body string, attach func(root *value.Element))
}

var registry = map[string]*Adapter{}

// Register adds a (or replaces an existing) adapter by flavor name.
func Register(a *Adapter) { registry[a.Flavor] = a }

// Lookup finds a registered adapter by flavor name.
func Lookup(flavor string) (*Adapter, bool) {
	a, ok := registry[flavor]
	return a, ok
}

// ForExtension finds the adapter claiming a given file extension (e.g.
// ".md"), used by the flavor-detection step spec §4.E describes ("detect
// flavor from filename extension or MIME hint").
func ForExtension(ext string) (*Adapter, bool) {
	for _, a := range registry {
		for _, e := range a.Extensions {
			if e == ext {
				return a, true
			}
		}
	}
	return nil, false
}

// Parse runs a's engine and returns the AST plus diagnostics (spec §4.E,
// §4.F: "the dispatcher in §4.E queries the active adapter before falling
// back to the common parsers"). When PreParse is set, it runs first so a
// flavor-specific leading block (markdown's YAML front matter) is stripped
// before the engine ever sees the source, and its attach callback runs on
// the resulting root afterward.
func (a *Adapter) Parse(vctx *value.Context, src string) (*value.Element, *diag.Diagnostics) {
	var attach func(root *value.Element)
	if a.PreParse != nil {
		src, attach = a.PreParse(vctx, src)
	}
	root, diags := a.Engine.Parse(vctx, src)
	if attach != nil && root != nil {
		attach(root)
	}
	return root, diags
}

// emitNode renders one node using a's emission table, falling back to
// concatenating rendered children with no decoration if the tag has no
// override — this keeps Format total over any AST, even one built by a
// different adapter (spec §4.H: "format... total over well-formed ASTs").
func (a *Adapter) emitNode(w *strings.Builder, vctx *value.Context, e *value.Element, emit Emitter) {
	if e.Desc == nil {
		return
	}
	if fn, ok := a.Emit[e.Desc.Tag]; ok {
		fn(w, vctx, e, emit)
		return
	}
	for i := 0; i < e.Children.Len(); i++ {
		if child, err := value.AsElement(e.Children.Get(i)); err == nil {
			emit(w, child)
		}
	}
}

// Render formats root as a's flavor, returning the full string. This is the
// one entry point format.Format delegates to.
func (a *Adapter) Render(vctx *value.Context, root *value.Element) string {
	var emit Emitter
	emit = func(w *strings.Builder, e *value.Element) { a.emitNode(w, vctx, e, emit) }
	var out strings.Builder
	emit(&out, root)
	return out.String()
}
