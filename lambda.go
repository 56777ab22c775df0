// Package lambda is the root facade over Lambda's document-processing
// core: the tagged Item/Element value model (value), the markup parsing
// pipeline and its per-flavor adapters (markup/parser, markup/adapter),
// inline math (mathexpr), the round-trip formatter (format), the view-tree
// bridge (viewtree), and the URL/Path/Target abstractions (url, lpath).
//
// Example usage:
//
//	vctx := lambda.NewContext()
//	defer vctx.Close()
//	root, diags := lambda.Parse(vctx, "# Title\n\n$a^2 + b^2 = c^2$\n")
//	if diags.HasErrors() {
//	    // handle diagnostics
//	}
//	out, _ := lambda.Format(vctx, root, "markdown")
//	tree := lambda.ToViewTree(root, lambda.Options{})
package lambda

import (
	"github.com/google/uuid"

	"github.com/lambdalang/lambda/diag"
	"github.com/lambdalang/lambda/format"
	"github.com/lambdalang/lambda/lpath"
	"github.com/lambdalang/lambda/markup/adapter"
	_ "github.com/lambdalang/lambda/markup/adapter/markdown"
	_ "github.com/lambdalang/lambda/markup/adapter/rst"
	_ "github.com/lambdalang/lambda/markup/adapter/textile"
	_ "github.com/lambdalang/lambda/markup/adapter/wiki"
	"github.com/lambdalang/lambda/markup/parser"
	"github.com/lambdalang/lambda/mathexpr"
	"github.com/lambdalang/lambda/url"
	"github.com/lambdalang/lambda/value"
	"github.com/lambdalang/lambda/viewtree"
)

// Parse parses source text with the markdown-flavored adapter (spec §4.A's
// default) and returns the document root Element plus any diagnostics. It
// goes through the markdown adapter rather than the bare parser.Parse so
// adapter-level preprocessing (YAML front matter) actually runs.
func Parse(vctx *value.Context, src string) (*value.Element, *diag.Diagnostics) {
	return ParseFlavor(vctx, src, "markdown")
}

// ParseFlavor parses source text with an explicitly named, registered
// markup flavor ("markdown", "rst", "wiki", "textile", ...), going through
// that flavor's adapter.Parse (not the bare engine) so any adapter-level
// preprocessing runs. Falls back to the unregistered engine only if the
// flavor has no adapter.
func ParseFlavor(vctx *value.Context, src, flavor string) (*value.Element, *diag.Diagnostics) {
	if a, ok := adapter.Lookup(flavor); ok {
		return a.Parse(vctx, src)
	}
	return parser.DefaultEngine(flavor).Parse(vctx, src)
}

// ParseMath parses a standalone math expression in the given notation
// (LaTeX, AsciiMath or Typst) into its normalized tree (spec §4.G).
func ParseMath(vctx *value.Context, src string, notation Notation) (*value.Element, *diag.Diagnostics) {
	return mathexpr.Parse(vctx, src, notation)
}

// Format renders an Element tree back to text (spec §4.H). flavor "json"
// selects the lossless debug dialect; anything else dispatches to the
// matching markup/adapter.
func Format(vctx *value.Context, root *value.Element, flavor string) (string, *diag.Diagnostics) {
	return format.Format(vctx, root, flavor)
}

// ToViewTree converts a parsed document into the layout-facing view tree
// of spec §4.I.
func ToViewTree(root *value.Element, options Options) Node {
	return viewtree.ToViewTree(root, options)
}

// NewContext allocates a fresh value heap/pool pair. Callers must Close it
// when done.
func NewContext() *value.Context { return value.NewContext() }

// NewTraceID mints a trace identifier, the way parser.Parse does
// internally for its own Diagnostics.
func NewTraceID() uuid.UUID { return parser.NewTraceID() }

// ParseURL parses an absolute or base-relative URL string (spec §4.C).
func ParseURL(input string, base *Url) (*Url, error) { return url.Parse(input, base) }

// ResolveURL resolves relative against base, identical to ParseURL with a
// non-nil base (spec §4.C's url_resolve).
func ResolveURL(relative string, base *Url) (*Url, error) { return url.Resolve(relative, base) }

// SerializeURL renders u back to its href string. Url.Href already does
// this (lazily, cached); Serialize is the spec-named alias (spec §6).
func SerializeURL(u *Url) string { return u.Href() }

// RootPath returns the scheme root for one of Lambda's six static path
// schemes (spec §3.5, §4.D).
func RootPath(scheme lpath.Scheme) *Path { return lpath.Root(scheme) }

// AppendPath appends a named segment to parent, copying into a fresh Path
// node (spec §4.D path_append).
func AppendPath(parent *Path, segment string) *Path { return lpath.Append(parent, segment) }

// TargetFromPath, TargetFromURL and TargetFromString build a Target
// (spec §3.6's Path/Url union) over each respective source form.
func TargetFromPath(p *Path) *Target { return lpath.FromPath(p) }
func TargetFromURL(u *Url) *Target   { return lpath.FromURL(u) }
func TargetFromString(s string) (*Target, error) { return lpath.Parse(s) }

// TargetFromItem builds a Target from a tagged value.Item — spec §6's
// Target::from_item — accepting a PATH item, a URLT item, or a STRING/
// SYMBOL item holding an absolute URL string. A STRING/SYMBOL item holding
// a Lambda path string is rejected, as lpath.Parse rejects it.
func TargetFromItem(it value.Item) (*Target, error) { return lpath.FromItem(it) }

// Re-export the value model's tagged-Item surface for convenience (spec
// §3.1-§3.2).
type (
	Item    = value.Item
	TypeId  = value.TypeId
	Context = value.Context
)

// Element/document tree types (spec §3.3, §4.B).
type (
	Element     = value.Element
	ElementType = value.ElementType
)

// Diagnostics (spec §4.E).
type (
	Diagnostics  = diag.Diagnostics
	DiagError    = diag.Error
	DiagKind     = diag.Kind
	DiagPosition = diag.Position
)

// Markup adapter registry (spec §4.A/§4.H per-flavor emission tables).
type Adapter = adapter.Adapter

// Math notations and roles (spec §4.G).
type Notation = mathexpr.Notation

const (
	LaTeX     = mathexpr.LaTeX
	ASCIIMath = mathexpr.ASCIIMath
	Typst     = mathexpr.Typst
)

// URL types (spec §3.4, §4.C).
type (
	Url       = url.Url
	UrlScheme = url.Scheme
)

// Path/Target types (spec §3.5-§3.6, §4.D).
type (
	Path        = lpath.Path
	PathScheme  = lpath.Scheme
	SegmentType = lpath.SegmentType
	Target      = lpath.Target
	TargetKind  = lpath.TargetKind
)

// View-tree types (spec §4.I).
type (
	Node        = viewtree.Node
	Options     = viewtree.Options
	Block       = viewtree.Block
	Inline      = viewtree.Inline
	TextRun     = viewtree.TextRun
	MathElement = viewtree.MathElement
	Line        = viewtree.Line
	Group       = viewtree.Group
	Page        = viewtree.Page
	MathKind    = viewtree.MathKind
	Fraction    = viewtree.Fraction
	Script      = viewtree.Script
	Radical     = viewtree.Radical
	Operator    = viewtree.Operator
	Row         = viewtree.Row
	Matrix      = viewtree.Matrix
	Accent      = viewtree.Accent
	Atom        = viewtree.Atom
)
