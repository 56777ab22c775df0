package parser

import (
	"github.com/lambdalang/lambda/markup/lexer"
	"github.com/lambdalang/lambda/value"
)

// blockFn is a pure function "(Lines, Cursor, Pool) → (Node, NewCursor) |
// NoMatch" (spec §4.E) parameterized over the owning Engine so a flavor's
// knobs (which header style, whether RST directives are active, ...) are
// visible without mutating any package-level state.
type blockFn func(e *Engine, vctx *value.Context, pctx *Context, lines []lexer.Line, cursor int) (*value.Element, int, bool)

// Engine holds one flavor's block/inline dispatch configuration. The
// common parsers (markup/parser) are shared; markup/adapter/* construct an
// Engine per flavor by turning knobs on/off. Where a flavor needs a
// genuinely different algorithm (RST's adornment headers vs markdown's ATX/
// setext), a knob selects it inside the shared blockFn of that dispatch
// slot; the block list itself is the same for every flavor.
type Engine struct {
	Flavor string

	ATXHeaders          bool
	SetextHeaders       bool
	RSTAdornmentHeaders bool
	RSTDirectives       bool
	BlockquoteMarker    byte // 0 disables
	FenceChars          []byte

	blocks []blockFn
}

// DefaultEngine returns the markdown-shaped configuration; it is also the
// baseline every adapter starts from and overrides.
func DefaultEngine(flavor string) *Engine {
	e := &Engine{
		Flavor:           flavor,
		ATXHeaders:       true,
		SetextHeaders:    true,
		BlockquoteMarker: '>',
		FenceChars:       []byte{'`', '~'},
	}
	e.blocks = []blockFn{
		fencedCodeBlock,
		directiveBlock,
		headerBlock,
		hrBlock,
		blockquoteBlock,
		listBlock,
		tableBlock,
		paragraphBlock, // fallback: always matches
	}
	return e
}
