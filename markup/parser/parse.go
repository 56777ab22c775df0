package parser

import (
	"github.com/google/uuid"

	"github.com/lambdalang/lambda/diag"
	"github.com/lambdalang/lambda/internal/obslog"
	"github.com/lambdalang/lambda/markup/lexer"
	"github.com/lambdalang/lambda/value"
)

// Parse runs e's block dispatcher over src to produce a document Element
// plus the diagnostics vector collected along the way (spec §4.E, §7: a
// parse always returns an AST, possibly partial, and a Diagnostics vector,
// never a panic).
func (e *Engine) Parse(vctx *value.Context, src string) (*value.Element, *diag.Diagnostics) {
	diags := diag.NewDiagnostics(vctx.TraceID)
	pctx := NewContext(diags)

	doc := value.NewElement(DocumentType)
	lines := lexer.Lines(src)
	e.parseBlocks(vctx, pctx, lines, doc)
	setPos(doc, 0, len(src))

	if pctx.Aborted() {
		obslog.L().Warnw("markup parse exhausted", "flavor", e.Flavor, "trace_id", vctx.TraceID)
	}
	return doc, diags
}

// Parse is the package-level convenience entry point using the default
// (markdown-shaped) engine, mirroring spec §6's "parse(bytes, flavor_hint?)
// → (Ast, Diagnostics)" when no flavor registry lookup is needed.
func Parse(vctx *value.Context, src string) (*value.Element, *diag.Diagnostics) {
	return DefaultEngine("markdown").Parse(vctx, src)
}

// NewTraceID is a small helper so callers that build their own Context
// outside value.NewContext can still get a correlation id consistent with
// the rest of the pipeline.
func NewTraceID() uuid.UUID { return uuid.New() }
