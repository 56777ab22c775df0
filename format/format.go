// Package format implements spec §4.H's round-trip formatter:
// format(ast, flavor) -> String, recursive-descent over the AST through a
// per-adapter emission table (markup/adapter), plus a JSON debug dialect
// that carries every Element node with its tag, string attributes and
// source positions. Attributes whose value is not a string (such as the
// markdown adapter's "meta" map) are not emitted in JSON.
package format

import (
	"encoding/json"

	"github.com/lambdalang/lambda/diag"
	"github.com/lambdalang/lambda/internal/obslog"
	"github.com/lambdalang/lambda/markup/adapter"
	"github.com/lambdalang/lambda/value"
)

// JSONFlavor selects the lossless debug dialect instead of a markup/adapter
// flavor.
const JSONFlavor = "json"

// jsonNode is the wire shape of the JSON debug dialect: field declaration
// order gives encoding/json the exact
// {"$":tag,"_":attrs,"children":[...],"pos":[start,end]} shape spec §4.H
// promises. Only string-valued attributes and Element children are
// emitted; any other attribute or child value is left out. encoding/json's
// default handling of control characters,
// including NUL, escapes rather than rejects, satisfying P10's "escapes or
// rejects it consistently" for every String this dialect serializes.
type jsonNode struct {
	Tag      string            `json:"$"`
	Attrs    map[string]string `json:"_,omitempty"`
	Children []*jsonNode       `json:"children,omitempty"`
	Pos      [2]int            `json:"pos"`
}

// Format implements format(ast, flavor) -> String. flavor "json" selects
// the lossless debug dialect; any other flavor dispatches to the matching
// markup/adapter.Adapter's emission table. Total over well-formed ASTs
// (spec §7): a nil root returns an empty string and an empty diagnostics
// vector, an unrecognized flavor returns an empty string plus an
// UnknownFlavor diagnostic; neither panics.
func Format(vctx *value.Context, root *value.Element, flavor string) (string, *diag.Diagnostics) {
	diags := diag.NewDiagnostics(vctx.TraceID)
	if root == nil {
		return "", diags
	}
	logShared(root)

	if flavor == JSONFlavor {
		out, err := json.Marshal(toJSONNode(root))
		if err != nil {
			diags.Add(diag.New(diag.TypeMismatch, "format: json encode failed: "+err.Error()))
			return "", diags
		}
		return string(out), diags
	}

	a, ok := adapter.Lookup(flavor)
	if !ok {
		diags.Add(diag.New(diag.UnknownFlavor, "format: unknown flavor "+flavor))
		return "", diags
	}
	return a.Render(vctx, root), diags
}

func toJSONNode(e *value.Element) *jsonNode {
	if e == nil || e.Desc == nil {
		return nil
	}
	n := &jsonNode{Tag: e.Desc.Tag, Pos: [2]int{e.StartByte, e.EndByte}}
	if keys := e.Attrs.Keys(); len(keys) > 0 {
		n.Attrs = make(map[string]string, len(keys))
		for _, k := range keys {
			s, err := value.AsString(e.Attrs.Get(k))
			if err != nil {
				continue
			}
			n.Attrs[k] = s.String()
		}
	}
	for i := 0; i < e.Children.Len(); i++ {
		child, err := value.AsElement(e.Children.Get(i))
		if err != nil {
			continue
		}
		n.Children = append(n.Children, toJSONNode(child))
	}
	return n
}

// logShared walks the tree once, logging a Debug hint for any node whose
// diagnostic ref count exceeds 1 (spec §3.3 ownership note). Format never
// mutates what it walks, so there is no actual copy-on-write to trigger
// here, but a shared node reaching the formatter is worth surfacing to an
// embedder that expected exclusive ownership before its next edit.
func logShared(e *value.Element) {
	if e == nil {
		return
	}
	if e.RefCnt > 1 {
		obslog.L().Debugw("format: rendering shared node",
			"tag", e.Desc.Tag, "ref_count", e.RefCnt, "start", e.StartByte, "end", e.EndByte)
	}
	for i := 0; i < e.Children.Len(); i++ {
		child, err := value.AsElement(e.Children.Get(i))
		if err != nil {
			continue
		}
		logShared(child)
	}
}
