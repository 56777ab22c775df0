// Package rst registers the reStructuredText format adapter (spec §4.F):
// adornment-line headers and ".. name:: arg" directives in place of
// markdown's ATX/setext headers, reusing the common block/inline dispatcher
// with those knobs flipped.
package rst

import (
	"strconv"
	"strings"

	"github.com/lambdalang/lambda/markup/adapter"
	"github.com/lambdalang/lambda/markup/parser"
	"github.com/lambdalang/lambda/value"
)

func init() {
	e := parser.DefaultEngine("rst")
	e.ATXHeaders = false
	e.SetextHeaders = false
	e.RSTAdornmentHeaders = true
	e.RSTDirectives = true

	adapter.Register(&adapter.Adapter{
		Flavor:     "rst",
		Extensions: []string{".rst"},
		Engine:     e,
		Emit:       emitTable,
	})
}

func emitChildren(w *strings.Builder, e *value.Element, emit adapter.Emitter) {
	for i := 0; i < e.Children.Len(); i++ {
		if child, err := value.AsElement(e.Children.Get(i)); err == nil {
			emit(w, child)
		}
	}
}

// adornments mirrors the convention docutils itself recommends (though it
// does not mandate one): '=' for the top level, descending through a fixed
// sequence for nested levels.
var adornments = []byte{'=', '-', '~', '"'}

var emitTable = map[string]adapter.EmitFunc{
	"document": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		for i := 0; i < e.Children.Len(); i++ {
			if child, err := value.AsElement(e.Children.Get(i)); err == nil {
				emit(w, child)
				w.WriteString("\n")
			}
		}
	},
	"heading": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		var text strings.Builder
		emitChildren(&text, e, emit)
		title := text.String()
		w.WriteString(title)
		w.WriteByte('\n')
		level, _ := strconv.Atoi(attr(e, "level"))
		if level < 1 || level > len(adornments) {
			level = 1
		}
		w.WriteString(strings.Repeat(string(adornments[level-1]), runeLen(title)))
		w.WriteByte('\n')
	},
	"paragraph": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		emitChildren(w, e, emit)
		w.WriteByte('\n')
	},
	"text": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString(attr(e, "text"))
	},
	"emphasis": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('*')
		emitChildren(w, e, emit)
		w.WriteByte('*')
	},
	"strong": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("**")
		emitChildren(w, e, emit)
		w.WriteString("**")
	},
	"strike": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		// RST has no native strikethrough role; use the closest standard
		// inline role so the construct still survives a round trip.
		w.WriteString(":strike:`")
		emitChildren(w, e, emit)
		w.WriteByte('`')
	},
	"code_span": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("``")
		w.WriteString(attr(e, "text"))
		w.WriteString("``")
	},
	"code_block": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("::\n\n")
		for _, line := range strings.Split(strings.TrimRight(attr(e, "text"), "\n"), "\n") {
			w.WriteString("   ")
			w.WriteString(line)
			w.WriteByte('\n')
		}
	},
	"math_inline": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString(":math:`")
		w.WriteString(attr(e, "source"))
		w.WriteByte('`')
	},
	"math_block": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString(".. math::\n\n   ")
		w.WriteString(attr(e, "source"))
		w.WriteByte('\n')
	},
	"link": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('`')
		emitChildren(w, e, emit)
		w.WriteString(" <")
		w.WriteString(attr(e, "href"))
		w.WriteString(">`_")
	},
	"image": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString(".. image:: ")
		w.WriteString(attr(e, "href"))
		w.WriteByte('\n')
		if alt := attr(e, "alt"); alt != "" {
			w.WriteString("   :alt: ")
			w.WriteString(alt)
			w.WriteByte('\n')
		}
	},
	"autolink": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString(attr(e, "href"))
	},
	"entity": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('&')
		w.WriteString(attr(e, "name"))
		w.WriteByte(';')
	},
	"hr": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString(strings.Repeat("-", 4))
		w.WriteByte('\n')
	},
	"blockquote": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		var inner strings.Builder
		emitChildren(&inner, e, emit)
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			w.WriteString("   ")
			w.WriteString(line)
			w.WriteByte('\n')
		}
	},
	"list": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		emitChildren(w, e, emit)
	},
	"list_item": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		m := attr(e, "marker")
		if m == "" {
			m = "-"
		}
		w.WriteString(m)
		w.WriteByte(' ')
		emitChildren(w, e, emit)
		w.WriteByte('\n')
	},
	"table": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		rows := make([][]string, 0, e.Children.Len())
		for i := 0; i < e.Children.Len(); i++ {
			row, err := value.AsElement(e.Children.Get(i))
			if err != nil {
				continue
			}
			var cells []string
			for j := 0; j < row.Children.Len(); j++ {
				cell, err := value.AsElement(row.Children.Get(j))
				if err != nil {
					continue
				}
				var b strings.Builder
				emitChildren(&b, cell, emit)
				cells = append(cells, b.String())
			}
			rows = append(rows, cells)
		}
		widths := columnWidths(rows)
		rule := gridRule(widths)
		w.WriteString(rule)
		for ri, row := range rows {
			w.WriteString("|")
			for ci, c := range row {
				w.WriteByte(' ')
				w.WriteString(padTo(c, widths[ci]))
				w.WriteString(" |")
			}
			w.WriteByte('\n')
			w.WriteString(rule)
			_ = ri
		}
	},
	"directive": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString(".. ")
		w.WriteString(attr(e, "name"))
		w.WriteString("::")
		if arg := attr(e, "arg"); arg != "" {
			w.WriteByte(' ')
			w.WriteString(arg)
		}
		w.WriteByte('\n')
		for _, line := range strings.Split(strings.TrimRight(attr(e, "text"), "\n"), "\n") {
			w.WriteString("   ")
			w.WriteString(line)
			w.WriteByte('\n')
		}
	},
}

func attr(e *value.Element, key string) string {
	it := e.Attrs.Get(key)
	s, err := value.AsString(it)
	if err != nil {
		return ""
	}
	return s.String()
}

func runeLen(s string) int { return len([]rune(s)) }

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, c := range row {
			for len(widths) <= i {
				widths = append(widths, 0)
			}
			if runeLen(c) > widths[i] {
				widths[i] = runeLen(c)
			}
		}
	}
	return widths
}

func padTo(s string, width int) string {
	n := width - runeLen(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

func gridRule(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}
