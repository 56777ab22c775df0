// Package markdown registers the markdown format adapter (spec §4.F):
// the default block/inline engine plus an emission table that reverses it,
// and a YAML front-matter reader — a feature the distilled spec leaves out
// but every markdown toolchain in the reference corpus carries, so it is
// folded in here as a supplemented feature (see SPEC_FULL.md).
package markdown

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mattn/go-runewidth"

	"github.com/lambdalang/lambda/markup/adapter"
	"github.com/lambdalang/lambda/markup/parser"
	"github.com/lambdalang/lambda/value"
)

func init() {
	adapter.Register(&adapter.Adapter{
		Flavor:     "markdown",
		Extensions: []string{".md", ".markdown"},
		Engine:     parser.DefaultEngine("markdown"),
		Emit:       emitTable,
		PreParse:   preParse,
	})
}

// preParse strips a leading YAML front-matter block (if any) before the
// engine sees the source, and returns the callback that stores the decoded
// map as the document root's "meta" attribute once Parse has a root to
// attach it to.
func preParse(vctx *value.Context, src string) (string, func(root *value.Element)) {
	meta, body, ok := FrontMatter(vctx, src)
	if !ok {
		return src, nil
	}
	return body, func(root *value.Element) {
		root.Attrs.Set("meta", value.NewMapItem(meta))
	}
}

// FrontMatter splits a leading "---\n...\n---\n" YAML block off src and
// decodes it into a value.Map; the remainder is the markdown body. Absence
// of front matter is not an error — ok is simply false.
func FrontMatter(vctx *value.Context, src string) (meta *value.Map, body string, ok bool) {
	if !strings.HasPrefix(src, "---\n") {
		return nil, src, false
	}
	end := strings.Index(src[4:], "\n---")
	if end < 0 {
		return nil, src, false
	}
	raw := src[4 : 4+end]
	rest := src[4+end+len("\n---"):]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	} else {
		rest = ""
	}

	var decoded map[string]any
	if err := yaml.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, src, false
	}
	m := value.NewMap()
	for k, v := range decoded {
		s, serr := vctx.Intern([]byte(toYAMLString(v)))
		if serr != nil {
			continue
		}
		m.Set(k, s)
	}
	return m, rest, true
}

func toYAMLString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		b, _ := yaml.Marshal(t)
		return strings.TrimSpace(string(b))
	}
}

func emitChildren(w *strings.Builder, e *value.Element, emit adapter.Emitter) {
	for i := 0; i < e.Children.Len(); i++ {
		if child, err := value.AsElement(e.Children.Get(i)); err == nil {
			emit(w, child)
		}
	}
}

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
		level, _ := strconv.Atoi(attr(e, "level"))
		if level < 1 {
			level = 1
		}
		w.WriteString(strings.Repeat("#", level))
		w.WriteByte(' ')
		emitChildren(w, e, emit)
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
		m := attr(e, "marker")
		if m == "" {
			m = "*"
		}
		w.WriteString(m)
		emitChildren(w, e, emit)
		w.WriteString(m)
	},
	"strong": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		m := attr(e, "marker")
		if m == "" {
			m = "**"
		}
		w.WriteString(m)
		emitChildren(w, e, emit)
		w.WriteString(m)
	},
	"strike": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("~~")
		emitChildren(w, e, emit)
		w.WriteString("~~")
	},
	"code_span": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('`')
		w.WriteString(attr(e, "text"))
		w.WriteByte('`')
	},
	"code_block": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		fence := attr(e, "fence")
		if fence == "" {
			fence = "`"
		}
		f := strings.Repeat(fence, 3)
		w.WriteString(f)
		w.WriteString(attr(e, "lang"))
		w.WriteByte('\n')
		w.WriteString(attr(e, "text"))
		w.WriteString(f)
		w.WriteByte('\n')
	},
	"math_inline": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('$')
		w.WriteString(attr(e, "source"))
		w.WriteByte('$')
	},
	"math_block": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("$$")
		w.WriteString(attr(e, "source"))
		w.WriteString("$$")
	},
	"link": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('[')
		emitChildren(w, e, emit)
		w.WriteString("](")
		w.WriteString(attr(e, "href"))
		if t := attr(e, "title"); t != "" {
			w.WriteString(` "`)
			w.WriteString(t)
			w.WriteByte('"')
		}
		w.WriteByte(')')
	},
	"image": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("![")
		w.WriteString(attr(e, "alt"))
		w.WriteString("](")
		w.WriteString(attr(e, "href"))
		w.WriteByte(')')
	},
	"autolink": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('<')
		w.WriteString(attr(e, "href"))
		w.WriteByte('>')
	},
	"entity": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('&')
		w.WriteString(attr(e, "name"))
		w.WriteByte(';')
	},
	"hr": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("---\n")
	},
	"blockquote": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		var inner strings.Builder
		emitChildren(&inner, e, emit)
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			w.WriteString("> ")
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
		for ri, row := range rows {
			w.WriteString("|")
			for ci, c := range row {
				w.WriteByte(' ')
				w.WriteString(padTo(c, widths[ci]))
				w.WriteString(" |")
			}
			w.WriteByte('\n')
			if ri == 0 {
				w.WriteString("|")
				for range row {
					w.WriteString(" --- |")
				}
				w.WriteByte('\n')
			}
		}
	},
	"directive": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		// Markdown has no native directive syntax; fall back to a fenced
		// block so the construct still round-trips as a recognizable unit.
		w.WriteString("```directive:")
		w.WriteString(attr(e, "name"))
		w.WriteByte('\n')
		w.WriteString(attr(e, "text"))
		w.WriteString("\n```\n")
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

// columnWidths uses go-runewidth to size columns by display width rather
// than byte length, so wide (e.g. CJK) cell content still aligns.
func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, c := range row {
			w := runewidth.StringWidth(c)
			for len(widths) <= i {
				widths = append(widths, 0)
			}
			if w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func padTo(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-runewidth.StringWidth(s)))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
