// Package wiki registers the MediaWiki-style format adapter (spec §4.F):
// like textile, it reuses the common block/inline engine unmodified and
// differs only in its emission table ("== heading ==", ''em'', '''strong'''
// in place of markdown's syntax).
package wiki

import (
	"strconv"
	"strings"

	"github.com/lambdalang/lambda/markup/adapter"
	"github.com/lambdalang/lambda/markup/parser"
	"github.com/lambdalang/lambda/value"
)

func init() {
	adapter.Register(&adapter.Adapter{
		Flavor:     "wiki",
		Extensions: []string{".wiki"},
		Engine:     parser.DefaultEngine("wiki"),
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
		eq := strings.Repeat("=", level+1)
		w.WriteString(eq)
		w.WriteByte(' ')
		emitChildren(w, e, emit)
		w.WriteByte(' ')
		w.WriteString(eq)
		w.WriteByte('\n')
	},
	"paragraph": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		emitChildren(w, e, emit)
		w.WriteString("\n")
	},
	"text": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString(attr(e, "text"))
	},
	"emphasis": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("''")
		emitChildren(w, e, emit)
		w.WriteString("''")
	},
	"strong": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("'''")
		emitChildren(w, e, emit)
		w.WriteString("'''")
	},
	"strike": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("<s>")
		emitChildren(w, e, emit)
		w.WriteString("</s>")
	},
	"code_span": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("<code>")
		w.WriteString(attr(e, "text"))
		w.WriteString("</code>")
	},
	"code_block": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("<pre>\n")
		w.WriteString(attr(e, "text"))
		w.WriteString("</pre>\n")
	},
	"math_inline": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("<math>")
		w.WriteString(attr(e, "source"))
		w.WriteString("</math>")
	},
	"math_block": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("<math display=\"block\">")
		w.WriteString(attr(e, "source"))
		w.WriteString("</math>\n")
	},
	"link": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("[[")
		w.WriteString(attr(e, "href"))
		w.WriteByte('|')
		emitChildren(w, e, emit)
		w.WriteString("]]")
	},
	"image": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("[[File:")
		w.WriteString(attr(e, "href"))
		if alt := attr(e, "alt"); alt != "" {
			w.WriteByte('|')
			w.WriteString(alt)
		}
		w.WriteString("]]")
	},
	"autolink": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('[')
		w.WriteString(attr(e, "href"))
		w.WriteByte(']')
	},
	"entity": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('&')
		w.WriteString(attr(e, "name"))
		w.WriteByte(';')
	},
	"hr": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("----\n")
	},
	"blockquote": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		var inner strings.Builder
		emitChildren(&inner, e, emit)
		w.WriteString("<blockquote>\n")
		w.WriteString(inner.String())
		w.WriteString("</blockquote>\n")
	},
	"list": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		emitChildren(w, e, emit)
	},
	"list_item": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("* ")
		emitChildren(w, e, emit)
		w.WriteByte('\n')
	},
	"table": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("{|\n")
		for i := 0; i < e.Children.Len(); i++ {
			row, err := value.AsElement(e.Children.Get(i))
			if err != nil {
				continue
			}
			w.WriteString("|-\n")
			for j := 0; j < row.Children.Len(); j++ {
				cell, err := value.AsElement(row.Children.Get(j))
				if err != nil {
					continue
				}
				w.WriteString("| ")
				emitChildren(w, cell, emit)
				w.WriteByte('\n')
			}
		}
		w.WriteString("|}\n")
	},
	"directive": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("{{")
		w.WriteString(attr(e, "name"))
		w.WriteByte('|')
		w.WriteString(attr(e, "text"))
		w.WriteString("}}\n")
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
