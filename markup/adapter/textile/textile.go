// Package textile registers the Textile format adapter (spec §4.F): this
// flavor needs no block/inline dispatch changes from the common engine —
// only its emission table differs (h1./bq./@.../_..._ syntax in place of
// markdown's #/>/`.../*...*).
package textile

import (
	"strconv"
	"strings"

	"github.com/lambdalang/lambda/markup/adapter"
	"github.com/lambdalang/lambda/markup/parser"
	"github.com/lambdalang/lambda/value"
)

func init() {
	adapter.Register(&adapter.Adapter{
		Flavor:     "textile",
		Extensions: []string{".textile"},
		Engine:     parser.DefaultEngine("textile"),
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
		w.WriteString("h")
		w.WriteString(strconv.Itoa(level))
		w.WriteString(". ")
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
		w.WriteByte('_')
		emitChildren(w, e, emit)
		w.WriteByte('_')
	},
	"strong": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('*')
		emitChildren(w, e, emit)
		w.WriteByte('*')
	},
	"strike": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('-')
		emitChildren(w, e, emit)
		w.WriteByte('-')
	},
	"code_span": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('@')
		w.WriteString(attr(e, "text"))
		w.WriteByte('@')
	},
	"code_block": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("bc. ")
		w.WriteString(attr(e, "text"))
		w.WriteByte('\n')
	},
	"math_inline": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('$')
		w.WriteString(attr(e, "source"))
		w.WriteByte('$')
	},
	"math_block": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("bc. $$")
		w.WriteString(attr(e, "source"))
		w.WriteString("$$\n")
	},
	"link": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('"')
		emitChildren(w, e, emit)
		w.WriteString(`":`)
		w.WriteString(attr(e, "href"))
	},
	"image": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteByte('!')
		w.WriteString(attr(e, "href"))
		if alt := attr(e, "alt"); alt != "" {
			w.WriteByte('(')
			w.WriteString(alt)
			w.WriteByte(')')
		}
		w.WriteByte('!')
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
		w.WriteString("---\n")
	},
	"blockquote": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		var inner strings.Builder
		emitChildren(&inner, e, emit)
		w.WriteString("bq. ")
		w.WriteString(strings.TrimRight(inner.String(), "\n"))
		w.WriteByte('\n')
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
		for i := 0; i < e.Children.Len(); i++ {
			row, err := value.AsElement(e.Children.Get(i))
			if err != nil {
				continue
			}
			w.WriteByte('|')
			for j := 0; j < row.Children.Len(); j++ {
				cell, err := value.AsElement(row.Children.Get(j))
				if err != nil {
					continue
				}
				emitChildren(w, cell, emit)
				w.WriteByte('|')
			}
			w.WriteByte('\n')
		}
	},
	"directive": func(w *strings.Builder, vctx *value.Context, e *value.Element, emit adapter.Emitter) {
		w.WriteString("bc. ")
		w.WriteString(attr(e, "name"))
		w.WriteString(": ")
		w.WriteString(attr(e, "text"))
		w.WriteByte('\n')
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
