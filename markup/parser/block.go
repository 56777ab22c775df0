package parser

import (
	"strconv"
	"strings"

	"github.com/lambdalang/lambda/markup/lexer"
	"github.com/lambdalang/lambda/value"
)

// fencedCodeBlock matches ``` / ~~~ fences (spec §4.E block parser 1).
func fencedCodeBlock(e *Engine, vctx *value.Context, pctx *Context, lines []lexer.Line, cursor int) (*value.Element, int, bool) {
	if cursor >= len(lines) {
		return nil, cursor, false
	}
	line := strings.TrimLeft(lines[cursor].Text, " ")
	if len(line) < 3 {
		return nil, cursor, false
	}
	var fenceChar byte
	for _, c := range e.FenceChars {
		if line[0] == c {
			fenceChar = c
			break
		}
	}
	if fenceChar == 0 {
		return nil, cursor, false
	}
	n := 0
	for n < len(line) && line[n] == fenceChar {
		n++
	}
	if n < 3 {
		return nil, cursor, false
	}
	lang := strings.TrimSpace(line[n:])

	node := value.NewElement(CodeBlockType)
	setAttr(vctx, node, "lang", lang)
	setAttr(vctx, node, "fence", string(fenceChar))
	start := lines[cursor].Start
	i := cursor + 1
	var body strings.Builder
	closed := false
	for ; i < len(lines); i++ {
		if !pctx.Tick() {
			break
		}
		trimmed := strings.TrimLeft(lines[i].Text, " ")
		if strings.HasPrefix(trimmed, strings.Repeat(string(fenceChar), n)) {
			closed = true
			i++
			break
		}
		body.WriteString(lines[i].Text)
		body.WriteByte('\n')
	}
	_ = closed // an unterminated fence still closes at EOF, matching embedders that stream partial docs
	setAttr(vctx, node, "text", body.String())
	end := start
	if i > 0 && i-1 < len(lines) {
		end = lines[i-1].End
	}
	setPos(node, start, end)
	return node, i, true
}

// directiveBlock matches RST-style ".. name:: arg" directives with a
// three-space-indented body (spec §4.E block parser 2).
func directiveBlock(e *Engine, vctx *value.Context, pctx *Context, lines []lexer.Line, cursor int) (*value.Element, int, bool) {
	if !e.RSTDirectives || cursor >= len(lines) {
		return nil, cursor, false
	}
	line := lines[cursor].Text
	if !strings.HasPrefix(line, ".. ") {
		return nil, cursor, false
	}
	rest := line[3:]
	sep := strings.Index(rest, "::")
	if sep < 0 {
		return nil, cursor, false
	}
	name := strings.TrimSpace(rest[:sep])
	arg := strings.TrimSpace(rest[sep+2:])

	node := value.NewElement(DirectiveType)
	setAttr(vctx, node, "name", name)
	setAttr(vctx, node, "arg", arg)

	start := lines[cursor].Start
	i := cursor + 1
	var body []string
	for ; i < len(lines); i++ {
		if !pctx.Tick() {
			break
		}
		if lines[i].IsBlank() {
			body = append(body, "")
			continue
		}
		if !strings.HasPrefix(lines[i].Text, "   ") {
			break
		}
		body = append(body, strings.TrimPrefix(lines[i].Text, "   "))
	}
	for len(body) > 0 && body[len(body)-1] == "" {
		body = body[:len(body)-1]
	}
	setAttr(vctx, node, "text", strings.Join(body, "\n"))
	end := start
	if i > 0 {
		end = lines[i-1].End
	}
	setPos(node, start, end)
	return node, i, true
}

// headerBlock matches ATX (`# ...`) and Setext (`===`/`---` underline)
// headers (spec §4.E block parser 3). RST's adornment-line headers use a
// different algorithm entirely and are only active when e.RSTAdornmentHeaders
// is set, in place of ATX/Setext.
func headerBlock(e *Engine, vctx *value.Context, pctx *Context, lines []lexer.Line, cursor int) (*value.Element, int, bool) {
	if cursor >= len(lines) {
		return nil, cursor, false
	}
	if e.RSTAdornmentHeaders {
		return rstAdornmentHeader(vctx, lines, cursor)
	}

	line := lines[cursor].Text
	if e.ATXHeaders {
		trimmed := strings.TrimLeft(line, " ")
		level := 0
		for level < len(trimmed) && level < 6 && trimmed[level] == '#' {
			level++
		}
		if level > 0 && (level == len(trimmed) || trimmed[level] == ' ') {
			text := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(trimmed[level:]), "#"))
			node := value.NewElement(HeadingType)
			setAttr(vctx, node, "level", strconv.Itoa(level))
			setAttr(vctx, node, "style", "atx")
			pushText(vctx, node, text, lines[cursor].Start, lines[cursor].End)
			setPos(node, lines[cursor].Start, lines[cursor].End)
			return node, cursor + 1, true
		}
	}

	if e.SetextHeaders && cursor+1 < len(lines) && !lines[cursor].IsBlank() {
		under := strings.TrimSpace(lines[cursor+1].Text)
		if len(under) > 0 && (allRune(under, '=') || allRune(under, '-')) {
			level := 2
			if allRune(under, '=') {
				level = 1
			}
			node := value.NewElement(HeadingType)
			setAttr(vctx, node, "level", strconv.Itoa(level))
			setAttr(vctx, node, "style", "setext")
			pushText(vctx, node, strings.TrimSpace(lines[cursor].Text), lines[cursor].Start, lines[cursor].End)
			setPos(node, lines[cursor].Start, lines[cursor+1].End)
			return node, cursor + 2, true
		}
	}
	return nil, cursor, false
}

func rstAdornmentHeader(vctx *value.Context, lines []lexer.Line, cursor int) (*value.Element, int, bool) {
	if cursor+1 >= len(lines) || lines[cursor].IsBlank() {
		return nil, cursor, false
	}
	under := strings.TrimSpace(lines[cursor+1].Text)
	if len(under) == 0 || !isAdornmentChar(under[0]) || !allRune(under, rune(under[0])) {
		return nil, cursor, false
	}
	node := value.NewElement(HeadingType)
	setAttr(vctx, node, "level", "1")
	setAttr(vctx, node, "style", string(under[0]))
	pushText(vctx, node, strings.TrimSpace(lines[cursor].Text), lines[cursor].Start, lines[cursor].End)
	setPos(node, lines[cursor].Start, lines[cursor+1].End)
	return node, cursor + 2, true
}

func isAdornmentChar(c byte) bool {
	return strings.IndexByte("=-~^\"'`#*+.:_", c) >= 0
}

func allRune(s string, r rune) bool {
	for _, c := range s {
		if c != r {
			return false
		}
	}
	return true
}

// hrBlock matches a thematic break: three or more of `-`, `*` or `_`, with
// only whitespace between them (spec §4.E block parser 4).
func hrBlock(e *Engine, vctx *value.Context, pctx *Context, lines []lexer.Line, cursor int) (*value.Element, int, bool) {
	if cursor >= len(lines) {
		return nil, cursor, false
	}
	line := strings.ReplaceAll(strings.TrimSpace(lines[cursor].Text), " ", "")
	if len(line) < 3 {
		return nil, cursor, false
	}
	for _, c := range []byte{'-', '*', '_'} {
		if allRune(line, rune(c)) {
			node := setPos(value.NewElement(HRType), lines[cursor].Start, lines[cursor].End)
			return node, cursor + 1, true
		}
	}
	return nil, cursor, false
}

// blockquoteBlock collects consecutive lines led by the quote marker,
// recursing into the block dispatcher over the dequoted text (spec §4.E
// block parser 5).
func blockquoteBlock(e *Engine, vctx *value.Context, pctx *Context, lines []lexer.Line, cursor int) (*value.Element, int, bool) {
	if e.BlockquoteMarker == 0 || cursor >= len(lines) {
		return nil, cursor, false
	}
	marker := string(e.BlockquoteMarker)
	if !strings.HasPrefix(strings.TrimLeft(lines[cursor].Text, " "), marker) {
		return nil, cursor, false
	}
	if !pctx.Enter() {
		return nil, cursor, false
	}
	defer pctx.Leave()

	var inner []lexer.Line
	i := cursor
	for ; i < len(lines); i++ {
		if !pctx.Tick() {
			break
		}
		t := strings.TrimLeft(lines[i].Text, " ")
		if !strings.HasPrefix(t, marker) {
			break
		}
		text := strings.TrimPrefix(strings.TrimPrefix(t, marker), " ")
		inner = append(inner, lexer.Line{Text: text, Start: lines[i].Start, End: lines[i].End})
	}
	node := value.NewElement(BlockquoteType)
	e.parseBlocks(vctx, pctx, inner, node)
	start, end := lines[cursor].Start, lines[cursor].End
	if i > cursor {
		end = lines[i-1].End
	}
	setPos(node, start, end)
	return node, i, true
}

// listBlock matches ordered/unordered list items (spec §4.E block parser
// 6), recording each item's literal marker for round-tripping (spec §4.E
// invariant: "list markers record their index literal").
func listBlock(e *Engine, vctx *value.Context, pctx *Context, lines []lexer.Line, cursor int) (*value.Element, int, bool) {
	if cursor >= len(lines) {
		return nil, cursor, false
	}
	marker, ordered, ok := listMarker(lines[cursor].Text)
	if !ok {
		return nil, cursor, false
	}
	if !pctx.Enter() {
		return nil, cursor, false
	}
	defer pctx.Leave()

	node := value.NewElement(ListType)
	if ordered {
		setAttr(vctx, node, "ordered", "true")
	} else {
		setAttr(vctx, node, "ordered", "false")
	}
	start := lines[cursor].Start
	i := cursor
	for i < len(lines) {
		if !pctx.Tick() {
			break
		}
		m, isOrdered, ok := listMarker(lines[i].Text)
		if !ok || isOrdered != ordered {
			break
		}
		item := value.NewElement(ListItemType)
		setAttr(vctx, item, "marker", m)
		text := strings.TrimPrefix(lines[i].Text, strings.Repeat(" ", leadingSpaces(lines[i].Text)))
		text = strings.TrimPrefix(text, m)
		text = strings.TrimPrefix(text, " ")
		itemStart, itemEnd := lines[i].Start, lines[i].End
		itemLine := lexer.Line{Text: text, Start: itemStart, End: itemEnd}
		parseInlineInto(vctx, item, itemLine)
		setPos(item, itemStart, itemEnd)
		node.Children.Push(value.NewElementItem(item))
		i++
	}
	setPos(node, start, lines[i-1].End)
	return node, i, true
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

// listMarker recognizes "-", "*", "+" (unordered) and "N." / "N)" (ordered).
func listMarker(line string) (marker string, ordered bool, ok bool) {
	t := strings.TrimLeft(line, " ")
	if leadingSpaces(line) > 3 {
		return "", false, false
	}
	if len(t) >= 2 && (t[0] == '-' || t[0] == '*' || t[0] == '+') && t[1] == ' ' {
		return t[:1], false, true
	}
	i := 0
	for i < len(t) && t[i] >= '0' && t[i] <= '9' {
		i++
	}
	if i > 0 && i < len(t) && (t[i] == '.' || t[i] == ')') && i+1 < len(t) && t[i+1] == ' ' {
		return t[:i+1], true, true
	}
	return "", false, false
}

// tableBlock matches pipe tables (`| a | b |`) and grid tables (`+---+`)
// (spec §4.E block parser 7).
func tableBlock(e *Engine, vctx *value.Context, pctx *Context, lines []lexer.Line, cursor int) (*value.Element, int, bool) {
	if cursor >= len(lines) {
		return nil, cursor, false
	}
	if strings.HasPrefix(strings.TrimSpace(lines[cursor].Text), "+") && isGridRule(lines[cursor].Text) {
		return gridTable(vctx, pctx, lines, cursor)
	}
	if strings.Contains(lines[cursor].Text, "|") {
		return pipeTable(vctx, pctx, lines, cursor)
	}
	return nil, cursor, false
}

func isGridRule(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 3 || s[0] != '+' {
		return false
	}
	for _, c := range s {
		if c != '+' && c != '-' && c != '=' {
			return false
		}
	}
	return true
}

func gridTable(vctx *value.Context, pctx *Context, lines []lexer.Line, cursor int) (*value.Element, int, bool) {
	node := value.NewElement(TableType)
	setAttr(vctx, node, "style", "grid")
	start := lines[cursor].Start
	i := cursor + 1
	headerDone := false
	for i < len(lines) && (isGridRule(lines[i].Text) || strings.Contains(lines[i].Text, "|")) {
		if !pctx.Tick() {
			break
		}
		if isGridRule(lines[i].Text) {
			if strings.Contains(lines[i].Text, "=") {
				headerDone = true
			}
			i++
			continue
		}
		cells := splitPipeCells(lines[i].Text)
		row := value.NewElement(TableRowType)
		for _, c := range cells {
			cell := value.NewElement(TableCellType)
			if !headerDone {
				setAttr(vctx, cell, "header", "true")
			}
			cellLine := lexer.Line{Text: strings.TrimSpace(c), Start: lines[i].Start, End: lines[i].End}
			parseInlineInto(vctx, cell, cellLine)
			row.Children.Push(value.NewElementItem(cell))
		}
		node.Children.Push(value.NewElementItem(row))
		i++
	}
	setPos(node, start, lines[i-1].End)
	return node, i, true
}

func pipeTable(vctx *value.Context, pctx *Context, lines []lexer.Line, cursor int) (*value.Element, int, bool) {
	if cursor+1 >= len(lines) || !isPipeSeparatorRow(lines[cursor+1].Text) {
		return nil, cursor, false
	}
	node := value.NewElement(TableType)
	setAttr(vctx, node, "style", "pipe")
	start := lines[cursor].Start

	headerCells := splitPipeCells(lines[cursor].Text)
	aligns := parseAlignRow(lines[cursor+1].Text)
	headerRow := value.NewElement(TableRowType)
	for ci, c := range headerCells {
		cell := value.NewElement(TableCellType)
		setAttr(vctx, cell, "header", "true")
		if ci < len(aligns) {
			setAttr(vctx, cell, "align", aligns[ci])
		}
		cellLine := lexer.Line{Text: strings.TrimSpace(c), Start: lines[cursor].Start, End: lines[cursor].End}
		parseInlineInto(vctx, cell, cellLine)
		headerRow.Children.Push(value.NewElementItem(cell))
	}
	node.Children.Push(value.NewElementItem(headerRow))

	i := cursor + 2
	for i < len(lines) && strings.Contains(lines[i].Text, "|") && !lines[i].IsBlank() {
		if !pctx.Tick() {
			break
		}
		row := value.NewElement(TableRowType)
		for ci, c := range splitPipeCells(lines[i].Text) {
			cell := value.NewElement(TableCellType)
			if ci < len(aligns) {
				setAttr(vctx, cell, "align", aligns[ci])
			}
			cellLine := lexer.Line{Text: strings.TrimSpace(c), Start: lines[i].Start, End: lines[i].End}
			parseInlineInto(vctx, cell, cellLine)
			row.Children.Push(value.NewElementItem(cell))
		}
		node.Children.Push(value.NewElementItem(row))
		i++
	}
	setPos(node, start, lines[i-1].End)
	return node, i, true
}

func isPipeSeparatorRow(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "-") {
		return false
	}
	for _, c := range splitPipeCells(s) {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		for _, r := range strings.Trim(c, ":") {
			if r != '-' {
				return false
			}
		}
	}
	return true
}

func parseAlignRow(s string) []string {
	var out []string
	for _, c := range splitPipeCells(s) {
		c = strings.TrimSpace(c)
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		switch {
		case left && right:
			out = append(out, "center")
		case right:
			out = append(out, "right")
		case left:
			out = append(out, "left")
		default:
			out = append(out, "")
		}
	}
	return out
}

func splitPipeCells(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimSuffix(s, "+")
	sep := "|"
	if strings.Contains(s, "+") && !strings.Contains(s, "|") {
		sep = "+"
	}
	parts := strings.Split(s, sep)
	out := make([]string, len(parts))
	copy(out, parts)
	return out
}

// paragraphBlock is the always-matching fallback: collect lines until a
// blank line or the start of another block (spec §4.E block parser 8).
func paragraphBlock(e *Engine, vctx *value.Context, pctx *Context, lines []lexer.Line, cursor int) (*value.Element, int, bool) {
	if cursor >= len(lines) {
		return nil, cursor, false
	}
	if lines[cursor].IsBlank() {
		return nil, cursor + 1, true // blank lines are consumed, producing no node
	}
	node := value.NewElement(ParagraphType)
	start := lines[cursor].Start
	i := cursor
	var text strings.Builder
	for ; i < len(lines); i++ {
		if !pctx.Tick() {
			break
		}
		if lines[i].IsBlank() {
			break
		}
		if i > cursor {
			text.WriteByte('\n')
		}
		text.WriteString(lines[i].Text)
	}
	end := lines[i-1].End
	parseInlineInto(vctx, node, lexer.Line{Text: text.String(), Start: start, End: end})
	setPos(node, start, end)
	return node, i, true
}

// parseBlocks runs the dispatcher over lines to EOF, appending produced
// nodes as children of parent.
func (e *Engine) parseBlocks(vctx *value.Context, pctx *Context, lines []lexer.Line, parent *value.Element) {
	cursor := 0
	for cursor < len(lines) {
		if !pctx.Tick() {
			return
		}
		matched := false
		for _, fn := range e.blocks {
			node, next, ok := fn(e, vctx, pctx, lines, cursor)
			if ok {
				if node != nil {
					parent.Children.Push(value.NewElementItem(node))
				}
				if next <= cursor {
					next = cursor + 1 // guarantee forward progress
				}
				cursor = next
				matched = true
				break
			}
		}
		if !matched {
			cursor++ // defensive; paragraphBlock always matches in practice
		}
		if pctx.Aborted() {
			return
		}
	}
}
