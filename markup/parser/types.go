package parser

import "github.com/lambdalang/lambda/value"

// Node tag descriptors. These are process-wide singletons (spec §3.3: base
// type / descriptor tables are "initialized once... strictly read-only");
// Element equality compares descriptor identity (spec §9), so every node of
// a given kind across every parse must point at the same *value.ElementType.
var (
	DocumentType   = &value.ElementType{Tag: "document", Attributes: []string{"meta"}}
	HeadingType    = &value.ElementType{Tag: "heading", Attributes: []string{"level", "style"}}
	ParagraphType  = &value.ElementType{Tag: "paragraph"}
	BlockquoteType = &value.ElementType{Tag: "blockquote"}
	ListType       = &value.ElementType{Tag: "list", Attributes: []string{"ordered"}}
	ListItemType   = &value.ElementType{Tag: "list_item", Attributes: []string{"marker"}}
	CodeBlockType  = &value.ElementType{Tag: "code_block", Attributes: []string{"lang", "fence"}}
	HRType         = &value.ElementType{Tag: "hr"}
	TableType      = &value.ElementType{Tag: "table", Attributes: []string{"style"}}
	TableRowType   = &value.ElementType{Tag: "table_row"}
	TableCellType  = &value.ElementType{Tag: "table_cell", Attributes: []string{"header", "align"}}
	DirectiveType  = &value.ElementType{Tag: "directive", Attributes: []string{"name", "arg"}}

	TextType        = &value.ElementType{Tag: "text", Attributes: []string{"text"}}
	EmphasisType    = &value.ElementType{Tag: "emphasis", Attributes: []string{"marker"}}
	StrongType      = &value.ElementType{Tag: "strong", Attributes: []string{"marker"}}
	StrikeType      = &value.ElementType{Tag: "strike"}
	CodeSpanType    = &value.ElementType{Tag: "code_span", Attributes: []string{"text"}}
	LinkType        = &value.ElementType{Tag: "link", Attributes: []string{"href", "title"}}
	ImageType       = &value.ElementType{Tag: "image", Attributes: []string{"href", "alt", "title"}}
	MathInlineType  = &value.ElementType{Tag: "math_inline", Attributes: []string{"source", "notation"}}
	MathBlockType   = &value.ElementType{Tag: "math_block", Attributes: []string{"source", "notation"}}
	AutolinkType    = &value.ElementType{Tag: "autolink", Attributes: []string{"href"}}
	EntityType      = &value.ElementType{Tag: "entity", Attributes: []string{"name"}}
)

// setPos attaches source byte range to e (spec §4.E parsing invariant).
func setPos(e *value.Element, start, end int) *value.Element {
	e.StartByte, e.EndByte = start, end
	return e
}

// setAttr interns v against vctx's pool and sets it as a string attribute;
// every attribute/text value in the AST is pool-owned, same as any other
// heap object (spec §3.3: "no object may outlive its pool").
func setAttr(vctx *value.Context, e *value.Element, key, v string) {
	it, err := vctx.Intern([]byte(v))
	if err != nil {
		it = value.Undefined
	}
	e.Attrs.Set(key, it)
}

// attrString reads a string attribute back out, defaulting to "".
func attrString(e *value.Element, key string) string {
	it := e.Attrs.Get(key)
	s, err := value.AsString(it)
	if err != nil {
		return ""
	}
	return s.String()
}

// pushText appends a text leaf child carrying literal content.
func pushText(vctx *value.Context, parent *value.Element, text string, start, end int) {
	leaf := setPos(value.NewElement(TextType), start, end)
	setAttr(vctx, leaf, "text", text)
	parent.Children.Push(value.NewElementItem(leaf))
}
