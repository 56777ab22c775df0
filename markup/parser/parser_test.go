package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lambdalang/lambda/diag"
	"github.com/lambdalang/lambda/value"
)

func TestHeadingParagraphInlineMath(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	doc, diags := Parse(vctx, "# H\n\nhas $x^2 + y^2 = z^2$ math.\n")
	require.False(t, diags.HasErrors())

	insp := NewInspector(doc)
	headings := insp.FindByTag(HeadingType.Tag)
	require.Len(t, headings, 1)
	require.Equal(t, "1", attrString(headings[0], "level"))

	paras := insp.FindByTag(ParagraphType.Tag)
	require.Len(t, paras, 1)

	mathNodes := insp.FindByTag(MathInlineType.Tag)
	require.Len(t, mathNodes, 1)
	require.Equal(t, "x^2 + y^2 = z^2", attrString(mathNodes[0], "source"))

	texts := insp.FindByTag(TextType.Tag)
	require.NotEmpty(t, texts)
}

func TestRSTDirective(t *testing.T) {
	e := DefaultEngine("rst")
	e.ATXHeaders = false
	e.SetextHeaders = false
	e.RSTDirectives = true

	vctx := value.NewContext()
	defer vctx.Close()

	doc, diags := e.Parse(vctx, ".. note::\n   hello\n")
	require.False(t, diags.HasErrors())

	insp := NewInspector(doc)
	directives := insp.FindByTag(DirectiveType.Tag)
	require.Len(t, directives, 1)
	require.Equal(t, "note", attrString(directives[0], "name"))
	require.Equal(t, "hello", attrString(directives[0], "text"))
}

func TestFencedCodeBlock(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	doc, _ := Parse(vctx, "```go\nfunc main() {}\n```\n")
	insp := NewInspector(doc)
	blocks := insp.FindByTag(CodeBlockType.Tag)
	require.Len(t, blocks, 1)
	require.Equal(t, "go", attrString(blocks[0], "lang"))
}

func TestLinkAndEmphasis(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	doc, _ := Parse(vctx, "a *em* and [text](http://example.com \"t\") end\n")
	insp := NewInspector(doc)
	require.Len(t, insp.FindByTag(EmphasisType.Tag), 1)
	links := insp.FindLinks()
	require.Len(t, links, 1)
	require.Equal(t, "http://example.com", attrString(links[0], "href"))
	require.Equal(t, "t", attrString(links[0], "title"))
}

func TestPipeTableWithAlignment(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	src := "| a | b |\n|:--|--:|\n| 1 | 2 |\n"
	doc, _ := Parse(vctx, src)
	insp := NewInspector(doc)
	tables := insp.FindByTag(TableType.Tag)
	require.Len(t, tables, 1)
	require.Equal(t, "pipe", attrString(tables[0], "style"))

	rows := insp.FindByTag(TableRowType.Tag)
	require.Len(t, rows, 2)
}

func TestListItemsRecordMarkerLiteral(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	doc, _ := Parse(vctx, "- a\n- b\n")
	insp := NewInspector(doc)
	items := insp.FindByTag(ListItemType.Tag)
	require.Len(t, items, 2)
	require.Equal(t, "-", attrString(items[0], "marker"))
}

func TestParseContextExhaustionProducesSingleDiagnostic(t *testing.T) {
	old := Limits.OpsBudget
	Limits.OpsBudget = 3
	defer func() { Limits.OpsBudget = old }()

	vctx := value.NewContext()
	defer vctx.Close()

	src := "para one\n\npara two\n\npara three\n\npara four\n\npara five\n"
	doc, diags := Parse(vctx, src)
	require.NotNil(t, doc)
	require.Equal(t, 1, diags.HasKind(diag.ParseExhausted))
}
