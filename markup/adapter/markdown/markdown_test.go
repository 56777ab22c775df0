package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lambdalang/lambda/markup/adapter"
	"github.com/lambdalang/lambda/value"
)

func TestRoundTripHeadingParagraphEmphasis(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	a, ok := adapter.Lookup("markdown")
	require.True(t, ok)

	doc, diags := a.Parse(vctx, "# Title\n\nsome *em* text.\n")
	require.False(t, diags.HasErrors())

	out := a.Render(vctx, doc)
	require.Contains(t, out, "# Title")
	require.Contains(t, out, "*em*")
}

func TestBlockquoteIndentsEveryLine(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	a, _ := adapter.Lookup("markdown")
	doc, _ := a.Parse(vctx, "> first\n> second\n")
	out := a.Render(vctx, doc)
	require.Contains(t, out, "> first")
	require.Contains(t, out, "> second")
}

func TestPipeTableRendersAlignedColumns(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	a, _ := adapter.Lookup("markdown")
	doc, _ := a.Parse(vctx, "| a | bb |\n|---|---|\n| 1 | 2 |\n")
	out := a.Render(vctx, doc)
	require.Contains(t, out, "| a ")
	require.Contains(t, out, "| bb |")
}

func TestFrontMatterSplitsYAMLBlock(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	meta, body, ok := FrontMatter(vctx, "---\ntitle: Hello\n---\nbody text\n")
	require.True(t, ok)
	require.NotNil(t, meta)
	require.Equal(t, "body text\n", body)
}

func TestFrontMatterAbsentReturnsFalse(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	_, body, ok := FrontMatter(vctx, "no front matter here\n")
	require.False(t, ok)
	require.Equal(t, "no front matter here\n", body)
}

func TestParseAttachesFrontMatterAsMeta(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	a, ok := adapter.Lookup("markdown")
	require.True(t, ok)

	doc, diags := a.Parse(vctx, "---\ntitle: Hello\n---\n# Body\n")
	require.False(t, diags.HasErrors())

	metaItem := doc.Attrs.Get("meta")
	meta, err := value.AsMap(metaItem)
	require.NoError(t, err)

	titleItem := meta.Get("title")
	title, err := value.AsString(titleItem)
	require.NoError(t, err)
	require.Equal(t, "Hello", title.String())

	out := a.Render(vctx, doc)
	require.Contains(t, out, "# Body")
	require.NotContains(t, out, "title: Hello")
}
