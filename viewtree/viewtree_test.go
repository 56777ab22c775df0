package viewtree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lambdalang/lambda/markup/parser"
	"github.com/lambdalang/lambda/value"
	"github.com/lambdalang/lambda/viewtree"
)

func TestToViewTreeNilRootIsEmptyPage(t *testing.T) {
	node := viewtree.ToViewTree(nil, viewtree.Options{})
	page, ok := node.(*viewtree.Page)
	require.True(t, ok)
	require.Empty(t, page.Children)
}

func TestToViewTreeHeadingProducesBlockWithLevel(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	root, diags := parser.Parse(vctx, "## Section\n\nbody\n")
	require.False(t, diags.HasErrors())

	page := viewtree.ToViewTree(root, viewtree.Options{}).(*viewtree.Page)
	require.Len(t, page.Children, 2)

	heading, ok := page.Children[0].(*viewtree.Block)
	require.True(t, ok)
	require.Equal(t, viewtree.Kind("heading"), heading.Kind)
	require.Equal(t, 2, heading.Level)
}

func TestToViewTreeEmphasisIsInlineWithTextRunChild(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	root, diags := parser.Parse(vctx, "*hi*\n")
	require.False(t, diags.HasErrors())

	page := viewtree.ToViewTree(root, viewtree.Options{}).(*viewtree.Page)
	para := page.Children[0].(*viewtree.Block)
	em, ok := para.Children[0].(*viewtree.Inline)
	require.True(t, ok)
	require.Equal(t, viewtree.Kind("emphasis"), em.Kind)
	text, ok := em.Children[0].(*viewtree.TextRun)
	require.True(t, ok)
	require.Equal(t, "hi", text.Text)
}

func TestToViewTreeBigOperatorCombinesSubAndSuperscript(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	root, diags := parser.Parse(vctx, "$\\sum_{i=1}^{n}$\n")
	require.False(t, diags.HasErrors())

	page := viewtree.ToViewTree(root, viewtree.Options{}).(*viewtree.Page)
	para := page.Children[0].(*viewtree.Block)
	mathEl, ok := para.Children[0].(*viewtree.MathElement)
	require.True(t, ok)
	require.False(t, mathEl.Display)

	op, ok := mathEl.Math.(*viewtree.Operator)
	require.True(t, ok)
	require.Equal(t, "∑", op.Symbol)
	require.NotNil(t, op.Lower)
	require.NotNil(t, op.Upper)
}

func TestToViewTreeBinaryExpressionFlattensToRow(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	root, diags := parser.Parse(vctx, "$a + b$\n")
	require.False(t, diags.HasErrors())

	page := viewtree.ToViewTree(root, viewtree.Options{}).(*viewtree.Page)
	para := page.Children[0].(*viewtree.Block)
	mathEl := para.Children[0].(*viewtree.MathElement)

	row, ok := mathEl.Math.(*viewtree.Row)
	require.True(t, ok)
	require.Len(t, row.Items, 3)
	plus, ok := row.Items[1].(*viewtree.Atom)
	require.True(t, ok)
	require.Equal(t, "+", plus.Symbol)
}

func TestToViewTreeUnaryMinusIsPrefixInRow(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	root, diags := parser.Parse(vctx, "$-x$\n")
	require.False(t, diags.HasErrors())

	page := viewtree.ToViewTree(root, viewtree.Options{}).(*viewtree.Page)
	para := page.Children[0].(*viewtree.Block)
	mathEl := para.Children[0].(*viewtree.MathElement)

	row, ok := mathEl.Math.(*viewtree.Row)
	require.True(t, ok)
	require.Len(t, row.Items, 2)
	minus, ok := row.Items[0].(*viewtree.Atom)
	require.True(t, ok)
	require.Equal(t, "-", minus.Symbol)
}

func TestToViewTreeMatrixCarriesDelimAndCellCount(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	root, diags := parser.Parse(vctx, "$\\pmatrix{a & b \\\\ c & d}$\n")
	require.False(t, diags.HasErrors())

	page := viewtree.ToViewTree(root, viewtree.Options{}).(*viewtree.Page)
	para := page.Children[0].(*viewtree.Block)
	mathEl := para.Children[0].(*viewtree.MathElement)

	m, ok := mathEl.Math.(*viewtree.Matrix)
	require.True(t, ok)
	require.Equal(t, "()", m.Delim)
	require.Equal(t, 2, m.Rows)
	require.Equal(t, 2, m.Cols)
	require.Len(t, m.Cells, 4)
}
