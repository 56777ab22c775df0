package mathexpr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lambdalang/lambda/value"
)

func TestImplicitMultiplicationMatchesExplicitLetters(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	spaced, diags := Parse(vctx, "a b", LaTeX)
	require.False(t, diags.HasErrors())
	joined, diags := Parse(vctx, "ab", LaTeX)
	require.False(t, diags.HasErrors())

	require.True(t, Equivalent(spaced, joined))
}

func TestBracedSingleTokenSuperscriptStripped(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	braced, _ := Parse(vctx, `x^{2}`, LaTeX)
	bare, _ := Parse(vctx, `x^2`, LaTeX)
	require.True(t, Equivalent(braced, bare))
}

func TestFracStylesCollapse(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	dfrac, _ := Parse(vctx, `\dfrac{a}{b}`, LaTeX)
	frac, _ := Parse(vctx, `\frac{a}{b}`, LaTeX)
	slash, _ := Parse(vctx, `a/b`, ASCIIMath)

	require.True(t, Equivalent(dfrac, frac))
	require.True(t, Equivalent(frac, slash))
}

func TestKnownSymbolResolvesToUnicodeAndClass(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	tree, diags := Parse(vctx, `\alpha`, LaTeX)
	require.False(t, diags.HasErrors())
	require.Equal(t, AtomType, tree.Desc)
	require.Equal(t, "α", attr(tree, "symbol"))
	require.Equal(t, "ORD", attr(tree, "class"))
}

func TestUnknownSymbolRoundTripsOpaque(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	tree, diags := Parse(vctx, `\zorblax`, LaTeX)
	require.False(t, diags.HasErrors())
	require.Equal(t, AtomType, tree.Desc)
	require.Equal(t, "zorblax", attr(tree, "symbol"))
}

func TestSqrtWithIndexBuildsRoot(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	tree, diags := Parse(vctx, `\sqrt[3]{x}`, LaTeX)
	require.False(t, diags.HasErrors())
	require.Equal(t, RootType, tree.Desc)
	require.Equal(t, 2, tree.Children.Len())
}

func TestMatrixCountsRowsAndColumns(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	tree, diags := Parse(vctx, `\pmatrix{a & b \\ c & d}`, LaTeX)
	require.False(t, diags.HasErrors())
	require.Equal(t, MatrixType, tree.Desc)
	require.Equal(t, "2", attr(tree, "rows"))
	require.Equal(t, "2", attr(tree, "cols"))
}

func TestSpacingCommandsIgnoredInEquivalence(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	withQuad, _ := Parse(vctx, `a \quad + b`, LaTeX)
	without, _ := Parse(vctx, `a + b`, LaTeX)
	require.True(t, Equivalent(withQuad, without))
}

func TestSumSubscriptSuperscriptNested(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	tree, diags := Parse(vctx, `\sum_{i=1}^{n}`, LaTeX)
	require.False(t, diags.HasErrors())
	require.Equal(t, PowType, tree.Desc)
	base := child(tree, 0)
	require.Equal(t, SubscriptType, base.Desc)
	require.Equal(t, SumType, child(base, 0).Desc)
}
