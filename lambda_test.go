package lambda_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lambdalang/lambda"
	"github.com/lambdalang/lambda/lpath"
)

func TestParseAndFormatRoundTripsHeading(t *testing.T) {
	vctx := lambda.NewContext()
	defer vctx.Close()

	root, diags := lambda.Parse(vctx, "# Title\n\nbody\n")
	require.False(t, diags.HasErrors())

	out, fdiags := lambda.Format(vctx, root, "markdown")
	require.False(t, fdiags.HasErrors())
	require.Contains(t, out, "Title")
}

func TestToViewTreeProducesPage(t *testing.T) {
	vctx := lambda.NewContext()
	defer vctx.Close()

	root, diags := lambda.Parse(vctx, "*hi*\n")
	require.False(t, diags.HasErrors())

	node := lambda.ToViewTree(root, lambda.Options{})
	page, ok := node.(*lambda.Page)
	require.True(t, ok)
	require.Len(t, page.Children, 1)
}

func TestParseMathProducesFraction(t *testing.T) {
	vctx := lambda.NewContext()
	defer vctx.Close()

	tree, diags := lambda.ParseMath(vctx, `\frac{1}{2}`, lambda.LaTeX)
	require.False(t, diags.HasErrors())
	require.NotNil(t, tree)
}

func TestTargetFromStringBuildsRemoteURLTarget(t *testing.T) {
	target, err := lambda.TargetFromString("https://example.com/a/b")
	require.NoError(t, err)
	require.Equal(t, lambda.TargetKind(1), target.Kind()) // TargetURL
	require.True(t, target.IsRemote())
}

func TestTargetFromItemRoundTripsPathItem(t *testing.T) {
	p := lambda.RootPath(lambda.PathScheme(lpath.SchemeFile))
	p = lambda.AppendPath(p, "docs")

	pathItem := lpath.NewPathItem(p)
	target, err := lambda.TargetFromItem(pathItem)
	require.NoError(t, err)
	require.True(t, target.IsLocal())
}
