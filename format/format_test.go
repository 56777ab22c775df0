package format_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lambdalang/lambda/format"
	_ "github.com/lambdalang/lambda/markup/adapter/markdown"
	"github.com/lambdalang/lambda/markup/parser"
	"github.com/lambdalang/lambda/value"
)

func TestFormatMarkdownRoundTripsHeading(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	eng := parser.DefaultEngine("markdown")
	root, diags := eng.Parse(vctx, "# Title\n\nBody text.\n")
	require.False(t, diags.HasErrors())

	out, fdiags := format.Format(vctx, root, "markdown")
	require.False(t, fdiags.HasErrors())
	require.Contains(t, out, "Title")
	require.Contains(t, out, "Body text.")
}

func TestFormatUnknownFlavorReturnsDiagnostic(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	eng := parser.DefaultEngine("markdown")
	root, _ := eng.Parse(vctx, "hi\n")

	out, diags := format.Format(vctx, root, "nope")
	require.Equal(t, "", out)
	require.True(t, diags.HasErrors())
}

func TestFormatJSONIsLosslessShape(t *testing.T) {
	vctx := value.NewContext()
	defer vctx.Close()

	eng := parser.DefaultEngine("markdown")
	root, diags := eng.Parse(vctx, "# Hi\n")
	require.False(t, diags.HasErrors())

	out, fdiags := format.Format(vctx, root, format.JSONFlavor)
	require.False(t, fdiags.HasErrors())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Equal(t, "document", decoded["$"])
	require.Contains(t, decoded, "pos")
}
