package lpath

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lambdalang/lambda/url"
)

func TestBareRootShorthand(t *testing.T) {
	require.Equal(t, "/", ToString(Root(SchemeFile)))
	require.Equal(t, ".", ToString(Root(SchemeRel)))
	require.Equal(t, "..", ToString(Root(SchemeParent)))
}

func TestAppendAndToString(t *testing.T) {
	p := Append(Append(Root(SchemeFile), "etc"), "hosts")
	require.Equal(t, "/etc.hosts", ToString(p))
}

func TestToStringQuotesSpecialCharacters(t *testing.T) {
	p := Append(Root(SchemeFile), "my file.txt")
	require.Equal(t, "/'my file.txt'", ToString(p))
}

func TestWildcardSegmentsDoNotGetQuoted(t *testing.T) {
	p := AppendTyped(Append(Root(SchemeFile), "src"), SegWildcardRec)
	require.Equal(t, "/src.**", ToString(p))
}

func TestDepthAndIsRoot(t *testing.T) {
	root := Root(SchemeFile)
	require.True(t, IsRoot(root))
	require.Equal(t, 1, Depth(root))

	child := Append(root, "a")
	require.False(t, IsRoot(child))
	require.Equal(t, 2, Depth(child))
}

func TestIsAbsoluteVsRelative(t *testing.T) {
	require.True(t, IsAbsolute(Root(SchemeFile)))
	require.True(t, IsAbsolute(Root(SchemeHTTP)))
	require.False(t, IsAbsolute(Root(SchemeRel)))
	require.False(t, IsAbsolute(Root(SchemeParent)))
}

func TestToOSPathUnixStyle(t *testing.T) {
	p := Append(Append(Root(SchemeFile), "etc"), "hosts")
	require.Equal(t, "/etc/hosts", ToOSPath(p))
}

func TestToOSPathWindowsDriveLetter(t *testing.T) {
	p := Append(Append(Append(Root(SchemeFile), "C"), "Users"), "name")
	require.Equal(t, "C:\\Users\\name", ToOSPath(p))
}

func TestTargetEqualityAcrossPathAndURLConstruction(t *testing.T) {
	u, err := url.Parse("http://example.com/a/b", nil)
	require.NoError(t, err)
	tURL := FromURL(u)

	p := Append(Append(Root(SchemeHTTP), "example.com"), "a")
	// Deliberately NOT the same string form; equality is by content hash of
	// each target's own canonical string, so distinct constructions of the
	// "same" resource are only equal when those canonical strings match.
	tPath := FromPath(p)
	require.False(t, tURL.Equal(tPath))

	tURL2, err := url.Parse("http://example.com/a/b", nil)
	require.NoError(t, err)
	require.True(t, tURL.Equal(FromURL(tURL2)))
}

func TestTargetIsLocalForFileScheme(t *testing.T) {
	p := Append(Root(SchemeFile), "etc")
	require.True(t, FromPath(p).IsLocal())

	u, err := url.Parse("https://example.com/x", nil)
	require.NoError(t, err)
	require.True(t, FromURL(u).IsRemote())
}

func TestParseRejectsBarePathString(t *testing.T) {
	_, err := Parse("/etc/hosts")
	require.Error(t, err)
}

func TestParseAcceptsAbsoluteURL(t *testing.T) {
	target, err := Parse("https://example.com/")
	require.NoError(t, err)
	require.Equal(t, TargetURL, target.Kind())
}
