package url

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAbsoluteHttpWithNonDefaultPort(t *testing.T) {
	u, err := Parse("http://example.com:8080/a/b?q=1#frag", nil)
	require.NoError(t, err)
	require.Equal(t, HTTP, u.Scheme())
	require.Equal(t, "example.com:8080", u.Host())
	require.Equal(t, "/a/b", u.Pathname())
	require.Equal(t, "?q=1", u.Search())
	require.Equal(t, "#frag", u.Hash())
	require.Equal(t, "http://example.com:8080/a/b?q=1#frag", u.Href())
}

func TestDefaultPortOmittedFromHostAndHref(t *testing.T) {
	u, err := Parse("https://example.com:443/x", nil)
	require.NoError(t, err)
	require.Equal(t, "example.com", u.Host())
	require.Equal(t, "https://example.com/x", u.Href())
}

func TestResolveEmptyStringReturnsBaseUnchanged(t *testing.T) {
	base, err := Parse("http://example.com/a/b", nil)
	require.NoError(t, err)
	resolved, err := Parse("", base)
	require.NoError(t, err)
	require.Equal(t, base.Href(), resolved.Href())
}

func TestRelativeResolveDropsLastBaseSegment(t *testing.T) {
	base, err := Parse("http://example.com/a/b/c", nil)
	require.NoError(t, err)
	resolved, err := Resolve("d/e", base)
	require.NoError(t, err)
	require.Equal(t, "/a/b/d/e", resolved.Pathname())
}

func TestPathNormalizationCapsAtRoot(t *testing.T) {
	u, err := Parse("http://example.com/a/../../../b", nil)
	require.NoError(t, err)
	require.Equal(t, "/b", u.Pathname())
}

func TestAbsolutePathReplacesPathnameOnly(t *testing.T) {
	base, err := Parse("http://example.com/a/b?old=1", nil)
	require.NoError(t, err)
	resolved, err := Parse("/c/d", base)
	require.NoError(t, err)
	require.Equal(t, "/c/d", resolved.Pathname())
	require.Equal(t, "", resolved.Search())
}

func TestSchemeRelativeInheritsBaseScheme(t *testing.T) {
	base, err := Parse("https://example.com/a", nil)
	require.NoError(t, err)
	resolved, err := Parse("//other.example/x", base)
	require.NoError(t, err)
	require.Equal(t, HTTPS, resolved.Scheme())
	require.Equal(t, "other.example", resolved.Hostname())
}

func TestFragmentOnlyResolve(t *testing.T) {
	base, err := Parse("http://example.com/a?x=1", nil)
	require.NoError(t, err)
	resolved, err := Parse("#section", base)
	require.NoError(t, err)
	require.Equal(t, "/a", resolved.Pathname())
	require.Equal(t, "?x=1", resolved.Search())
	require.Equal(t, "#section", resolved.Hash())
}

func TestQueryOnlyResolveClearsFragment(t *testing.T) {
	base, err := Parse("http://example.com/a#old", nil)
	require.NoError(t, err)
	resolved, err := Parse("?y=2", base)
	require.NoError(t, err)
	require.Equal(t, "?y=2", resolved.Search())
	require.Equal(t, "", resolved.Hash())
}

func TestRelativeParentSegmentsCapAtRoot(t *testing.T) {
	base, err := Parse("http://example.com/", nil)
	require.NoError(t, err)
	resolved, err := Parse("../../..", base)
	require.NoError(t, err)
	require.Equal(t, "/", resolved.Pathname())
}

func TestInvalidRelativeWithoutBaseFails(t *testing.T) {
	_, err := Parse("a/b", nil)
	require.Error(t, err)
}

func TestUserinfoPercentEncodedInHref(t *testing.T) {
	u, err := Parse("http://user:p@ss@example.com/", nil)
	require.NoError(t, err)
	require.Contains(t, u.Href(), "p%40ss")
}

func TestFileSchemeNoAuthorityNormalizesPath(t *testing.T) {
	u, err := Parse("file:///a/./b/../c", nil)
	require.NoError(t, err)
	require.Equal(t, "/a/c", u.Pathname())
}
