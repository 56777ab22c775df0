package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInlineTagsRoundTrip(t *testing.T) {
	b, err := AsBool(NewBool(true))
	require.NoError(t, err)
	require.True(t, b)

	i, err := AsInt(NewInt(42))
	require.NoError(t, err)
	require.Equal(t, int32(42), i)
}

func TestAccessorTypeMismatch(t *testing.T) {
	_, err := AsBool(NewInt(1))
	require.Error(t, err)
	var tm *TypeMismatch
	require.ErrorAs(t, err, &tm)
	require.Equal(t, BOOL, tm.Want)
	require.Equal(t, INT, tm.Got)
}

func TestArrayGetOutOfRangeReturnsUndefined(t *testing.T) {
	a := NewArray()
	a.Push(NewInt(1))
	require.Equal(t, Undefined, a.Get(5))
	require.Equal(t, Undefined, a.Get(-1))
}

func TestListGetOutOfRangeReturnsUndefined(t *testing.T) {
	l := NewList()
	require.Equal(t, Undefined, l.Get(0))
}

func TestMapPreservesDeclarationOrder(t *testing.T) {
	m := NewMap()
	m.Set("z", NewInt(1))
	m.Set("a", NewInt(2))
	m.Set("z", NewInt(3)) // update, not a new key
	require.Equal(t, []string{"z", "a"}, m.Keys())
	require.Equal(t, 2, m.Len())
}

func TestElementEqualityByDescriptorAndChildren(t *testing.T) {
	desc := &ElementType{Tag: "p"}
	e1 := NewElement(desc)
	e2 := NewElement(desc)
	require.True(t, e1.Equal(e2))

	e1.Children.Push(NewInt(1))
	require.False(t, e1.Equal(e2))

	e2.Children.Push(NewInt(1))
	require.True(t, e1.Equal(e2))

	other := NewElement(&ElementType{Tag: "p"})
	require.False(t, e1.Equal(other), "distinct descriptor identity must not compare equal")
}

func TestContextInternDeduplicatesAcrossCalls(t *testing.T) {
	ctx := NewContext()
	defer ctx.Close()

	a, err := ctx.Intern([]byte("hi"))
	require.NoError(t, err)
	b, err := ctx.Intern([]byte("hi"))
	require.NoError(t, err)

	as, _ := AsString(a)
	bs, _ := AsString(b)
	require.Same(t, as, bs)
}

func TestIsTruthy(t *testing.T) {
	require.False(t, IsTruthy(NewNull()))
	require.False(t, IsTruthy(NewBool(false)))
	require.True(t, IsTruthy(NewBool(true)))
	require.True(t, IsTruthy(NewInt(0)))
}
