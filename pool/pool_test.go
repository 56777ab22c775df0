package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocAlignsAndGrows(t *testing.T) {
	p := Create()
	defer p.Destroy()

	a := p.Alloc(3)
	b := p.Alloc(5)
	require.Len(t, a, 3)
	require.Len(t, b, 5)

	// A big allocation must force a new block without panicking.
	big := p.Alloc(minBlockSize * 2)
	require.Len(t, big, minBlockSize*2)
}

func TestReallocGrowsInPlaceAtTail(t *testing.T) {
	p := Create()
	defer p.Destroy()

	buf := p.Alloc(4)
	copy(buf, []byte("abcd"))
	before := p.AllocatedBytes()

	grown := p.Realloc(buf, 8)
	copy(grown[4:], []byte("efgh"))
	require.Equal(t, "abcdefgh", string(grown))
	require.Greater(t, p.AllocatedBytes(), before)
}

func TestInternStringDeduplicates(t *testing.T) {
	p := Create()
	defer p.Destroy()

	a, err := p.InternString([]byte("hello"))
	require.NoError(t, err)
	b, err := p.InternString([]byte("hello"))
	require.NoError(t, err)
	require.Same(t, a, b)
	require.Equal(t, 1, p.InternedCount())

	c, err := p.InternString([]byte("world"))
	require.NoError(t, err)
	require.NotSame(t, a, c)
	require.Equal(t, 2, p.InternedCount())
}

func TestInternStringRejectsOversize(t *testing.T) {
	p := Create()
	defer p.Destroy()

	_, err := p.InternString(make([]byte, MaxStringLen+1))
	require.Error(t, err)
}

func TestRefCountSaturates(t *testing.T) {
	p := Create()
	defer p.Destroy()

	s, err := p.InternString([]byte("x"))
	require.NoError(t, err)
	for i := 0; i < MaxRefCount+10; i++ {
		s.Ref()
	}
	require.Equal(t, uint16(MaxRefCount), s.RefCount())
}

func TestDestroyMakesPoolUnusable(t *testing.T) {
	p := Create()
	p.Destroy()
	require.Panics(t, func() { p.Alloc(1) })
}
