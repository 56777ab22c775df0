// Package pool implements the arena allocator and string intern table that
// every parse/eval invocation owns (spec §4.A). A Pool is a linked list of
// power-of-two blocks; allocation is a bump within the current block.
// Everything allocated from a Pool lives until the Pool itself is dropped —
// there is no per-object free, mirroring the original mempool.h design
// referenced by lambda/path.c.
package pool

import (
	"fmt"
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"github.com/lambdalang/lambda/internal/obslog"
)

const (
	minBlockSize = 4096
	// MaxStringLen is the hard cap on a single interned string, matching the
	// spec's 22-bit length field (4 MiB).
	MaxStringLen = 4 << 20
	// MaxRefCount is where String.Ref saturates (spec: 10-bit ref_cnt field).
	MaxRefCount = 1023
)

type block struct {
	buf []byte
	off int
}

func newBlock(size int) *block {
	if size < minBlockSize {
		size = minBlockSize
	}
	// round up to the next power of two
	n := minBlockSize
	for n < size {
		n <<= 1
	}
	return &block{buf: make([]byte, n)}
}

func (b *block) remaining() int { return len(b.buf) - b.off }

// Pool is a bump-allocating arena plus a per-pool string intern table. The
// zero value is not usable; construct with Create.
type Pool struct {
	blocks    []*block
	cur       *block
	live      bool
	allocated int

	strings map[uint64][]*String
}

// Create allocates a fresh, empty Pool.
func Create() *Pool {
	first := newBlock(minBlockSize)
	return &Pool{
		blocks:  []*block{first},
		cur:     first,
		live:    true,
		strings: make(map[uint64][]*String),
	}
}

// Alloc returns an n-byte region, bump-allocated from the current block
// (rounding n up to 8-byte alignment, as the original pool_alloc does).
// Allocation never fails within documented limits; it grows a new block
// when the current one is exhausted.
func (p *Pool) Alloc(n int) []byte {
	if !p.live {
		panic("pool: Alloc on destroyed pool")
	}
	aligned := (n + 7) &^ 7
	if p.cur.remaining() < aligned {
		need := aligned
		if need < minBlockSize {
			need = minBlockSize
		}
		nb := newBlock(need * 2)
		p.blocks = append(p.blocks, nb)
		p.cur = nb
	}
	start := p.cur.off
	p.cur.off += aligned
	p.allocated += aligned
	return p.cur.buf[start : start+n : start+aligned]
}

// Calloc is Alloc with an explicit zero-fill guarantee (Go slices backing a
// fresh block are already zeroed; this exists for symmetry with the C API
// and to zero bytes reused via Realloc shrink/grow).
func (p *Pool) Calloc(n int) []byte {
	b := p.Alloc(n)
	for i := range b {
		b[i] = 0
	}
	return b
}

// Realloc grows b to newLen. If b is the most recent allocation at the tail
// of the current block and there is room, it extends in place; otherwise it
// allocates fresh space and copies.
func (p *Pool) Realloc(b []byte, newLen int) []byte {
	if newLen <= len(b) {
		return b[:newLen]
	}
	if tailStart, ok := p.tailOffset(b); ok {
		extra := newLen - len(b)
		aligned := (extra + 7) &^ 7
		if p.cur.remaining() >= aligned {
			p.cur.off += aligned
			p.allocated += aligned
			return p.cur.buf[tailStart : tailStart+newLen : tailStart+cap(b)+aligned]
		}
	}
	nb := p.Alloc(newLen)
	copy(nb, b)
	return nb
}

// tailOffset reports the offset of b within the current block's backing
// array, and whether the end of b's capacity (its 8-byte-aligned reserved
// region) coincides with the block's bump pointer (the only case in which
// growing b in place is safe).
func (p *Pool) tailOffset(b []byte) (int, bool) {
	if cap(b) == 0 || len(p.cur.buf) == 0 {
		return 0, false
	}
	base := unsafe.Pointer(&p.cur.buf[0])
	head := unsafe.Pointer(&b[:1][0])
	offset := int(uintptr(head) - uintptr(base))
	if offset < 0 || offset+cap(b) != p.cur.off {
		return 0, false
	}
	return offset, true
}

// Destroy drops the pool's blocks. The underlying memory is reclaimed by
// the Go garbage collector once nothing else references it; Destroy's only
// job is to make further use of the Pool a programmer error (OOM on the
// underlying allocator is documented as fatal — Go gives us GC instead of a
// malloc we could observe failing, so this is the analogous "abort on
// misuse" guard).
func (p *Pool) Destroy() {
	if !p.live {
		return
	}
	obslog.L().Debugw("pool destroyed", "allocated_bytes", p.allocated, "blocks", len(p.blocks))
	p.live = false
	p.blocks = nil
	p.cur = nil
	p.strings = nil
}

// AllocatedBytes reports the pool's total bump allocation, for diagnostics.
func (p *Pool) AllocatedBytes() int { return p.allocated }

// String is the immutable, UTF-8, ref-counted heap string (spec §3.2).
type String struct {
	bytes  []byte
	refCnt uint16
}

// Len returns the string's length in bytes.
func (s *String) Len() int { return len(s.bytes) }

// String renders the value as a Go string (copies).
func (s *String) String() string { return string(s.bytes) }

// Bytes returns the string's backing bytes. Callers must not mutate them —
// Strings are immutable once interned.
func (s *String) Bytes() []byte { return s.bytes }

// RefCount returns the current saturating reference count.
func (s *String) RefCount() uint16 { return s.refCnt }

// Ref increments the reference count, saturating at MaxRefCount. This is a
// sharing diagnostic/copy-on-write hint only; it never drives deallocation
// (pool lifetime does — spec §4.B).
func (s *String) Ref() {
	if s.refCnt < MaxRefCount {
		s.refCnt++
	}
}

// Release decrements the hint reference count. It never frees.
func (s *String) Release() {
	if s.refCnt > 0 {
		s.refCnt--
	}
}

// InternString looks up bytes in the pool's per-pool hash-set keyed by
// (length, content) and returns the canonical *String, allocating and
// inserting one if this is the first occurrence. Interned-string identity
// is stable within a pool and not meaningful across pools (spec §5).
func (p *Pool) InternString(b []byte) (*String, error) {
	if len(b) > MaxStringLen {
		return nil, fmt.Errorf("pool: string length %d exceeds max %d", len(b), MaxStringLen)
	}
	h := xxhash.Sum64(b)
	for _, cand := range p.strings[h] {
		if string(cand.bytes) == string(b) {
			return cand, nil
		}
	}
	dst := p.Alloc(len(b))
	copy(dst, b)
	s := &String{bytes: dst}
	p.strings[h] = append(p.strings[h], s)
	return s, nil
}

// InternedCount reports how many distinct strings are interned, for tests
// and diagnostics.
func (p *Pool) InternedCount() int {
	n := 0
	for _, bucket := range p.strings {
		n += len(bucket)
	}
	return n
}
