package value

import (
	"fmt"
	"math/big"
	"time"

	"github.com/lambdalang/lambda/pool"
)

// String is the pool's interned, ref-counted string (spec §3.2); value
// re-exports it so callers never need to import pool directly just to spell
// the type of a STRING/SYMBOL payload.
type String = pool.String

// Header is the four-byte header every heap object conceptually carries
// (spec §3.2: `{type_id, flags, ref_cnt}`). Go heap objects embed it for
// documentation/diagnostics; nothing in this port frees based on ref_cnt
// (pool lifetime does — spec §4.B).
type Header struct {
	TypeID TypeId
	Flags  uint8
	RefCnt uint16
}

// Ref increments the diagnostic ref count, saturating at pool.MaxRefCount.
func (h *Header) Ref() {
	if h.RefCnt < pool.MaxRefCount {
		h.RefCnt++
	}
}

// Release decrements the diagnostic ref count; it never frees.
func (h *Header) Release() {
	if h.RefCnt > 0 {
		h.RefCnt--
	}
}

// Array is a uniform-typed ordered sequence with capacity-doubling growth.
type Array struct {
	Header
	items []Item
}

func NewArray() *Array { return &Array{Header: Header{TypeID: ARRAY}} }

func (a *Array) Len() int { return len(a.items) }

// Push appends an item, doubling capacity when full (spec §4.B).
func (a *Array) Push(it Item) {
	a.items = append(a.items, it)
}

// Get returns ITEM_UNDEFINED for an out-of-range index; it never traps
// (spec §4.B).
func (a *Array) Get(i int) Item {
	if i < 0 || i >= len(a.items) {
		return Undefined
	}
	return a.items[i]
}

func (a *Array) Items() []Item { return a.items }

// ArrayLong is a packed array of 64-bit ints (spec §3.2 ArrayLong).
type ArrayLong struct {
	Header
	items []int64
}

func NewArrayLong() *ArrayLong { return &ArrayLong{Header: Header{TypeID: ARRAY_INT}} }

func (a *ArrayLong) Push(v int64) { a.items = append(a.items, v) }

func (a *ArrayLong) Get(i int) (int64, bool) {
	if i < 0 || i >= len(a.items) {
		return 0, false
	}
	return a.items[i], true
}

func (a *ArrayLong) Len() int { return len(a.items) }

// List is an ordered, heterogeneous sequence (spec §3.2).
type List struct {
	Header
	items []Item
}

func NewList() *List { return &List{Header: Header{TypeID: LIST}} }

// Push appends an item (list_push, spec §4.B).
func (l *List) Push(it Item) { l.items = append(l.items, it) }

// Get returns ITEM_UNDEFINED on an out-of-range index.
func (l *List) Get(i int) Item {
	if i < 0 || i >= len(l.items) {
		return Undefined
	}
	return l.items[i]
}

func (l *List) Len() int          { return len(l.items) }
func (l *List) Items() []Item     { return l.items }
func (l *List) SetItems(v []Item) { l.items = v }

// Map preserves declaration order on iteration (spec §3.2); keys are
// interned symbols or strings, compared by content.
type Map struct {
	Header
	keys   []string
	values map[string]Item
}

func NewMap() *Map {
	return &Map{Header: Header{TypeID: MAP}, values: make(map[string]Item)}
}

// Set inserts or updates key=value, preserving first-insertion order.
func (m *Map) Set(key string, v Item) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns ITEM_UNDEFINED if key is absent.
func (m *Map) Get(key string) Item {
	if v, ok := m.values[key]; ok {
		return v
	}
	return Undefined
}

// Keys returns keys in declaration order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Map) Len() int { return len(m.keys) }

// ElementType is the shared, immutable descriptor an Element points to: a
// tag name plus its attribute schema. Equality of two Elements compares
// descriptor identity, not deep structural equality of the descriptor
// (spec §4.9 design note, "Element-as-List with a separate type
// descriptor... preserve this as-is").
type ElementType struct {
	Tag        string
	Attributes []string // declared attribute names, in schema order
}

// Element is the AST node: a List of children plus a pointer to a shared
// ElementType descriptor (spec §3.2).
type Element struct {
	Header
	Desc     *ElementType
	Attrs    *Map
	Children *List
	// StartByte/EndByte attach source position to every node (spec §4.E
	// parsing invariant, required for round-tripping).
	StartByte, EndByte int
	// Flags holds free-form presentation detail. markup/parser leaves it
	// empty: it records the delimiter that produced emphasis/strong and a
	// list item's marker literal as the "marker" attribute in Attrs.
	Flags map[string]string
}

// NewElement allocates an Element of the given descriptor with empty
// children and attributes.
func NewElement(desc *ElementType) *Element {
	return &Element{
		Header:   Header{TypeID: ELEMENT},
		Desc:     desc,
		Attrs:    NewMap(),
		Children: NewList(),
		Flags:    make(map[string]string),
	}
}

// Equal compares descriptor identity and children, per the design note.
func (e *Element) Equal(o *Element) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Desc != o.Desc {
		return false
	}
	if e.Children.Len() != o.Children.Len() {
		return false
	}
	for i := 0; i < e.Children.Len(); i++ {
		if !itemsEqual(e.Children.Get(i), o.Children.Get(i)) {
			return false
		}
	}
	return true
}

func itemsEqual(a, b Item) bool {
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case NULL, UNDEFINED:
		return true
	case BOOL, INT:
		return a.inline == b.inline
	case STRING, SYMBOL:
		as, _ := AsString(a)
		bs, _ := AsString(b)
		return as.String() == bs.String()
	case ELEMENT:
		ae, _ := AsElement(a)
		be, _ := AsElement(b)
		return ae.Equal(be)
	default:
		return a.payload == b.payload
	}
}

// Decimal is a lightweight stand-in for the original's mpdecimal-backed
// type. mpdecimal itself is an out-of-scope external collaborator (spec
// §1); Decimal here wraps math/big.Float purely so DECIMAL items have
// somewhere to live and round-trip through the formatter — it is not a
// full decimal-arithmetic implementation.
type Decimal struct {
	Value *big.Float
}

func NewDecimalValue(s string) (*Decimal, error) {
	f, _, err := big.ParseFloat(s, 10, 200, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("value: invalid decimal literal %q: %w", s, err)
	}
	return &Decimal{Value: f}, nil
}

func (d *Decimal) String() string { return d.Value.Text('g', -1) }

// DateTime wraps time.Time; LMD_TYPE_DTIME in the original.
type DateTime struct {
	Time time.Time
}

// LambdaType is the minimal runtime type descriptor (spec §3.1 mentions
// TYPE as a tag; base type descriptors are process-wide read-only
// singletons per §5).
type LambdaType struct {
	TypeID    TypeId
	IsLiteral bool
	IsConst   bool
}

var baseTypes = func() map[TypeId]*LambdaType {
	m := make(map[TypeId]*LambdaType)
	for id := range typeNames {
		m[id] = &LambdaType{TypeID: id}
	}
	return m
}()

// BaseType returns the process-wide, read-only descriptor for a tag.
func BaseType(id TypeId) *LambdaType { return baseTypes[id] }

// Function wraps a callable; the evaluator's expression semantics are out
// of this spec's scope (spec §1), so Function only carries enough shape
// for the value model to round-trip a FUNC item through the formatter.
type Function struct {
	Name string
	Fn   any
}
