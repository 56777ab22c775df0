// Package value implements the tagged Item value model and heap shared by
// the markup parser, the math layer, the formatter and the view-tree
// bridge (spec §3.1-§3.2, §4.B).
//
// The original C representation packs a TypeId into the top byte of a
// 64-bit word and a pointer (or inline value) into the low 56 bits
// (lambda.h's b2it/i2it/s2it/... macros). That trick relies on pointers
// fitting in 56 bits and on nothing ever inspecting those bits except the
// boxing macros themselves — safe in C, not reproducible in Go without
// hiding live pointers from the garbage collector inside an integer field.
// Item is instead a small struct carrying the same tag plus either an
// inline scalar or a normal (GC-visible) Go pointer; every invariant the
// spec states about the encoding — inline tags carry their value directly,
// everything else is opaque behind accessors, decoding never happens via
// bit arithmetic — holds for this representation too.
package value

import "fmt"

// TypeId tags an Item's payload kind (spec §3.1).
type TypeId uint8

const (
	// UNDEFINED is the zero value of TypeId and of Item; it is the
	// ITEM_UNDEFINED sentinel.
	UNDEFINED TypeId = iota
	NULL
	BOOL
	INT   // inline, sign-extended 56-bit in the original; inline int64 here
	INT64
	FLOAT
	DECIMAL
	NUMBER
	DTIME
	STRING
	SYMBOL
	BINARY
	ARRAY
	ARRAY_INT
	LIST
	MAP
	ELEMENT
	TYPE
	FUNC
	ANY
	ERROR
	// PATH and URLT are heap kinds the spec's §3.2 lists as concrete
	// objects (Path, Url) without adding them to the §3.1 tag enum; the
	// original source's path.c sets path->type_id = LMD_TYPE_PATH
	// directly, so they get tags here too.
	PATH
	URLT
)

var typeNames = map[TypeId]string{
	UNDEFINED: "undefined",
	NULL:      "null",
	BOOL:      "bool",
	INT:       "int",
	INT64:     "int64",
	FLOAT:     "float",
	DECIMAL:   "decimal",
	NUMBER:    "number",
	DTIME:     "datetime",
	STRING:    "string",
	SYMBOL:    "symbol",
	BINARY:    "binary",
	ARRAY:     "array",
	ARRAY_INT: "array_int",
	LIST:      "list",
	MAP:       "map",
	ELEMENT:   "element",
	TYPE:      "type",
	FUNC:      "func",
	ANY:       "any",
	ERROR:     "error",
	PATH:      "path",
	URLT:      "url",
}

func (t TypeId) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// Item is the tagged value shared across parser, formatter and view-tree
// bridge. The zero Item is ITEM_UNDEFINED.
type Item struct {
	tag     TypeId
	inline  int64 // valid when tag is NULL, BOOL or INT
	payload any   // valid for every other tag; always a heap pointer type
}

// TypeOf returns the Item's tag.
func TypeOf(it Item) TypeId { return it.tag }

// ITEM_UNDEFINED is the sentinel returned by operations that found nothing
// (e.g. out-of-range Array access — spec §4.B, "never traps").
var Undefined = Item{}

// ITEM_ERROR is the generic error sentinel, distinct from a structured
// error Item built by NewError.
var ErrSentinel = Item{tag: ERROR}

// TypeMismatch is returned by accessors when the tag disagrees with the
// requested shape (spec §7: TypeMismatch, "fatal (programmer error)" —
// returned here rather than panicking so callers in release builds can
// still recover; parser/formatter code that controls both sides treats it
// as a bug).
type TypeMismatch struct {
	Want TypeId
	Got  TypeId
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("value: type mismatch: want %s, got %s", e.Want, e.Got)
}

// ---- constructors ("box_*") ----

func NewNull() Item { return Item{tag: NULL} }

func NewBool(b bool) Item {
	v := int64(0)
	if b {
		v = 1
	}
	return Item{tag: BOOL, inline: v}
}

func NewInt(i int32) Item { return Item{tag: INT, inline: int64(i)} }

func NewInt64(i int64) Item { return Item{tag: INT64, payload: &i} }

func NewFloat(f float64) Item { return Item{tag: FLOAT, payload: &f} }

func NewDecimal(d *Decimal) Item { return Item{tag: DECIMAL, payload: d} }

func NewDateTime(t *DateTime) Item { return Item{tag: DTIME, payload: t} }

func NewStringItem(s *String) Item { return Item{tag: STRING, payload: s} }

func NewSymbolItem(s *String) Item { return Item{tag: SYMBOL, payload: s} }

func NewBinaryItem(b []byte) Item { return Item{tag: BINARY, payload: &b} }

func NewArrayItem(a *Array) Item { return Item{tag: ARRAY, payload: a} }

func NewArrayIntItem(a *ArrayLong) Item { return Item{tag: ARRAY_INT, payload: a} }

func NewListItem(l *List) Item { return Item{tag: LIST, payload: l} }

func NewMapItem(m *Map) Item { return Item{tag: MAP, payload: m} }

func NewElementItem(e *Element) Item { return Item{tag: ELEMENT, payload: e} }

func NewTypeItem(t *LambdaType) Item { return Item{tag: TYPE, payload: t} }

func NewFuncItem(f *Function) Item { return Item{tag: FUNC, payload: f} }

// NewPathItem and NewURLItem box a PATH/URLT payload. value cannot import
// lpath or url directly (both reach back into value through diag), so the
// payload is typed any here; lpath wraps these with its own *Path/*Target/
// *url.Url-typed constructors and accessors (lpath.NewPathItem, lpath.AsPath,
// ...) so nothing outside lpath has to know that.
func NewPathItem(p any) Item { return Item{tag: PATH, payload: p} }

func NewURLItem(u any) Item { return Item{tag: URLT, payload: u} }

// NewError builds a structured ERROR item wrapping any error value,
// typically a *diag.Error. value never imports diag; callers that need to
// unwrap a diag.Error back out of an Item do so with Payload and a type
// assertion (diag.Error.AsItem builds the reverse direction).
func NewError(cause error) Item { return Item{tag: ERROR, payload: cause} }

// ---- accessors ("as_*") ----

func AsBool(it Item) (bool, error) {
	if it.tag != BOOL {
		return false, &TypeMismatch{Want: BOOL, Got: it.tag}
	}
	return it.inline != 0, nil
}

func AsInt(it Item) (int32, error) {
	if it.tag != INT {
		return 0, &TypeMismatch{Want: INT, Got: it.tag}
	}
	return int32(it.inline), nil
}

func AsLong(it Item) (int64, error) {
	if it.tag != INT64 {
		return 0, &TypeMismatch{Want: INT64, Got: it.tag}
	}
	return *(it.payload.(*int64)), nil
}

func AsDouble(it Item) (float64, error) {
	if it.tag != FLOAT {
		return 0, &TypeMismatch{Want: FLOAT, Got: it.tag}
	}
	return *(it.payload.(*float64)), nil
}

func AsString(it Item) (*String, error) {
	if it.tag != STRING && it.tag != SYMBOL {
		return nil, &TypeMismatch{Want: STRING, Got: it.tag}
	}
	return it.payload.(*String), nil
}

func AsArray(it Item) (*Array, error) {
	if it.tag != ARRAY {
		return nil, &TypeMismatch{Want: ARRAY, Got: it.tag}
	}
	return it.payload.(*Array), nil
}

func AsList(it Item) (*List, error) {
	if it.tag != LIST {
		return nil, &TypeMismatch{Want: LIST, Got: it.tag}
	}
	return it.payload.(*List), nil
}

func AsMap(it Item) (*Map, error) {
	if it.tag != MAP {
		return nil, &TypeMismatch{Want: MAP, Got: it.tag}
	}
	return it.payload.(*Map), nil
}

func AsElement(it Item) (*Element, error) {
	if it.tag != ELEMENT {
		return nil, &TypeMismatch{Want: ELEMENT, Got: it.tag}
	}
	return it.payload.(*Element), nil
}

// Payload exposes the raw payload for package-internal use (lpath, format,
// viewtree all need to type-switch on tag and unwrap without re-deriving
// the accessor boilerplate above).
func Payload(it Item) any { return it.payload }

// AsPathPayload and AsURLPayload unwrap a PATH/URLT item's payload for
// lpath's typed accessors (lpath.AsPath, lpath.AsURL) to type-assert.
func AsPathPayload(it Item) (any, error) {
	if it.tag != PATH {
		return nil, &TypeMismatch{Want: PATH, Got: it.tag}
	}
	return it.payload, nil
}

func AsURLPayload(it Item) (any, error) {
	if it.tag != URLT {
		return nil, &TypeMismatch{Want: URLT, Got: it.tag}
	}
	return it.payload, nil
}

// IsTruthy implements Lambda's truthiness for control constructs that
// consume an Item as a condition (NULL and false-BOOL are falsy, BINARY of
// length 0 is falsy, everything else truthy).
func IsTruthy(it Item) bool {
	switch it.tag {
	case UNDEFINED, NULL:
		return false
	case BOOL:
		return it.inline != 0
	case BINARY:
		b := it.payload.(*[]byte)
		return len(*b) > 0
	default:
		return true
	}
}
