// Package lpath implements the Lambda Path abstraction of spec §3.5, §4.D:
// an immutable linked chain of segments from leaf back to a scheme root,
// plus the Target handle that unifies a Path or a Url behind one equality
// and serialization surface (spec §3.6, §4.D).
//
// Grounded on original_source/lambda/path.c: ROOT_SENTINEL, the six static
// scheme roots, path_append's copy-into-pool-memory discipline, the
// path_to_string quoting rule and path_to_os_path's Windows drive-letter
// handling all carry over; only the storage (Go heap instead of a pool
// pointer chain) and the package boundary differ.
package lpath

import (
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/lambdalang/lambda/diag"
	"github.com/lambdalang/lambda/internal/obslog"
	"github.com/lambdalang/lambda/url"
	"github.com/lambdalang/lambda/value"
)

// Scheme enumerates the six scheme roots (spec §3.5).
type Scheme int

const (
	SchemeFile Scheme = iota
	SchemeHTTP
	SchemeHTTPS
	SchemeSys
	SchemeRel    // "."
	SchemeParent // ".."
	schemeCount
)

var schemeNames = [schemeCount]string{"file", "http", "https", "sys", ".", ".."}

func (s Scheme) String() string {
	if s < 0 || int(s) >= len(schemeNames) {
		return ""
	}
	return schemeNames[s]
}

// SegmentType distinguishes a literal path segment from a glob-style
// wildcard or parser placeholder (spec §3.5).
type SegmentType int

const (
	SegNormal SegmentType = iota
	SegWildcard
	SegWildcardRec
	SegDynamic
)

// rootSentinel is the shared parent of every scheme root; it itself has no
// parent (spec: "has NULL parent itself").
var rootSentinel = &Path{name: ""}

// schemeRoots holds the six process-wide singleton roots, built once.
var schemeRoots [schemeCount]*Path

func init() {
	for i := Scheme(0); i < schemeCount; i++ {
		schemeRoots[i] = &Path{name: schemeNames[i], parent: rootSentinel}
	}
	obslog.L().Debugw("lpath: scheme roots initialized", "count", schemeCount)
}

// Path is one segment in an immutable chain from leaf to scheme root (spec
// §3.5). The zero value is never valid; obtain one via Root or Append.
type Path struct {
	name    string
	segType SegmentType
	parent  *Path
}

// Root returns the process-wide singleton root for scheme.
func Root(scheme Scheme) *Path {
	if scheme < 0 || scheme >= schemeCount {
		obslog.L().Errorw("lpath: invalid scheme", "scheme", int(scheme))
		return nil
	}
	return schemeRoots[scheme]
}

// Append returns a new Path with segment appended under parent (spec §4.D
// path_append). The segment's bytes are copied, matching the original's
// copy-into-pool-memory discipline — here a private, uniquely-owned Go
// string. A nil or empty segment is a no-op that returns parent unchanged.
func Append(parent *Path, segment string) *Path {
	if parent == nil {
		obslog.L().Errorw("lpath: Append on nil parent")
		return nil
	}
	if segment == "" {
		return parent
	}
	return &Path{name: strings.Clone(segment), parent: parent}
}

// AppendTyped is Append for a non-literal segment (wildcard or dynamic
// placeholder); such segments carry no literal name.
func AppendTyped(parent *Path, segType SegmentType) *Path {
	if parent == nil {
		obslog.L().Errorw("lpath: AppendTyped on nil parent")
		return nil
	}
	return &Path{segType: segType, parent: parent}
}

func (p *Path) isSchemeRoot() bool { return p.parent == rootSentinel }

// schemeRootOf walks up to the scheme root (spec §4.D: "walk to root").
func schemeRootOf(p *Path) *Path {
	for p != nil && p.parent != nil && p.parent != rootSentinel {
		p = p.parent
	}
	return p
}

// SchemeName returns the name of the path's scheme root.
func SchemeName(p *Path) string {
	if p == nil {
		return ""
	}
	return schemeRootOf(p).name
}

// GetScheme returns the Scheme identifier for p, and ok=false if p's root
// is not one of the six known singletons (spec §4.D path_get_scheme).
func GetScheme(p *Path) (Scheme, bool) {
	if p == nil {
		return 0, false
	}
	root := schemeRootOf(p)
	for i := Scheme(0); i < schemeCount; i++ {
		if schemeRoots[i] == root {
			return i, true
		}
	}
	return 0, false
}

// IsRoot reports whether p is itself a scheme root (no segments appended).
func IsRoot(p *Path) bool { return p != nil && p.isSchemeRoot() }

// IsAbsolute reports whether p's scheme is file/http/https/sys (spec §4.D
// path_is_absolute; "." and ".." are relative).
func IsAbsolute(p *Path) bool {
	scheme, ok := GetScheme(p)
	if !ok {
		return false
	}
	return scheme == SchemeFile || scheme == SchemeHTTP || scheme == SchemeHTTPS || scheme == SchemeSys
}

// maxDepth caps the segment chain a string conversion will walk, matching
// the original's fixed 64-entry stack array.
const maxDepth = 64

// Depth returns the number of segments in the chain, including the scheme
// root, stopping at ROOT_SENTINEL (spec §4.D path_depth).
func Depth(p *Path) int {
	n := 0
	for p != nil && p.parent != nil {
		n++
		p = p.parent
	}
	return n
}

// collect gathers segments leaf-first (reverse, root-last) up to maxDepth,
// mirroring path_to_string's fixed-size stack walk.
func collect(p *Path) []*Path {
	segs := make([]*Path, 0, maxDepth)
	for p != nil && p.parent != nil && len(segs) < maxDepth {
		segs = append(segs, p)
		p = p.parent
	}
	return segs
}

func segmentDisplay(seg *Path) string {
	switch seg.segType {
	case SegWildcard:
		return "*"
	case SegWildcardRec:
		return "**"
	case SegDynamic:
		return "<dynamic>"
	default:
		return seg.name
	}
}

// needsQuote matches path_to_string's exact character set.
func needsQuote(s string) bool {
	return strings.ContainsAny(s, ". @#$%&?=:-*")
}

// ToString renders p in Lambda path syntax: "/etc.hosts" (file, absolute),
// ".src.main" (relative), "..parent.file" (parent-relative) — spec §4.D
// path_to_string, including its quoting rule for segments containing any
// of . SP @ # $ % & ? = : - *.
func ToString(p *Path) string {
	if p == nil {
		return ""
	}
	if p.parent == nil {
		// p is itself ROOT_SENTINEL or an otherwise parentless node.
		return p.name
	}

	segs := collect(p)
	if len(segs) == 0 {
		return p.name
	}

	rootName := segs[len(segs)-1].name
	isFile := rootName == "file"
	isRel := rootName == "."
	isParent := rootName == ".."

	if len(segs) == 1 {
		switch {
		case isFile:
			return "/"
		case isRel:
			return "."
		case isParent:
			return ".."
		}
	}

	var b strings.Builder
	justOutputPrefix := false
	for i := len(segs) - 1; i >= 0; i-- {
		seg := segs[i]
		if i == len(segs)-1 {
			switch {
			case isFile:
				b.WriteByte('/')
				justOutputPrefix = true
				continue
			case isRel:
				b.WriteByte('.')
				justOutputPrefix = true
				continue
			case isParent:
				b.WriteString("..")
				justOutputPrefix = true
				continue
			}
		}
		if i < len(segs)-1 && !justOutputPrefix {
			b.WriteByte('.')
		}
		justOutputPrefix = false

		switch seg.segType {
		case SegWildcard:
			b.WriteByte('*')
		case SegWildcardRec:
			b.WriteString("**")
		case SegDynamic:
			b.WriteString("<dynamic>")
		default:
			if needsQuote(seg.name) {
				b.WriteByte('\'')
				b.WriteString(seg.name)
				b.WriteByte('\'')
			} else {
				b.WriteString(seg.name)
			}
		}
	}
	return b.String()
}

// ToOSPath renders p as a host filesystem path, detecting a Windows drive
// letter in the "file.C.Users..." shape and falling back to a forward-slash
// layout otherwise (spec §4.D path_to_os_path).
func ToOSPath(p *Path) string {
	if p == nil {
		return ""
	}
	segs := collect(p)
	if len(segs) == 0 {
		return p.name
	}

	scheme := segs[len(segs)-1].name
	isFile := scheme == "file"
	isRelative := scheme == "." || scheme == ".."

	var b strings.Builder
	switch {
	case isFile:
		if len(segs) > 2 {
			drive := segmentDisplay(segs[len(segs)-2])
			if len(drive) == 1 && isASCIILetter(drive[0]) {
				b.WriteByte(drive[0])
				b.WriteString(":\\")
				for i := len(segs) - 3; i >= 0; i-- {
					if i < len(segs)-3 {
						b.WriteByte('\\')
					}
					b.WriteString(segmentDisplay(segs[i]))
				}
				return b.String()
			}
		}
		for i := len(segs) - 2; i >= 0; i-- {
			b.WriteByte('/')
			b.WriteString(segmentDisplay(segs[i]))
		}
	case isRelative:
		b.WriteString(scheme)
		for i := len(segs) - 2; i >= 0; i-- {
			b.WriteByte('/')
			b.WriteString(segmentDisplay(segs[i]))
		}
	default:
		if scheme != "" {
			b.WriteString(scheme)
			b.WriteString("://")
		}
		for i := len(segs) - 2; i >= 0; i-- {
			if i < len(segs)-2 {
				b.WriteByte('/')
			}
			b.WriteString(segmentDisplay(segs[i]))
		}
	}
	return b.String()
}

func isASCIILetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// --- Target: unified Path-or-Url handle (spec §3.6, §4.D) ---

// TargetKind distinguishes which handle a Target wraps.
type TargetKind int

const (
	TargetPath TargetKind = iota
	TargetURL
)

// Target wraps either a lpath.Path or a url.Url behind one equality and
// serialization surface, precomputing a content hash so equality is O(1)
// (spec §3.6). The original hashes with SipHash (target.cpp:
// hashmap_sip(buf, len, seed0, seed1)); no SipHash implementation exists
// anywhere in the reference corpus, so xxhash/v2 stands in — documented
// once, here and in the design ledger, not per call site.
type Target struct {
	kind TargetKind
	path *Path
	u    *url.Url
	hash uint64
}

// NewPathItem boxes a Path as a tagged value.Item (PATH), and AsPath is its
// inverse accessor — the pair that lets a Path cross into the shared value
// heap alongside Elements, Maps and Lists (spec §3.2's Path/Url heap kinds).
func NewPathItem(p *Path) value.Item { return value.NewPathItem(p) }

func AsPath(it value.Item) (*Path, error) {
	raw, err := value.AsPathPayload(it)
	if err != nil {
		return nil, err
	}
	p, ok := raw.(*Path)
	if !ok {
		return nil, &value.TypeMismatch{Want: value.PATH, Got: value.TypeOf(it)}
	}
	return p, nil
}

// NewURLItem and AsURL do the same for Url/URLT.
func NewURLItem(u *url.Url) value.Item { return value.NewURLItem(u) }

func AsURL(it value.Item) (*url.Url, error) {
	raw, err := value.AsURLPayload(it)
	if err != nil {
		return nil, err
	}
	u, ok := raw.(*url.Url)
	if !ok {
		return nil, &value.TypeMismatch{Want: value.URLT, Got: value.TypeOf(it)}
	}
	return u, nil
}

// FromItem builds a Target from a tagged value.Item (spec §6's
// Target::from_item): a PATH item becomes a local Target over its Path, a
// URLT item a remote one over its Url, and a STRING/SYMBOL item is parsed
// the same way the package-level Parse does. Any other tag yields
// InvalidTargetKind (spec §7: "Item is not String/Symbol/Path").
func FromItem(it value.Item) (*Target, error) {
	switch value.TypeOf(it) {
	case value.PATH:
		p, err := AsPath(it)
		if err != nil {
			return nil, err
		}
		return FromPath(p), nil
	case value.URLT:
		u, err := AsURL(it)
		if err != nil {
			return nil, err
		}
		return FromURL(u), nil
	case value.STRING, value.SYMBOL:
		s, err := value.AsString(it)
		if err != nil {
			return nil, err
		}
		return Parse(s.String())
	default:
		return nil, &diag.Error{
			Kind:    diag.InvalidTargetKind,
			Message: "cannot build a target from a " + value.TypeOf(it).String() + " item",
		}
	}
}

// FromPath builds a Target over a Path, hashing its canonical string form.
func FromPath(p *Path) *Target {
	s := ToString(p)
	return &Target{kind: TargetPath, path: p, hash: xxhash.Sum64String(s)}
}

// FromURL builds a Target over a Url, hashing its serialized href.
func FromURL(u *url.Url) *Target {
	return &Target{kind: TargetURL, u: u, hash: xxhash.Sum64String(u.Href())}
}

// Parse builds a Target from a string holding an absolute URL (spec §4.D
// item_to_target): a string that starts with a "scheme:" prefix is parsed
// as a URL. Any other string, including a Lambda path string ("/a.b",
// ".a", "..a"), is rejected with InvalidTargetKind; path strings are not
// parsed.
func Parse(s string) (*Target, error) {
	if s == "" {
		return nil, &diag.Error{Kind: diag.InvalidTargetKind, Message: "empty target string"}
	}
	if looksLikeURL(s) {
		u, err := url.Parse(s, nil)
		if err != nil {
			return nil, err
		}
		return FromURL(u), nil
	}
	return nil, &diag.Error{Kind: diag.InvalidTargetKind, Message: "bare Lambda path string cannot be parsed without a resolution root", Target: s}
}

func looksLikeURL(s string) bool {
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return false
	}
	for j := 0; j < i; j++ {
		c := s[j]
		if !isASCIILetter(c) && !(c >= '0' && c <= '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func (t *Target) Kind() TargetKind { return t.kind }
func (t *Target) Hash() uint64     { return t.hash }

// IsLocal reports whether the target resolves to the local filesystem
// (spec §4.D target_is_local): a Path of scheme file/./.., or a Url of
// scheme file.
func (t *Target) IsLocal() bool {
	switch t.kind {
	case TargetPath:
		scheme, ok := GetScheme(t.path)
		return ok && (scheme == SchemeFile || scheme == SchemeRel || scheme == SchemeParent)
	case TargetURL:
		return t.u.Scheme() == url.FILE
	}
	return false
}

// IsRemote is the complement of IsLocal for a well-formed Target.
func (t *Target) IsRemote() bool { return !t.IsLocal() }

// IsDir reports whether the target's serialized form names a directory —
// conservatively, anything ending in "/" or a bare scheme root, since
// neither Path nor Url alone can answer this without touching the
// filesystem or network (spec §4.D target_is_dir, "is_dir" is a syntactic
// hint here, not a stat).
func (t *Target) IsDir() bool {
	switch t.kind {
	case TargetPath:
		return IsRoot(t.path)
	case TargetURL:
		p := t.u.Pathname()
		return p == "" || strings.HasSuffix(p, "/")
	}
	return false
}

// ToLocalPath renders the target as an OS filesystem path, valid only when
// IsLocal (spec §4.D target_to_local_path).
func (t *Target) ToLocalPath() (string, error) {
	if !t.IsLocal() {
		return "", &diag.Error{Kind: diag.InvalidTargetKind, Message: "target is not local"}
	}
	if t.kind == TargetPath {
		return ToOSPath(t.path), nil
	}
	return t.u.Pathname(), nil
}

// ToURLString renders the target as a URL string (spec §4.D
// target_to_url_string); a Path target is serialized in Lambda path syntax
// since it has no scheme authority to form a real URL without a resolution
// root.
func (t *Target) ToURLString() string {
	if t.kind == TargetURL {
		return t.u.Href()
	}
	return ToString(t.path)
}

// Exists reports whether a local target names a file the host filesystem
// actually has (spec §4.D target_exists). Remote targets cannot be checked
// without a network round trip, which is outside this package's scope
// (spec §1 lists network I/O among out-of-scope external collaborators);
// it returns false for them rather than blocking.
func (t *Target) Exists() bool {
	if !t.IsLocal() {
		return false
	}
	p, err := t.ToLocalPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Equal compares two targets by hash only, matching target_equal's
// "compares url_hash only" contract (spec §4.D) — two targets naming the
// same resource through different constructions (Path vs Url) are equal
// iff their canonical string forms hash equal.
func (t *Target) Equal(o *Target) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.hash == o.hash
}
