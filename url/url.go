// Package url implements the WHATWG-style URL parser of spec §3.4, §4.C:
// absolute/relative parsing, normalization, serialization and component
// access. It follows the WHATWG URL state machine in spirit (scheme state
// → authority state → path state → query → fragment) with the
// simplifications §4.C documents, rather than implementing the full living
// standard.
package url

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/idna"

	"github.com/lambdalang/lambda/diag"
	"github.com/lambdalang/lambda/internal/obslog"
)

// Scheme enumerates the schemes the core URL parser recognizes (spec §3.4).
type Scheme int

const (
	UNKNOWN Scheme = iota
	FILE
	HTTP
	HTTPS
	FTP
	DATA
	SYS
)

func (s Scheme) String() string {
	switch s {
	case FILE:
		return "file"
	case HTTP:
		return "http"
	case HTTPS:
		return "https"
	case FTP:
		return "ftp"
	case DATA:
		return "data"
	case SYS:
		return "sys"
	default:
		return "unknown"
	}
}

func schemeFromString(s string) Scheme {
	switch strings.ToLower(s) {
	case "file":
		return FILE
	case "http":
		return HTTP
	case "https":
		return HTTPS
	case "ftp":
		return FTP
	case "data":
		return DATA
	case "sys":
		return SYS
	default:
		return UNKNOWN
	}
}

// defaultPort returns the well-known port for a scheme and whether one
// exists (spec §4.C algorithm 7).
func defaultPort(s Scheme) (uint16, bool) {
	switch s {
	case HTTP:
		return 80, true
	case HTTPS:
		return 443, true
	case FTP:
		return 21, true
	default:
		return 0, false
	}
}

// Url is a parsed URL (spec §3.4). All component strings are owned by the
// Url; Href is computed lazily and invalidated on any mutation.
type Url struct {
	scheme   Scheme
	protocol string

	username string
	password string
	hostname string
	port     string
	portNum  uint16

	pathname string
	search   string
	hash     string

	isValid bool

	hrefCache string
	hrefValid bool
}

func (u *Url) Scheme() Scheme     { return u.scheme }
func (u *Url) Protocol() string   { return u.protocol }
func (u *Url) Username() string   { return u.username }
func (u *Url) Password() string   { return u.password }
func (u *Url) Hostname() string   { return u.hostname }
func (u *Url) Port() string       { return u.port }
func (u *Url) PortNumber() uint16 { return u.portNum }
func (u *Url) Pathname() string   { return u.pathname }
func (u *Url) Search() string     { return u.search }
func (u *Url) Hash() string       { return u.hash }
func (u *Url) IsValid() bool      { return u.isValid }

// Host returns hostname[:port], omitting the port when it is the scheme's
// default (spec §4.C algorithm 7).
func (u *Url) Host() string {
	if u.hostname == "" {
		return ""
	}
	if def, ok := defaultPort(u.scheme); ok && u.portNum == def {
		return u.hostname
	}
	if u.port != "" {
		return u.hostname + ":" + u.port
	}
	return u.hostname
}

func (u *Url) hasAuthority() bool {
	return u.hostname != "" || u.username != "" || u.password != ""
}

func (u *Url) invalidateHref() { u.hrefValid = false }

// Href serializes the URL (spec §4.C algorithm 8, lazy + cached).
func (u *Url) Href() string {
	if u.hrefValid {
		return u.hrefCache
	}
	var b strings.Builder
	b.WriteString(u.protocol)
	if u.hasAuthority() {
		b.WriteString("//")
		if u.username != "" || u.password != "" {
			b.WriteString(percentEncodeUserinfo(u.username))
			if u.password != "" {
				b.WriteByte(':')
				b.WriteString(percentEncodeUserinfo(u.password))
			}
			b.WriteByte('@')
		}
		b.WriteString(u.Host())
	}
	b.WriteString(u.pathname)
	b.WriteString(u.search)
	b.WriteString(u.hash)
	u.hrefCache = b.String()
	u.hrefValid = true
	return u.hrefCache
}

func (u *Url) clone() *Url {
	c := *u
	c.hrefValid = false
	return &c
}

// splitScheme splits off a leading ALPHA (ALPHA|DIGIT|+-.)* scheme, per spec
// §4.C algorithm 1.
func splitScheme(input string) (scheme, rest string, ok bool) {
	i := strings.IndexByte(input, ':')
	if i <= 0 {
		return "", input, false
	}
	name := input[:i]
	if !isAlpha(name[0]) {
		return "", input, false
	}
	for j := 1; j < len(name); j++ {
		c := name[j]
		if !isAlpha(c) && !isDigit(c) && c != '+' && c != '-' && c != '.' {
			return "", input, false
		}
	}
	return name, input[i+1:], true
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Parse parses input against an optional base (spec §4.C). Failure returns
// a diag.Error of kind InvalidURL; no partially-initialized Url escapes.
func Parse(input string, base *Url) (*Url, error) {
	if input == "" {
		if base == nil {
			return nil, &diag.Error{Kind: diag.InvalidURL, Message: "empty input with no base", Target: input}
		}
		// P3: resolve("", b) == b.
		return base.clone(), nil
	}

	if schemeName, rest, ok := splitScheme(input); ok {
		if scheme := schemeFromString(schemeName); scheme != UNKNOWN || looksAbsolute(rest) {
			return parseAbsolute(schemeName, rest)
		}
		return parseAbsolute(schemeName, rest)
	}

	if base == nil {
		return nil, &diag.Error{Kind: diag.InvalidURL, Message: "relative reference without a base", Target: input}
	}

	switch {
	case strings.HasPrefix(input, "//"):
		return parseSchemeRelative(input, base)
	case strings.HasPrefix(input, "#"):
		u := base.clone()
		u.hash = input
		u.invalidateHref()
		return u, nil
	case strings.HasPrefix(input, "?"):
		u := base.clone()
		search, hash := splitQueryFragment(input)
		u.search = search
		u.hash = hash
		u.invalidateHref()
		return u, nil
	case strings.HasPrefix(input, "/"):
		u := base.clone()
		path, search, hash := splitPathQueryFragment(input)
		u.pathname = normalizePath(path, true)
		u.search = search
		u.hash = hash
		u.invalidateHref()
		return u, nil
	default:
		return parsePathRelative(input, base)
	}
}

// Resolve is Parse with the arguments spec §6 uses for readability at call
// sites ("Url::resolve(relative, base)").
func Resolve(relative string, base *Url) (*Url, error) { return Parse(relative, base) }

func looksAbsolute(rest string) bool { return strings.HasPrefix(rest, "//") }

func parseAbsolute(schemeName, rest string) (*Url, error) {
	scheme := schemeFromString(schemeName)
	u := &Url{scheme: scheme, protocol: strings.ToLower(schemeName) + ":"}

	authority := ""
	pathPart := rest
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := len(rest)
		for i, c := range rest {
			if c == '/' || c == '?' || c == '#' {
				end = i
				break
			}
		}
		authority = rest[:end]
		pathPart = rest[end:]
	} else if scheme == DATA {
		// data: URLs have no authority; the whole remainder is opaque
		// path/content, left untouched.
	}

	if authority != "" {
		if err := parseAuthority(u, authority); err != nil {
			return nil, err
		}
	}

	path, search, hash := splitPathQueryFragment(pathPart)
	if u.hasAuthority() || scheme == FILE || scheme == HTTP || scheme == HTTPS || scheme == SYS || scheme == FTP {
		u.pathname = normalizePath(path, true)
	} else {
		u.pathname = path
	}
	u.search = search
	u.hash = hash
	u.isValid = true
	obslog.L().Debugw("url parsed", "scheme", scheme.String(), "host", u.hostname)
	return u, nil
}

func parseAuthority(u *Url, authority string) error {
	host := authority
	if at := strings.LastIndexByte(authority, '@'); at >= 0 {
		userinfo := authority[:at]
		host = authority[at+1:]
		if colon := strings.IndexByte(userinfo, ':'); colon >= 0 {
			u.username = percentDecode(userinfo[:colon])
			u.password = percentDecode(userinfo[colon+1:])
		} else {
			u.username = percentDecode(userinfo)
		}
	}

	if strings.HasPrefix(host, "[") {
		// IPv6 literal; kept verbatim between brackets.
		end := strings.IndexByte(host, ']')
		if end < 0 {
			return &diag.Error{Kind: diag.InvalidURL, Message: "unterminated IPv6 literal", Target: authority}
		}
		u.hostname = host[:end+1]
		if rest := host[end+1:]; strings.HasPrefix(rest, ":") {
			return setPort(u, rest[1:])
		}
		return nil
	}

	if colon := strings.LastIndexByte(host, ':'); colon >= 0 && allDigits(host[colon+1:]) {
		if err := setPort(u, host[colon+1:]); err != nil {
			return err
		}
		host = host[:colon]
	}

	ascii, err := idna.ToASCII(strings.ToLower(host))
	if err != nil {
		// Not every hostname is IDNA-valid (e.g. it may already be plain
		// ASCII with characters idna rejects for its stricter profile);
		// fall back to the lowercased original rather than failing the
		// whole parse over a normalization nicety.
		ascii = strings.ToLower(host)
	}
	u.hostname = ascii
	return nil
}

func setPort(u *Url, portStr string) error {
	if portStr == "" {
		return nil
	}
	if !allDigits(portStr) {
		return &diag.Error{Kind: diag.InvalidURL, Message: "non-numeric port", Target: portStr}
	}
	n, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return &diag.Error{Kind: diag.InvalidURL, Message: "port out of range", Target: portStr}
	}
	u.port = portStr
	u.portNum = uint16(n)
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func splitPathQueryFragment(s string) (path, search, hash string) {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		hash = s[i:]
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		search = s[i:]
		s = s[:i]
	}
	return s, search, hash
}

func splitQueryFragment(s string) (search, hash string) {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

func parseSchemeRelative(input string, base *Url) (*Url, error) {
	u := &Url{scheme: base.scheme, protocol: base.protocol}
	rest := input[2:]
	end := len(rest)
	for i, c := range rest {
		if c == '/' || c == '?' || c == '#' {
			end = i
			break
		}
	}
	if err := parseAuthority(u, rest[:end]); err != nil {
		return nil, err
	}
	path, search, hash := splitPathQueryFragment(rest[end:])
	u.pathname = normalizePath(path, true)
	u.search = search
	u.hash = hash
	u.isValid = true
	return u, nil
}

func parsePathRelative(input string, base *Url) (*Url, error) {
	u := base.clone()
	u.invalidateHref()

	path, search, hash := splitPathQueryFragment(input)

	baseDir := base.pathname
	if i := strings.LastIndexByte(baseDir, '/'); i >= 0 {
		baseDir = baseDir[:i+1]
	} else {
		baseDir = "/"
	}
	merged := baseDir + path
	u.pathname = normalizePath(merged, true)
	u.search = search
	u.hash = hash
	return u, nil
}

// normalizePath implements spec §4.C algorithm 6: split on '/', process
// segments left to right with a stack; "." and empty segments between
// slashes are skipped; ".." pops but never below root.
func normalizePath(p string, rooted bool) string {
	if p == "" {
		if rooted {
			return "/"
		}
		return ""
	}
	parts := strings.Split(p, "/")
	var stack []string
	for _, seg := range parts {
		switch seg {
		case "", ".":
			// skip
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	out := strings.Join(stack, "/")
	if rooted {
		return "/" + out
	}
	return out
}

// percentDecode decodes well-formed %XX triples and leaves any malformed
// percent sequence (truncated, or non-hex digits) verbatim — the pinned
// policy from spec §9 Open Question (i) / SPEC_FULL.md.
func percentDecode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			v, _ := strconv.ParseUint(s[i+1:i+3], 16, 8)
			b.WriteByte(byte(v))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// percentEncodeUserinfo encodes ':' '@' '/' and non-ASCII bytes in
// username/password components, leaving an already-valid %XX triple alone.
func percentEncodeUserinfo(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteString(s[i : i+3])
			i += 2
			continue
		}
		switch {
		case c == ':' || c == '@' || c == '/' || c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, "%%%02X", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
