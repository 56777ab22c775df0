package parser

import (
	"time"

	"github.com/lambdalang/lambda/diag"
)

// Limits is the fixed resource budget spec §5 mandates for every parse
// invocation, not a per-call tunable the embedder can raise.
var Limits = struct {
	MaxDepth   int
	OpsBudget  int64
	WallClock  time.Duration
}{
	MaxDepth:  256,
	OpsBudget: 10_000_000,
	WallClock: 30 * time.Second,
}

// Context is the per-invocation resource guard every block and inline
// parser consults (spec §4.E ParseContext, §5 resource limits). It is not
// the value.Context pool owner — parser.Context tracks recursion depth,
// operation count and a deadline; value.Context (passed alongside) owns
// allocation.
type Context struct {
	depth       int
	ops         int64
	deadline    time.Time
	shouldAbort bool
	exhausted   *diag.Error
	diags       *diag.Diagnostics
}

// NewContext starts a fresh resource guard with a trace id for diagnostics
// correlation.
func NewContext(diags *diag.Diagnostics) *Context {
	return &Context{deadline: time.Now().Add(Limits.WallClock), diags: diags}
}

// Enter increments recursion depth on block/inline descent; it returns
// false (and records ParseExhausted, once) if max_depth would be exceeded.
func (c *Context) Enter() bool {
	if c.shouldAbort {
		return false
	}
	c.depth++
	if c.depth > Limits.MaxDepth {
		c.abort("max parse depth exceeded")
		return false
	}
	return true
}

// Leave undoes a matching Enter.
func (c *Context) Leave() { c.depth-- }

// Tick charges one unit against the operation budget and checks the
// wall-clock deadline; callers call this at every block/inline step (spec
// §5: "should_abort polled at every block boundary and inside the inline
// dispatcher").
func (c *Context) Tick() bool {
	if c.shouldAbort {
		return false
	}
	c.ops++
	if c.ops > Limits.OpsBudget {
		c.abort("operation budget exhausted")
		return false
	}
	if time.Now().After(c.deadline) {
		c.abort("parse wall-clock budget exhausted")
		return false
	}
	return true
}

// Abort requests cooperative cancellation, mirroring the embedder-settable
// should_abort flag of spec §5.
func (c *Context) Abort() { c.abort("cancelled by embedder") }

func (c *Context) abort(msg string) {
	if c.shouldAbort {
		return
	}
	c.shouldAbort = true
	c.exhausted = diag.Exhausted(msg)
	if c.diags != nil {
		c.diags.Add(c.exhausted)
	}
}

// Aborted reports whether the guard has tripped.
func (c *Context) Aborted() bool { return c.shouldAbort }
