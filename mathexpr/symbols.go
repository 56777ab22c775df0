package mathexpr

// Class is one of the 8 TeX math classes driving inter-atom spacing in the
// downstream view tree (spec §4.G, §4.I): ORD, OP, BIN, REL, OPEN, CLOSE,
// PUNCT, INNER.
type Class int

const (
	ORD Class = iota
	OP
	BIN
	REL
	OPEN
	CLOSE
	PUNCT
	INNER
)

func (c Class) String() string {
	switch c {
	case ORD:
		return "ORD"
	case OP:
		return "OP"
	case BIN:
		return "BIN"
	case REL:
		return "REL"
	case OPEN:
		return "OPEN"
	case CLOSE:
		return "CLOSE"
	case PUNCT:
		return "PUNCT"
	case INNER:
		return "INNER"
	default:
		return "ORD"
	}
}

// Symbol is one entry of the fixed (latex-name, unicode, math-class) table
// spec §4.G requires. Every known name maps to exactly one Symbol; unknown
// names round-trip as opaque atoms instead of failing the parse (spec §8
// P8: "the symbol table... is total over the three input notations — every
// name either resolves to a known triple or round-trips as an opaque atom").
type Symbol struct {
	Name    string
	Unicode string
	Class   Class
}

var symbolTable = map[string]Symbol{
	// Greek letters
	"alpha": {"alpha", "α", ORD}, "beta": {"beta", "β", ORD},
	"gamma": {"gamma", "γ", ORD}, "delta": {"delta", "δ", ORD},
	"epsilon": {"epsilon", "ε", ORD}, "zeta": {"zeta", "ζ", ORD},
	"eta": {"eta", "η", ORD}, "theta": {"theta", "θ", ORD},
	"iota": {"iota", "ι", ORD}, "kappa": {"kappa", "κ", ORD},
	"lambda": {"lambda", "λ", ORD}, "mu": {"mu", "μ", ORD},
	"nu": {"nu", "ν", ORD}, "xi": {"xi", "ξ", ORD},
	"pi": {"pi", "π", ORD}, "rho": {"rho", "ρ", ORD},
	"sigma": {"sigma", "σ", ORD}, "tau": {"tau", "τ", ORD},
	"upsilon": {"upsilon", "υ", ORD}, "phi": {"phi", "φ", ORD},
	"chi": {"chi", "χ", ORD}, "psi": {"psi", "ψ", ORD},
	"omega": {"omega", "ω", ORD},
	"Gamma": {"Gamma", "Γ", ORD}, "Delta": {"Delta", "Δ", ORD},
	"Theta": {"Theta", "Θ", ORD}, "Lambda": {"Lambda", "Λ", ORD},
	"Xi": {"Xi", "Ξ", ORD}, "Pi": {"Pi", "Π", ORD},
	"Sigma": {"Sigma", "Σ", ORD}, "Upsilon": {"Upsilon", "Υ", ORD},
	"Phi": {"Phi", "Φ", ORD}, "Psi": {"Psi", "Ψ", ORD},
	"Omega": {"Omega", "Ω", ORD},

	// Relations
	"leq": {"leq", "≤", REL}, "geq": {"geq", "≥", REL},
	"neq": {"neq", "≠", REL}, "approx": {"approx", "≈", REL},
	"equiv": {"equiv", "≡", REL}, "sim": {"sim", "∼", REL},
	"propto": {"propto", "∝", REL}, "subset": {"subset", "⊂", REL},
	"subseteq": {"subseteq", "⊆", REL}, "supset": {"supset", "⊃", REL},
	"in": {"in", "∈", REL}, "notin": {"notin", "∉", REL},
	"to": {"to", "→", REL}, "rightarrow": {"rightarrow", "→", REL},
	"leftarrow": {"leftarrow", "←", REL}, "Rightarrow": {"Rightarrow", "⇒", REL},
	"iff": {"iff", "⇔", REL},

	// Binary operators
	"pm": {"pm", "±", BIN}, "mp": {"mp", "∓", BIN},
	"times": {"times", "×", BIN}, "div": {"div", "÷", BIN},
	"cdot": {"cdot", "·", BIN}, "ast": {"ast", "∗", BIN},
	"oplus": {"oplus", "⊕", BIN}, "otimes": {"otimes", "⊗", BIN},
	"cup": {"cup", "∪", BIN}, "cap": {"cap", "∩", BIN},
	"setminus": {"setminus", "∖", BIN}, "wedge": {"wedge", "∧", BIN},
	"vee": {"vee", "∨", BIN},

	// Big operators
	"sum": {"sum", "∑", OP}, "prod": {"prod", "∏", OP},
	"int": {"int", "∫", OP}, "oint": {"oint", "∮", OP},
	"coprod": {"coprod", "∐", OP}, "bigcup": {"bigcup", "⋃", OP},
	"bigcap": {"bigcap", "⋂", OP},
	"lim": {"lim", "lim", OP}, "sup": {"sup", "sup", OP},
	"inf": {"inf", "inf", OP}, "max": {"max", "max", OP},
	"min": {"min", "min", OP}, "det": {"det", "det", OP},
	"sin": {"sin", "sin", OP}, "cos": {"cos", "cos", OP},
	"tan": {"tan", "tan", OP}, "log": {"log", "log", OP},
	"ln": {"ln", "ln", OP}, "exp": {"exp", "exp", OP},

	// Punctuation / misc ORD symbols
	"infty": {"infty", "∞", ORD}, "partial": {"partial", "∂", ORD},
	"nabla": {"nabla", "∇", ORD}, "forall": {"forall", "∀", ORD},
	"exists": {"exists", "∃", ORD}, "emptyset": {"emptyset", "∅", ORD},
	"dots": {"dots", "…", PUNCT}, "ldots": {"ldots", "…", PUNCT},
	"cdots": {"cdots", "⋯", PUNCT},

	// Delimiters
	"langle": {"langle", "⟨", OPEN}, "rangle": {"rangle", "⟩", CLOSE},
	"lceil": {"lceil", "⌈", OPEN}, "rceil": {"rceil", "⌉", CLOSE},
	"lfloor": {"lfloor", "⌊", OPEN}, "rfloor": {"rfloor", "⌋", CLOSE},
}

// lookupSymbol resolves a bare name (no leading backslash) against the
// fixed table.
func lookupSymbol(name string) (Symbol, bool) {
	s, ok := symbolTable[name]
	return s, ok
}

// LookupSymbol is the exported form of lookupSymbol, for callers outside
// this package (the view-tree bridge) that need a big-operator's display
// symbol and class without re-deriving the fixed table.
func LookupSymbol(name string) (Symbol, bool) { return lookupSymbol(name) }

// spacingTable is the 8x8 class-pair spacing design constant spec §4.G
// references (§6: "the 8x8 spacing table is a design constant"). Values are
// abstract units, not pixels: 0=none, 1=thin, 2=medium, 3=thick. The
// view-tree bridge does not read this table.
var spacingTable = [8][8]int{
	/*        ORD OP  BIN REL OPEN CLOSE PUNCT INNER */
	/*ORD*/ {0, 1, 2, 3, 0, 0, 0, 1},
	/*OP*/ {1, 1, 0, 3, 0, 0, 0, 1},
	/*BIN*/ {2, 2, 0, 0, 2, 0, 0, 2},
	/*REL*/ {3, 3, 0, 0, 3, 0, 0, 3},
	/*OPEN*/ {0, 0, 0, 0, 0, 0, 0, 0},
	/*CLOSE*/ {0, 1, 2, 3, 0, 0, 0, 1},
	/*PUNCT*/ {1, 1, 0, 1, 1, 0, 1, 1},
	/*INNER*/ {1, 1, 2, 3, 1, 0, 1, 1},
}

// Spacing returns the design-constant spacing unit between two adjacent
// atoms of classes left and right.
func Spacing(left, right Class) int {
	return spacingTable[left][right]
}
