// Example: parsing a markdown document with embedded math and printing
// its view tree.
package main

import (
	"fmt"
	"strings"

	"github.com/lambdalang/lambda"
)

func main() {
	src := `# Quadratic formula

Given $a x^2 + b x + c = 0$ with $a \neq 0$, the roots are:

$$x = \frac{-b \pm \sqrt{b^2 - 4ac}}{2a}$$

*Derivation* sketched below.
`

	vctx := lambda.NewContext()
	defer vctx.Close()

	root, diags := lambda.Parse(vctx, src)
	if diags.HasErrors() {
		for _, e := range diags.Entries {
			fmt.Println("diagnostic:", e.Error())
		}
	}

	fmt.Println("=== Lambda document demo ===")
	fmt.Println()

	out, fdiags := lambda.Format(vctx, root, "markdown")
	if fdiags.HasErrors() {
		fmt.Println("format failed")
	} else {
		fmt.Println("--- round-tripped markdown ---")
		fmt.Print(out)
	}

	fmt.Println("--- view tree ---")
	tree := lambda.ToViewTree(root, lambda.Options{TabWidth: 4})
	printNode(tree, 0)

	fmt.Println("\n--- target demo ---")
	target, err := lambda.TargetFromString("https://example.com/docs/quadratic.md")
	if err != nil {
		fmt.Println("target parse error:", err)
	} else {
		fmt.Printf("target kind=%v local=%v url=%s\n", target.Kind(), target.IsLocal(), target.ToURLString())
	}
}

func printNode(n lambda.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case *lambda.Page:
		fmt.Printf("%sPage (%d children)\n", indent, len(v.Children))
		for _, c := range v.Children {
			printNode(c, depth+1)
		}
	case *lambda.Block:
		fmt.Printf("%sBlock kind=%s level=%d\n", indent, v.Kind, v.Level)
		for _, c := range v.Children {
			printNode(c, depth+1)
		}
	case *lambda.Inline:
		fmt.Printf("%sInline kind=%s\n", indent, v.Kind)
		for _, c := range v.Children {
			printNode(c, depth+1)
		}
	case *lambda.TextRun:
		fmt.Printf("%sTextRun %q\n", indent, v.Text)
	case *lambda.MathElement:
		fmt.Printf("%sMathElement display=%v\n", indent, v.Display)
		printMath(v.Math, depth+1)
	case *lambda.Line:
		fmt.Printf("%sLine (%d children)\n", indent, len(v.Children))
		for _, c := range v.Children {
			printNode(c, depth+1)
		}
	case *lambda.Group:
		fmt.Printf("%sGroup\n", indent)
		for _, c := range v.Children {
			printNode(c, depth+1)
		}
	default:
		fmt.Printf("%s<unknown node>\n", indent)
	}
}

func printMath(m lambda.MathKind, depth int) {
	if m == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	switch v := m.(type) {
	case *lambda.Fraction:
		fmt.Printf("%sFraction\n", indent)
		printMath(v.Num, depth+1)
		printMath(v.Denom, depth+1)
	case *lambda.Script:
		fmt.Printf("%sScript\n", indent)
		printMath(v.Base, depth+1)
		printMath(v.Sub, depth+1)
		printMath(v.Sup, depth+1)
	case *lambda.Radical:
		fmt.Printf("%sRadical\n", indent)
		printMath(v.Radicand, depth+1)
		printMath(v.Index, depth+1)
	case *lambda.Operator:
		fmt.Printf("%sOperator %s\n", indent, v.Symbol)
		printMath(v.Lower, depth+1)
		printMath(v.Upper, depth+1)
	case *lambda.Row:
		fmt.Printf("%sRow (%d items)\n", indent, len(v.Items))
		for _, it := range v.Items {
			printMath(it, depth+1)
		}
	case *lambda.Matrix:
		fmt.Printf("%sMatrix %dx%d delim=%s\n", indent, v.Rows, v.Cols, v.Delim)
	case *lambda.Accent:
		fmt.Printf("%sAccent %s\n", indent, v.Symbol)
	case *lambda.Atom:
		fmt.Printf("%sAtom %s\n", indent, v.Symbol)
	default:
		fmt.Printf("%s<unknown math>\n", indent)
	}
}
