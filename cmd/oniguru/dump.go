package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/traverse"
)

// depthPalette cycles foreground colors by nesting depth, the same
// idea as the teacher renderer's per-depth subexpression fill cycling,
// adapted from box colors to terminal text colors.
var depthPalette = []lipgloss.Color{"39", "214", "135", "78", "203"}

// dumpTree prints an indented, depth-colored one-line-per-node summary
// of root by driving a traverse.Walk: every node kind shares the same
// Enter/Exit pair, which write the line and adjust the indent level.
func dumpTree(w io.Writer, root ast.Node, color bool) error {
	depth := 0
	describeLine := func(p *traverse.Path) error {
		indent := strings.Repeat("  ", depth)
		text := indent + describeNode(p.Node)
		if color {
			style := lipgloss.NewStyle().Foreground(depthPalette[depth%len(depthPalette)])
			text = style.Render(text)
		}
		fmt.Fprintln(w, text)
		depth++
		return nil
	}
	dedent := func(p *traverse.Path) error {
		depth--
		return nil
	}

	v := traverse.Visitor{traverse.Wildcard: traverse.NodeVisitor{Enter: describeLine, Exit: dedent}}
	return traverse.Walk(root, v)
}

// describeNode renders one human-readable line per node kind. It's
// deliberately terse (no attempt to reproduce generated source); use
// the optimize/generate path for that.
func describeNode(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Regex:
		return "Regex"
	case *ast.Pattern:
		return fmt.Sprintf("Pattern (%d alternative(s))", len(v.Alternatives))
	case *ast.Alternative:
		return fmt.Sprintf("Alternative (%d element(s))", len(v.Elements))
	case *ast.Character:
		return fmt.Sprintf("Character %q", v.Value)
	case *ast.CharacterClass:
		return fmt.Sprintf("CharacterClass (kind=%s negate=%t)", v.Kind, v.Negate)
	case *ast.CharacterClassRange:
		return fmt.Sprintf("CharacterClassRange %q-%q", v.Min.Value, v.Max.Value)
	case *ast.CharacterSet:
		return fmt.Sprintf("CharacterSet (kind=%s value=%q negate=%t)", v.Kind, v.Value, v.Negate)
	case *ast.Assertion:
		return fmt.Sprintf("Assertion (kind=%s negate=%t)", v.Kind, v.Negate)
	case *ast.LookaroundAssertion:
		return fmt.Sprintf("LookaroundAssertion (kind=%s negate=%t)", v.Kind, v.Negate)
	case *ast.Group:
		return "Group"
	case *ast.CapturingGroup:
		return fmt.Sprintf("CapturingGroup #%d %q", v.Number, v.Name)
	case *ast.AbsentFunction:
		return fmt.Sprintf("AbsentFunction (kind=%s)", v.Kind)
	case *ast.Backreference:
		return fmt.Sprintf("Backreference (ref=%v orphan=%t)", v.Ref, v.Orphan)
	case *ast.Subroutine:
		return fmt.Sprintf("Subroutine (ref=%v)", v.Ref)
	case *ast.Quantifier:
		return fmt.Sprintf("Quantifier {%d,%d} kind=%s", v.Min, v.Max, v.Kind)
	case *ast.Directive:
		return fmt.Sprintf("Directive (kind=%s)", v.Kind)
	default:
		return fmt.Sprintf("%T", n)
	}
}
