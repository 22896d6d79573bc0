package traverse

import (
	"testing"

	"github.com/0x4d5352/oniguru/internal/ast"
	"github.com/0x4d5352/oniguru/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.Regex {
	t.Helper()
	re, err := parser.Parse(src, parser.Options{})
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return re
}

func chars(elems []ast.Node) []rune {
	var out []rune
	for _, e := range elems {
		if c, ok := e.(*ast.Character); ok {
			out = append(out, c.Value)
		} else {
			out = append(out, 0)
		}
	}
	return out
}

// unwrapGroups returns a visitor that replaces every non-capturing,
// non-atomic, unflagged Group with its own (single-alternative)
// elements, via ReplaceWithMultiple(..., traverseNew).
func unwrapGroups(traverseNew bool) Visitor {
	return Visitor{
		ast.NodeGroup: {
			Enter: func(p *Path) error {
				g := p.Node.(*ast.Group)
				return p.ReplaceWithMultiple(g.Alternatives[0].Elements, traverseNew)
			},
		},
	}
}

func TestReplaceWithMultipleWithoutTraverseUnwrapsOneLevel(t *testing.T) {
	re := mustParse(t, "(?:a(?:b))")
	if err := Walk(re, unwrapGroups(false)); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	elems := re.Pattern.Alternatives[0].Elements
	if len(elems) != 2 {
		t.Fatalf("expected 2 elements after one pass, got %d: %#v", len(elems), elems)
	}
	if _, ok := elems[0].(*ast.Character); !ok {
		t.Errorf("expected first element to be Character 'a', got %#v", elems[0])
	}
	if _, ok := elems[1].(*ast.Group); !ok {
		t.Errorf("expected second element to still be the unvisited inner Group, got %#v", elems[1])
	}
}

func TestReplaceWithMultipleWithTraverseUnwrapsFully(t *testing.T) {
	re := mustParse(t, "(?:a(?:b))")
	if err := Walk(re, unwrapGroups(true)); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	elems := re.Pattern.Alternatives[0].Elements
	if got := chars(elems); len(got) != 2 || got[0] != 'a' || got[1] != 'b' {
		t.Fatalf("expected fully unwrapped [a b], got %#v", elems)
	}
}

func TestRemoveResumesAtShiftedIndex(t *testing.T) {
	re := mustParse(t, "abc")
	v := Visitor{
		ast.NodeCharacter: {
			Enter: func(p *Path) error {
				if p.Node.(*ast.Character).Value == 'b' {
					return p.Remove()
				}
				return nil
			},
		},
	}
	if err := Walk(re, v); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	got := chars(re.Pattern.Alternatives[0].Elements)
	if len(got) != 2 || got[0] != 'a' || got[1] != 'c' {
		t.Fatalf("expected [a c], got %v", got)
	}
}

func TestRemoveAllPrevSiblings(t *testing.T) {
	re := mustParse(t, "abcd")
	v := Visitor{
		ast.NodeCharacter: {
			Enter: func(p *Path) error {
				if p.Node.(*ast.Character).Value == 'c' {
					return p.RemoveAllPrevSiblings()
				}
				return nil
			},
		},
	}
	if err := Walk(re, v); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	got := chars(re.Pattern.Alternatives[0].Elements)
	if len(got) != 2 || got[0] != 'c' || got[1] != 'd' {
		t.Fatalf("expected [c d], got %v", got)
	}
}

func TestRemoveAllNextSiblings(t *testing.T) {
	re := mustParse(t, "abcd")
	v := Visitor{
		ast.NodeCharacter: {
			Enter: func(p *Path) error {
				if p.Node.(*ast.Character).Value == 'b' {
					return p.RemoveAllNextSiblings()
				}
				return nil
			},
		},
	}
	if err := Walk(re, v); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	got := chars(re.Pattern.Alternatives[0].Elements)
	if len(got) != 2 || got[0] != 'a' || got[1] != 'b' {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func TestSkipPreventsDescendingIntoChildren(t *testing.T) {
	re := mustParse(t, "(?:a)")
	var sawCharacter bool
	v := Visitor{
		ast.NodeGroup: {
			Enter: func(p *Path) error {
				p.Skip()
				return nil
			},
		},
		ast.NodeCharacter: {
			Enter: func(p *Path) error {
				sawCharacter = true
				return nil
			},
		},
	}
	if err := Walk(re, v); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if sawCharacter {
		t.Error("expected Skip to prevent descending into the group's children")
	}
}

func TestReplaceWithSwapsNodeAndDescendsIntoReplacement(t *testing.T) {
	re := mustParse(t, "a")
	var sawReplacement bool
	v := Visitor{
		ast.NodeCharacter: {
			Enter: func(p *Path) error {
				if p.Node.(*ast.Character).Value == 'a' {
					set, _ := ast.NewCharacterSet(ast.CharacterSetDigit, false), error(nil)
					return p.ReplaceWith(set)
				}
				sawReplacement = true
				return nil
			},
		},
		ast.NodeCharacterSet: {
			Enter: func(p *Path) error {
				sawReplacement = true
				return nil
			},
		},
	}
	if err := Walk(re, v); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if _, ok := re.Pattern.Alternatives[0].Elements[0].(*ast.CharacterSet); !ok {
		t.Fatalf("expected element to be replaced with a CharacterSet")
	}
	if !sawReplacement {
		t.Error("expected the replacement node's own Enter callback to fire")
	}
}

func TestWildcardFiresAroundTypeKeyedCallbacks(t *testing.T) {
	re := mustParse(t, "(?:a)")
	var order []string
	v := Visitor{
		Wildcard: {
			Enter: func(p *Path) error { order = append(order, "*enter:"+string(p.Node.Type())); return nil },
			Exit:  func(p *Path) error { order = append(order, "*exit:"+string(p.Node.Type())); return nil },
		},
		ast.NodeCharacter: {
			Enter: func(p *Path) error { order = append(order, "enter:Character"); return nil },
		},
	}
	if err := Walk(re, v); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	foundPair := false
	for i := 0; i+1 < len(order); i++ {
		if order[i] == "*enter:Character" && order[i+1] == "enter:Character" {
			foundPair = true
		}
	}
	if !foundPair {
		t.Fatalf("expected wildcard-enter to fire immediately before the Character type-enter, got %v", order)
	}
	if order[0] != "*enter:Regex" {
		t.Fatalf("expected wildcard-enter to fire on every node including the root, got %v", order)
	}
	if order[len(order)-1] != "*exit:Regex" {
		t.Fatalf("expected wildcard-exit to fire last, got %v", order)
	}
}

func TestWildcardSkippedWhenNodeRemoved(t *testing.T) {
	re := mustParse(t, "abc")
	var wildcardExits int
	v := Visitor{
		Wildcard: {
			Exit: func(p *Path) error { wildcardExits++; return nil },
		},
		ast.NodeCharacter: {
			Enter: func(p *Path) error {
				if p.Node.(*ast.Character).Value == 'b' {
					return p.Remove()
				}
				return nil
			},
		},
	}
	if err := Walk(re, v); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	// Regex, Pattern, Alternative, 'a', 'c' exit normally; 'b' is removed
	// before its own exit (wildcard or otherwise) ever fires.
	if wildcardExits != 5 {
		t.Fatalf("expected 5 wildcard-exit calls (removed node excluded), got %d", wildcardExits)
	}
}

func TestRootWalkInvokesEnterOnRegex(t *testing.T) {
	re := mustParse(t, "a")
	var sawRegex bool
	v := Visitor{
		ast.NodeRegex: {Enter: func(p *Path) error { sawRegex = true; return nil }},
	}
	if err := Walk(re, v); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if !sawRegex {
		t.Error("expected the Regex node's own Enter callback to fire")
	}
}
