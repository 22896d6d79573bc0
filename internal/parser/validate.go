package parser

import (
	"fmt"

	"github.com/0x4d5352/oniguru/internal/ast"
)

// validateWholePattern runs the checks that can only be decided once
// the entire pattern has been parsed: subroutine target resolution
// (subroutines may reference a group defined later in the pattern,
// unlike backreferences) and the numbered/named capture mixing rule.
func (c *parseContext) validateWholePattern() error {
	for _, sub := range c.pendingSubroutines {
		switch ref := sub.Ref.(type) {
		case int:
			if ref == 0 {
				continue // whole-pattern recursion is always valid
			}
			if ref < 1 || ref > len(c.capturingGroups) {
				return &ast.ReferenceError{Msg: fmt.Sprintf("subroutine references undefined group %d", ref)}
			}
		case string:
			groups, ok := c.namedGroups[ref]
			if !ok {
				return &ast.ReferenceError{Msg: fmt.Sprintf("subroutine references undefined group name %q", ref)}
			}
			if len(groups) > 1 {
				return &ast.ReferenceError{Msg: fmt.Sprintf("subroutine reference to name %q is ambiguous: defined %d times", ref, len(groups))}
			}
		}
	}

	if !c.opts.Rules.CaptureGroup && c.hasNumberedRef && c.hasNamedGroup {
		return &ast.ReferenceError{Msg: "numbered backreferences/subroutines cannot be mixed with named capturing groups"}
	}

	return nil
}
