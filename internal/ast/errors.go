package ast

// The error taxonomy from spec.md §7. Every public operation
// (parse/traverse/optimize, and the node factories) fails by returning
// one of these, never a bare fmt.Errorf string. Propagation is
// all-or-nothing: there is no partial-result mode, and the AST under
// construction is discarded on any error.

// SyntaxError reports malformed source: unclosed class/group, invalid
// escape, empty class, invalid range, invalid property name, or an
// out-of-range code point.
type SyntaxError struct {
	Msg string
	Pos int // byte offset into the source, -1 if not applicable
}

func (e *SyntaxError) Error() string { return "syntax error: " + e.Msg }

// ReferenceError reports a backreference/subroutine target that is
// missing, lies to the right, is ambiguously duplicate-named (for
// subroutines), or mixes numbered refs with named captures in a way
// Oniguruma forbids.
type ReferenceError struct {
	Msg string
}

func (e *ReferenceError) Error() string { return "reference error: " + e.Msg }

// FeatureError reports a construct that is syntactically well-formed
// but not supported in its context: disallowed lookbehind content,
// nested absent functions, unsupported subroutine forms.
type FeatureError struct {
	Msg string
}

func (e *FeatureError) Error() string { return "feature error: " + e.Msg }

// InvariantError reports AST construction from ill-formed inputs (a
// descending range, a non-quantifiable quantifier element, and so on).
// This indicates a bug in a caller or in a transform, not in user input.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return "invariant violation: " + e.Msg }

// OptimizerNonConvergingError reports that the optimizer's fixed-point
// loop exceeded its safety bound without reaching a stable AST.
type OptimizerNonConvergingError struct {
	Passes int
}

func (e *OptimizerNonConvergingError) Error() string {
	return "optimizer did not converge within its pass budget"
}
