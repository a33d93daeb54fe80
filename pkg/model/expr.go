package model

import (
	"sort"
	"strings"
)

// Expr is a Boolean update rule over named regulator nodes.
// Evaluation resolves regulator values through a lookup function so that the
// same expression can run against any state representation. A regulator the
// lookup does not know about evaluates to false rather than failing: dangling
// references are rejected at load time, but the engine stays defensive if one
// slips through.
type Expr interface {
	// Eval computes the expression over the given regulator values.
	Eval(lookup func(name string) (value bool, ok bool)) bool

	// Regulators returns the sorted, deduplicated set of node names the
	// expression reads.
	Regulators() []string

	// String renders the expression in .bnd syntax.
	String() string
}

// IdentExpr reads a single regulator's current value.
type IdentExpr struct {
	Name string
}

func (e *IdentExpr) Eval(lookup func(string) (bool, bool)) bool {
	v, ok := lookup(e.Name)
	if !ok {
		return false
	}
	return v
}

func (e *IdentExpr) Regulators() []string { return []string{e.Name} }

func (e *IdentExpr) String() string { return e.Name }

// ConstExpr is a constant truth value. Clamping a node during perturbation
// testing replaces its rule with a ConstExpr.
type ConstExpr struct {
	Value bool
}

func (e *ConstExpr) Eval(func(string) (bool, bool)) bool { return e.Value }

func (e *ConstExpr) Regulators() []string { return nil }

func (e *ConstExpr) String() string {
	if e.Value {
		return "1"
	}
	return "0"
}

// NotExpr negates its operand.
type NotExpr struct {
	Operand Expr
}

func (e *NotExpr) Eval(lookup func(string) (bool, bool)) bool {
	return !e.Operand.Eval(lookup)
}

func (e *NotExpr) Regulators() []string { return e.Operand.Regulators() }

func (e *NotExpr) String() string { return "!" + parenthesize(e.Operand) }

// AndExpr is the conjunction of two operands.
type AndExpr struct {
	Left, Right Expr
}

func (e *AndExpr) Eval(lookup func(string) (bool, bool)) bool {
	// No short-circuit subtlety here: Boolean rules are side-effect free.
	return e.Left.Eval(lookup) && e.Right.Eval(lookup)
}

func (e *AndExpr) Regulators() []string {
	return mergeRegulators(e.Left.Regulators(), e.Right.Regulators())
}

func (e *AndExpr) String() string {
	return parenthesize(e.Left) + " & " + parenthesize(e.Right)
}

// OrExpr is the disjunction of two operands.
type OrExpr struct {
	Left, Right Expr
}

func (e *OrExpr) Eval(lookup func(string) (bool, bool)) bool {
	return e.Left.Eval(lookup) || e.Right.Eval(lookup)
}

func (e *OrExpr) Regulators() []string {
	return mergeRegulators(e.Left.Regulators(), e.Right.Regulators())
}

func (e *OrExpr) String() string {
	return parenthesize(e.Left) + " | " + parenthesize(e.Right)
}

// parenthesize wraps composite operands so the rendered rule re-parses with
// the same structure.
func parenthesize(e Expr) string {
	switch e.(type) {
	case *AndExpr, *OrExpr:
		return "(" + e.String() + ")"
	default:
		return e.String()
	}
}

func mergeRegulators(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, name := range a {
		if !seen[name] {
			seen[name] = true
			merged = append(merged, name)
		}
	}
	for _, name := range b {
		if !seen[name] {
			seen[name] = true
			merged = append(merged, name)
		}
	}
	sort.Strings(merged)
	return merged
}

// FormatRule renders a rule for logs and reports, collapsing whitespace.
func FormatRule(e Expr) string {
	if e == nil {
		return ""
	}
	return strings.Join(strings.Fields(e.String()), " ")
}
