package formula

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/recipegrid/internal/errs"
	"github.com/zclconf/go-cty/cty"
)

// Equation is a parsed "lhs = rhs" formula.
type Equation struct {
	source string
	lhs    hclsyntax.Expression
	rhs    hclsyntax.Expression
	vars   []string
}

// Parse compiles an equation. Exactly one "=" must separate the two sides.
func Parse(source string) (*Equation, error) {
	split := equalsIndex(source)
	if split < 0 {
		return nil, fmt.Errorf("formula %q: expected exactly one '='", source)
	}
	lhs, err := parseSide(source[:split], source)
	if err != nil {
		return nil, err
	}
	rhs, err := parseSide(source[split+1:], source)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, side := range []hclsyntax.Expression{lhs, rhs} {
		for _, traversal := range side.Variables() {
			seen[traversal.RootName()] = struct{}{}
		}
	}
	vars := make([]string, 0, len(seen))
	for v := range seen {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	return &Equation{source: source, lhs: lhs, rhs: rhs, vars: vars}, nil
}

// equalsIndex returns the position of the single assignment '=' in s, or -1
// if there is none or more than one.
func equalsIndex(s string) int {
	found := -1
	for i := 0; i < len(s); i++ {
		if s[i] != '=' {
			continue
		}
		if i > 0 && strings.ContainsRune("=<>!", rune(s[i-1])) {
			return -1
		}
		if i+1 < len(s) && s[i+1] == '=' {
			return -1
		}
		if found >= 0 {
			return -1
		}
		found = i
	}
	return found
}

func parseSide(src, whole string) (hclsyntax.Expression, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("formula %q: empty side", whole)
	}
	expr, diags := hclsyntax.ParseExpression([]byte(src), "formula", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("formula %q: %w", whole, diags)
	}
	if err := checkSupported(expr); err != nil {
		return nil, fmt.Errorf("formula %q: %w", whole, err)
	}
	return expr, nil
}

// checkSupported rejects everything but arithmetic over identifiers and numbers.
func checkSupported(expr hclsyntax.Expression) error {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		if e.Val.Type() != cty.Number || e.Val.IsNull() {
			return fmt.Errorf("only numeric literals are allowed")
		}
		return nil
	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			return fmt.Errorf("%q: column references must be plain identifiers", e.Traversal.RootName())
		}
		return nil
	case *hclsyntax.ParenthesesExpr:
		return checkSupported(e.Expression)
	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return fmt.Errorf("unsupported unary operator")
		}
		return checkSupported(e.Val)
	case *hclsyntax.BinaryOpExpr:
		switch e.Op {
		case hclsyntax.OpAdd, hclsyntax.OpSubtract, hclsyntax.OpMultiply, hclsyntax.OpDivide:
		default:
			return fmt.Errorf("unsupported operator")
		}
		if err := checkSupported(e.LHS); err != nil {
			return err
		}
		return checkSupported(e.RHS)
	default:
		return fmt.Errorf("unsupported expression %T", expr)
	}
}

// String returns the source text.
func (eq *Equation) String() string { return eq.source }

// Variables returns the column keys referenced by the equation, sorted.
func (eq *Equation) Variables() []string {
	return append([]string(nil), eq.vars...)
}

// Has reports whether name is referenced by the equation.
func (eq *Equation) Has(name string) bool {
	i := sort.SearchStrings(eq.vars, name)
	return i < len(eq.vars) && eq.vars[i] == name
}

// Solve computes target from the other variables in bindings. The value of
// target in bindings, if any, is ignored.
func (eq *Equation) Solve(target string, bindings map[string]float64) (float64, error) {
	if !eq.Has(target) {
		return 0, fmt.Errorf("%w: %q does not appear in %q", errs.ErrCalculation, target, eq.source)
	}
	inLHS, inRHS := occurrences(eq.lhs, target), occurrences(eq.rhs, target)
	switch {
	case inLHS == 1 && inRHS == 0:
		other, err := evaluate(eq.rhs, bindings, target)
		if err != nil {
			return 0, err
		}
		return isolate(eq.lhs, other, bindings, target)
	case inLHS == 0 && inRHS == 1:
		other, err := evaluate(eq.lhs, bindings, target)
		if err != nil {
			return 0, err
		}
		return isolate(eq.rhs, other, bindings, target)
	default:
		return eq.solveLinear(target, bindings)
	}
}

// isolate solves side(target) == value by undoing each operation between the
// root of side and the single occurrence of target.
func isolate(side hclsyntax.Expression, value float64, bindings map[string]float64, target string) (float64, error) {
	switch e := side.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		return value, nil
	case *hclsyntax.ParenthesesExpr:
		return isolate(e.Expression, value, bindings, target)
	case *hclsyntax.UnaryOpExpr:
		return isolate(e.Val, -value, bindings, target)
	case *hclsyntax.BinaryOpExpr:
		left := occurrences(e.LHS, target) > 0
		known := e.RHS
		unknown := e.LHS
		if !left {
			known, unknown = e.LHS, e.RHS
		}
		k, err := evaluate(known, bindings, target)
		if err != nil {
			return 0, err
		}
		var next float64
		switch {
		case e.Op == hclsyntax.OpAdd:
			next = value - k
		case e.Op == hclsyntax.OpSubtract && left:
			next = value + k
		case e.Op == hclsyntax.OpSubtract:
			next = k - value
		case e.Op == hclsyntax.OpMultiply:
			if k == 0 {
				return 0, divisionByZero()
			}
			next = value / k
		case e.Op == hclsyntax.OpDivide && left:
			if k == 0 {
				return 0, divisionByZero()
			}
			next = value * k
		case e.Op == hclsyntax.OpDivide:
			if value == 0 {
				return 0, divisionByZero()
			}
			next = k / value
		}
		return isolate(unknown, next, bindings, target)
	default:
		return 0, fmt.Errorf("%w: cannot isolate %q", errs.ErrCalculation, target)
	}
}

// solveLinear handles an unknown that occurs more than once by sampling the
// residual lhs-rhs at three points. Only residuals linear in target are solved.
func (eq *Equation) solveLinear(target string, bindings map[string]float64) (float64, error) {
	residual := func(x float64) (float64, error) {
		b := make(map[string]float64, len(bindings)+1)
		for k, v := range bindings {
			b[k] = v
		}
		b[target] = x
		l, err := evaluate(eq.lhs, b, "")
		if err != nil {
			return 0, err
		}
		r, err := evaluate(eq.rhs, b, "")
		if err != nil {
			return 0, err
		}
		return l - r, nil
	}
	f1, err := residual(1)
	if err != nil {
		return 0, err
	}
	f2, err := residual(2)
	if err != nil {
		return 0, err
	}
	f3, err := residual(3)
	if err != nil {
		return 0, err
	}
	slope := f2 - f1
	scale := math.Max(1, math.Max(math.Abs(f1), math.Max(math.Abs(f2), math.Abs(f3))))
	if math.Abs((f3-f2)-slope) > 1e-9*scale {
		return 0, fmt.Errorf("%w: %q is not linear in %q", errs.ErrCalculation, eq.source, target)
	}
	if slope == 0 {
		return 0, divisionByZero()
	}
	return 1 - f1/slope, nil
}

// evaluate computes expr from bindings. skip names a variable that must not
// be read; reaching it is a solver bug surfaced as an error.
func evaluate(expr hclsyntax.Expression, bindings map[string]float64, skip string) (float64, error) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		f, _ := e.Val.AsBigFloat().Float64()
		return f, nil
	case *hclsyntax.ScopeTraversalExpr:
		name := e.Traversal.RootName()
		v, ok := bindings[name]
		if !ok || name == skip {
			return 0, fmt.Errorf("%w: no value bound for %q", errs.ErrCalculation, name)
		}
		return v, nil
	case *hclsyntax.ParenthesesExpr:
		return evaluate(e.Expression, bindings, skip)
	case *hclsyntax.UnaryOpExpr:
		v, err := evaluate(e.Val, bindings, skip)
		return -v, err
	case *hclsyntax.BinaryOpExpr:
		l, err := evaluate(e.LHS, bindings, skip)
		if err != nil {
			return 0, err
		}
		r, err := evaluate(e.RHS, bindings, skip)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case hclsyntax.OpAdd:
			return l + r, nil
		case hclsyntax.OpSubtract:
			return l - r, nil
		case hclsyntax.OpMultiply:
			return l * r, nil
		case hclsyntax.OpDivide:
			if r == 0 {
				return 0, divisionByZero()
			}
			return l / r, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported expression %T", errs.ErrCalculation, expr)
}

// occurrences counts references to name in expr.
func occurrences(expr hclsyntax.Expression, name string) int {
	switch e := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if e.Traversal.RootName() == name {
			return 1
		}
	case *hclsyntax.ParenthesesExpr:
		return occurrences(e.Expression, name)
	case *hclsyntax.UnaryOpExpr:
		return occurrences(e.Val, name)
	case *hclsyntax.BinaryOpExpr:
		return occurrences(e.LHS, name) + occurrences(e.RHS, name)
	}
	return 0
}

func divisionByZero() error {
	return fmt.Errorf("%w: division by zero", errs.ErrCalculation)
}
