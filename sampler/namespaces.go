package sampler

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/paramspace/expr"
)

var (
	// ErrMissingValue is returned by Assign when an active variable has no value.
	ErrMissingValue = errors.New("sampler: no value for label")

	// ErrChoiceIndex is returned when a choice value is not a valid option index.
	ErrChoiceIndex = errors.New("sampler: choice index out of range")

	// ErrNotNumeric is returned by min/max for non-numeric operands.
	ErrNotNumeric = errors.New("sampler: operand is not numeric")

	// ErrLabelArg is returned by a Point callable whose first argument is not
	// a variable label, e.g. a generic call named after a distribution.
	ErrLabelArg = errors.New("sampler: distribution call without a label")
)

// Apply is the engine-neutral record of a call: the symbol, the variable
// label for distributions, and the translated arguments. Adapters emit it for
// symbols no namespace resolves, so an adapter without namespaces (Describe)
// renders the whole tree this way.
type Apply struct {
	Fn    string  `json:"fn" yaml:"fn"`
	Label *string `json:"label,omitempty" yaml:"label,omitempty"`
	Args  []any   `json:"args" yaml:"args"`
}

// Missing marks a variable whose label has no value in a point assignment.
// It only survives translation when the variable sits in an active branch.
type Missing struct {
	Label string
}

// Builtins returns the scope namespace with numeric min and max.
// Either operand being Missing yields that Missing.
func Builtins() Names {
	return Names{
		expr.OpMin: func(args ...any) (any, error) { return pick(args, func(a, b float64) bool { return a < b }) },
		expr.OpMax: func(args ...any) (any, error) { return pick(args, func(a, b float64) bool { return a > b }) },
	}
}

// pick returns the argument (as given, type preserved) that wins better.
func pick(args []any, better func(a, b float64) bool) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no operands: %w", ErrNotNumeric)
	}
	for _, a := range args {
		if m, ok := a.(Missing); ok {
			return m, nil
		}
	}

	best := args[0]
	bestF, ok := expr.AsFloat(best)
	if !ok {
		return nil, fmt.Errorf("%v (%T): %w", best, best, ErrNotNumeric)
	}
	for _, a := range args[1:] {
		f, ok := expr.AsFloat(a)
		if !ok {
			return nil, fmt.Errorf("%v (%T): %w", a, a, ErrNotNumeric)
		}
		if better(f, bestF) {
			best, bestF = a, f
		}
	}

	return best, nil
}

// Point returns a distribution namespace that evaluates every variable at a
// fixed assignment label -> value. A choice's value is the index of the chosen
// option; the result is that option's translated value. Labels without a value
// evaluate to Missing.
func Point(values map[string]any) Names {
	ns := make(Names, len(expr.Dists()))
	for _, d := range expr.Dists() {
		if d == expr.DistChoice {
			ns[string(d)] = func(args ...any) (any, error) {
				lbl, err := labelArg(d, args)
				if err != nil {
					return nil, err
				}
				v, ok := values[lbl]
				if !ok {
					return Missing{Label: lbl}, nil
				}
				return chooseOption(lbl, v, args[1:])
			}
			continue
		}
		ns[string(d)] = func(args ...any) (any, error) {
			lbl, err := labelArg(d, args)
			if err != nil {
				return nil, err
			}
			v, ok := values[lbl]
			if !ok {
				return Missing{Label: lbl}, nil
			}
			return v, nil
		}
	}

	return ns
}

// labelArg returns the label a distribution callable receives first.
func labelArg(d expr.Dist, args []any) (string, error) {
	if len(args) > 0 {
		if lbl, ok := args[0].(string); ok {
			return lbl, nil
		}
	}
	return "", fmt.Errorf("%s: %w", d, ErrLabelArg)
}

// chooseOption bounds-checks the float before converting it, since int() of
// a huge or infinite value wraps.
func chooseOption(lbl string, v any, options []any) (any, error) {
	f, ok := expr.AsFloat(v)
	if !ok || f != math.Trunc(f) || f < 0 || f >= float64(len(options)) {
		return nil, fmt.Errorf("label %q: value %v for %d options: %w", lbl, v, len(options), ErrChoiceIndex)
	}
	return options[int(f)], nil
}
