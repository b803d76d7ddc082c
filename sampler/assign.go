package sampler

import (
	"fmt"

	"github.com/katalvlaran/paramspace/expr"
)

// Describe renders a labeled tree with every call as an Apply record, a
// serializable form for engines that consume the space as data.
func Describe(tree expr.Node, opts ...Option) (any, error) {
	return New(nil, nil, opts...).Translate(tree)
}

// Assign evaluates a labeled tree at a concrete assignment label -> value and
// returns the sampled value tree: Instances become maps with the class key,
// min/max are applied, choices pick their option by index.
//
// Variables in choice options that were not picked need no value. A variable
// that is still needed but has no value fails with ErrMissingValue.
func Assign(tree expr.Node, values map[string]any, opts ...Option) (any, error) {
	out, err := New(Point(values), Builtins(), opts...).Translate(tree)
	if err != nil {
		return nil, err
	}
	if err := Complete(out); err != nil {
		return nil, fmt.Errorf("sampler: Assign: %w", err)
	}

	return out, nil
}

// Complete reports ErrMissingValue, naming a label, if a Missing is left
// anywhere in a translated value.
func Complete(v any) error {
	if lbl, ok := findMissing(v); ok {
		return fmt.Errorf("label %q: %w", lbl, ErrMissingValue)
	}
	return nil
}

// findMissing reports the first Missing left in a translated value.
func findMissing(v any) (string, bool) {
	switch t := v.(type) {
	case Missing:
		return t.Label, true
	case map[string]any:
		for _, c := range t {
			if lbl, ok := findMissing(c); ok {
				return lbl, true
			}
		}
	case []any:
		for _, c := range t {
			if lbl, ok := findMissing(c); ok {
				return lbl, true
			}
		}
	case Apply:
		return findMissing(t.Args)
	}
	return "", false
}
