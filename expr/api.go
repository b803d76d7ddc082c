// SPDX-License-Identifier: MIT
// Package: paramspace/expr
//
// api.go - public factories and read-only accessors for expression nodes.
//
// Design contract:
//   - One factory per distribution kind; arity is fixed by the Go signature.
//   - NewParameter is the checked entry point for loaders (kind + arity).
//   - Accessors return copies of slices; nodes stay immutable after construction.
//   - With* helpers build modified copies for tree rewriters (labeling).

package expr

import (
	"fmt"
	"slices"
)

// Lift converts v into a Node: nodes pass through, anything else becomes a Literal.
// Slices of plain values are copied so later caller mutation cannot leak in.
// A nil node pointer lifts like untyped nil, to a null Literal.
func Lift(v any) Node {
	switch t := v.(type) {
	case Node:
		if IsNil(t) {
			return &Literal{}
		}
		return t
	case []any:
		return &Literal{value: slices.Clone(t)}
	default:
		return &Literal{value: v}
	}
}

// IsNil reports whether n is nil or a nil pointer of one of the node kinds.
func IsNil(n Node) bool {
	switch t := n.(type) {
	case nil:
		return true
	case *Parameter:
		return t == nil
	case *Call:
		return t == nil
	case *Instance:
		return t == nil
	case *Literal:
		return t == nil
	}
	return false
}

func liftAll(vs []any) []Node {
	out := make([]Node, len(vs))
	for i, v := range vs {
		out[i] = Lift(v)
	}
	return out
}

// NewParameter builds a leaf variable of kind dist, checking the kind and
// the argument count. Argument values are not validated.
//
// Errors:
//   - ErrUnknownDist if dist is not supported.
//   - ErrArity if len(args) does not match the kind.
func NewParameter(dist Dist, args ...any) (*Parameter, error) {
	n, isVariadic := dist.Arity()
	switch {
	case !dist.Valid():
		return nil, fmt.Errorf("NewParameter(%q): %w", dist, ErrUnknownDist)
	case isVariadic && len(args) < n:
		return nil, fmt.Errorf("NewParameter(%q): want at least %d args, got %d: %w", dist, n, len(args), ErrArity)
	case !isVariadic && len(args) != n:
		return nil, fmt.Errorf("NewParameter(%q): want %d args, got %d: %w", dist, n, len(args), ErrArity)
	}

	return &Parameter{dist: dist, args: liftAll(args)}, nil
}

func newParam(dist Dist, args ...any) *Parameter {
	return &Parameter{dist: dist, args: liftAll(args)}
}

// Choice picks one of the options. Options may themselves be expressions;
// their variables are labeled with the same path as the choice.
func Choice(first any, rest ...any) *Parameter {
	return newParam(DistChoice, append([]any{first}, rest...)...)
}

// RandInt draws an integer in [0, upper).
func RandInt(upper any) *Parameter { return newParam(DistRandInt, upper) }

// Bool draws 0 or 1; shorthand for RandInt(2).
func Bool() *Parameter { return RandInt(2) }

// Uniform draws uniformly from [low, high].
func Uniform(low, high any) *Parameter { return newParam(DistUniform, low, high) }

// LogUniform draws exp(uniform(low, high)).
func LogUniform(low, high any) *Parameter { return newParam(DistLogUniform, low, high) }

// Normal draws from a normal distribution with mean mu and deviation sigma.
func Normal(mu, sigma any) *Parameter { return newParam(DistNormal, mu, sigma) }

// LogNormal draws exp(normal(mu, sigma)).
func LogNormal(mu, sigma any) *Parameter { return newParam(DistLogNormal, mu, sigma) }

// QUniform is Uniform quantized to multiples of q.
func QUniform(low, high, q any) *Parameter { return newParam(DistQUniform, low, high, q) }

// QLogUniform is LogUniform quantized to multiples of q.
func QLogUniform(low, high, q any) *Parameter { return newParam(DistQLogUniform, low, high, q) }

// QNormal is Normal quantized to multiples of q.
func QNormal(mu, sigma, q any) *Parameter { return newParam(DistQNormal, mu, sigma, q) }

// QLogNormal is LogNormal quantized to multiples of q.
func QLogNormal(mu, sigma, q any) *Parameter { return newParam(DistQLogNormal, mu, sigma, q) }

// Dist returns the distribution kind.
func (p *Parameter) Dist() Dist { return p.dist }

// Args returns a copy of the argument list.
func (p *Parameter) Args() []Node { return slices.Clone(p.args) }

// Label returns the assigned label ("" when unlabeled; "" is also a valid label).
func (p *Parameter) Label() string { return p.label }

// Labeled reports whether a labeling pass produced this node.
func (p *Parameter) Labeled() bool { return p.labeled }

// WithLabel returns a labeled copy of p whose arguments are args.
// Passing nil args keeps the current arguments.
func (p *Parameter) WithLabel(label string, args []Node) *Parameter {
	if args == nil {
		args = p.args
	}
	return &Parameter{dist: p.dist, args: slices.Clone(args), label: label, labeled: true}
}

// NewCall builds a combinator applying op to args.
func NewCall(op string, args ...any) *Call {
	return &Call{op: op, args: liftAll(args)}
}

// Min is the combinator min(a, b).
func Min(a, b any) *Call { return NewCall(OpMin, a, b) }

// Max is the combinator max(a, b).
func Max(a, b any) *Call { return NewCall(OpMax, a, b) }

// Op returns the operator name.
func (c *Call) Op() string { return c.op }

// Args returns a copy of the child list.
func (c *Call) Args() []Node { return slices.Clone(c.args) }

// WithArgs returns a copy of c with different children.
func (c *Call) WithArgs(args []Node) *Call {
	return &Call{op: c.op, args: slices.Clone(args)}
}

// NewInstance builds a constructible node. Keywords keep their declaration order.
//
// Errors:
//   - ErrEmptyClass if class has no name.
//   - ErrEmptyKeyword for a keyword with an empty name.
//   - ErrDuplicateKeyword when a name repeats.
//   - ErrNilNode for a keyword without a value.
func NewInstance(class ClassID, kwargs ...Keyword) (*Instance, error) {
	if class.Name == "" {
		return nil, fmt.Errorf("NewInstance: %w", ErrEmptyClass)
	}
	if err := checkKeywords(kwargs); err != nil {
		return nil, fmt.Errorf("NewInstance(%s): %w", class, err)
	}

	return &Instance{class: class, kwargs: slices.Clone(kwargs)}, nil
}

// InstanceOf is NewInstance with the class identity taken from T.
func InstanceOf[T any](kwargs ...Keyword) (*Instance, error) {
	return NewInstance(ClassOf[T](), kwargs...)
}

func checkKeywords(kwargs []Keyword) error {
	seen := make(map[string]struct{}, len(kwargs))
	for _, kw := range kwargs {
		if kw.Name == "" {
			return ErrEmptyKeyword
		}
		if IsNil(kw.Value) {
			return fmt.Errorf("keyword %q: %w", kw.Name, ErrNilNode)
		}
		if _, dup := seen[kw.Name]; dup {
			return fmt.Errorf("keyword %q: %w", kw.Name, ErrDuplicateKeyword)
		}
		seen[kw.Name] = struct{}{}
	}
	return nil
}

// Class returns the class identity.
func (in *Instance) Class() ClassID { return in.class }

// Keywords returns a copy of the keyword list in declaration order.
func (in *Instance) Keywords() []Keyword { return slices.Clone(in.kwargs) }

// Len returns the number of keywords.
func (in *Instance) Len() int { return len(in.kwargs) }

// Get returns the child bound to name.
func (in *Instance) Get(name string) (Node, bool) {
	for _, kw := range in.kwargs {
		if kw.Name == name {
			return kw.Value, true
		}
	}
	return nil, false
}

// WithKeywords returns a copy of in with new children. The names must be the
// same set as before; it is meant for rewriters that keep the shape.
func (in *Instance) WithKeywords(kwargs []Keyword) *Instance {
	return &Instance{class: in.class, kwargs: slices.Clone(kwargs)}
}

// NewLiteral wraps a constant.
func NewLiteral(v any) *Literal {
	if s, ok := v.([]any); ok {
		v = slices.Clone(s)
	}
	return &Literal{value: v}
}

// Value returns the constant. Sequence values are copied.
func (l *Literal) Value() any {
	if s, ok := l.value.([]any); ok {
		return slices.Clone(s)
	}
	return l.value
}
