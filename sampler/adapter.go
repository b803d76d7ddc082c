// Package sampler translates a labeled expression tree into the
// representation an external sampling engine consumes.
//
// Names of distribution kinds and combinators are resolved through two
// namespaces given at construction time: a distribution namespace, then a
// scope namespace. The first one defining a name wins. A name neither defines
// is not an error: it stays an opaque string, and the node it heads becomes an
// Apply record carrying that string.
//
// Instances become plain maps holding the translated keyword values plus the
// reserved class key (expr.ClassKey, or expr.ModuleKey/expr.NameKey with
// WithSplitClassKeys).
package sampler

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/katalvlaran/paramspace/expr"
)

var (
	// ErrNilTree is returned when Translate receives a nil tree.
	ErrNilTree = errors.New("sampler: tree is nil")

	// ErrUnlabeled is returned for a Parameter that did not go through a labeling pass.
	ErrUnlabeled = errors.New("sampler: parameter is not labeled")
)

// Func is an engine callable. Distribution callables receive the label as
// their first argument, followed by the translated distribution arguments.
// Combinator callables receive the translated children.
type Func func(args ...any) (any, error)

// Namespace resolves a symbol to an engine callable.
type Namespace interface {
	Lookup(name string) (Func, bool)
}

// Names is a map-backed Namespace.
type Names map[string]Func

// Lookup implements Namespace.
func (n Names) Lookup(name string) (Func, bool) {
	fn, ok := n[name]
	return fn, ok && fn != nil
}

// Option configures an Adapter.
type Option func(*adapterConfig)

type adapterConfig struct {
	splitClassKeys bool
	logger         *slog.Logger
}

// WithSplitClassKeys emits the two-key class form (__module__, __name__)
// instead of the single __class__ key.
func WithSplitClassKeys() Option {
	return func(c *adapterConfig) {
		c.splitClassKeys = true
	}
}

// WithLogger sets the logger used to report unresolved symbols at debug level.
// Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("sampler: WithLogger(nil)")
	}
	return func(c *adapterConfig) {
		c.logger = l
	}
}

// Adapter resolves symbols and translates labeled trees. It holds no mutable
// state and is safe for concurrent use if its namespaces are.
type Adapter struct {
	namespaces []Namespace
	cfg        adapterConfig
}

// New builds an Adapter over the distribution namespace dists and the
// combinator namespace scope, checked in that order. Either may be nil.
func New(dists, scope Namespace, opts ...Option) *Adapter {
	cfg := adapterConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Adapter{cfg: cfg}
	for _, ns := range []Namespace{dists, scope} {
		if ns != nil {
			a.namespaces = append(a.namespaces, ns)
		}
	}

	return a
}

// Resolve returns the callable bound to name by the first namespace defining
// it, or name itself as an opaque string literal.
func (a *Adapter) Resolve(name string) any {
	if fn, ok := a.lookup(name); ok {
		return fn
	}
	return name
}

func (a *Adapter) lookup(name string) (Func, bool) {
	for _, ns := range a.namespaces {
		if fn, ok := ns.Lookup(name); ok {
			return fn, true
		}
	}
	return nil, false
}

// Translate converts a labeled tree into the engine representation.
//
// Errors:
//   - ErrNilTree for a nil tree.
//   - ErrUnlabeled for a Parameter without a label.
//   - errors returned by engine callables, wrapped with the symbol name.
func (a *Adapter) Translate(tree expr.Node) (any, error) {
	if expr.IsNil(tree) {
		return nil, ErrNilTree
	}

	t := &translator{a: a}
	if err := tree.Accept(t); err != nil {
		return nil, err
	}

	return t.out, nil
}

// translator is the per-call visitor; out holds the value of the last visit.
type translator struct {
	a   *Adapter
	out any
}

func (t *translator) VisitParameter(p *expr.Parameter) error {
	if !p.Labeled() {
		return fmt.Errorf("sampler: %s: %w", p, ErrUnlabeled)
	}
	args, err := t.all(p.Args())
	if err != nil {
		return err
	}
	lbl := p.Label()

	t.out, err = t.apply(string(p.Dist()), &lbl, append([]any{lbl}, args...))
	return err
}

func (t *translator) VisitCall(c *expr.Call) error {
	args, err := t.all(c.Args())
	if err != nil {
		return err
	}

	t.out, err = t.apply(c.Op(), nil, args)
	return err
}

func (t *translator) VisitInstance(in *expr.Instance) error {
	kwargs := in.Keywords()
	m := make(map[string]any, len(kwargs)+2)
	for _, kw := range kwargs {
		if err := kw.Value.Accept(t); err != nil {
			return err
		}
		m[kw.Name] = t.out
	}

	class := in.Class()
	if t.a.cfg.splitClassKeys {
		m[expr.ModuleKey] = class.Module
		m[expr.NameKey] = class.Name
	} else {
		m[expr.ClassKey] = class.String()
	}
	t.out = m

	return nil
}

func (t *translator) VisitLiteral(l *expr.Literal) error {
	t.out = l.Value()
	return nil
}

func (t *translator) all(nodes []expr.Node) ([]any, error) {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		if err := n.Accept(t); err != nil {
			return nil, err
		}
		out[i] = t.out
	}
	return out, nil
}

// apply calls the callable bound to name, or degrades to an Apply record
// when nothing resolves it. callArgs already includes the label for
// distributions; label is only used for the Apply fallback.
func (t *translator) apply(name string, label *string, callArgs []any) (any, error) {
	sym := t.a.Resolve(name)
	fn, ok := sym.(Func)
	if !ok {
		t.a.cfg.logger.Debug("sampler: unresolved symbol kept as literal", slog.String("symbol", name))
		args := callArgs
		if label != nil {
			args = callArgs[1:]
		}
		return Apply{Fn: sym.(string), Label: label, Args: slices.Clone(args)}, nil
	}

	v, err := fn(callArgs...)
	if err != nil {
		return nil, fmt.Errorf("sampler: %s: %w", name, err)
	}
	return v, nil
}
