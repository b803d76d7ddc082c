// SPDX-License-Identifier: MIT
// Package: paramspace
//
// paramspace.go - LoadParam and the Sample default helper.
//
// Flow of LoadParam(ctx, name, space, scope, engine, dec):
//  1. scope has name       -> take that value tree as is.
//  2. otherwise            -> label space under root path name,
//     translate with the engine's namespaces, ask the engine for a point.
//  3. decode the value tree into objects.

package paramspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/paramspace/decode"
	"github.com/katalvlaran/paramspace/expr"
	"github.com/katalvlaran/paramspace/label"
	"github.com/katalvlaran/paramspace/sampler"
)

var tracer = otel.Tracer("paramspace")

var (
	// ErrNoEngine is returned when a value must be sampled but no engine was given.
	ErrNoEngine = errors.New("paramspace: no engine to sample from")

	// ErrNoSpace is returned when a value must be sampled but the space is nil.
	ErrNoSpace = errors.New("paramspace: no space to sample from")
)

// Scope holds already chosen values, keyed by parameter name.
// *trial.Trial and Values implement it.
type Scope interface {
	Lookup(name string) (any, bool)
}

// Values is a map-backed Scope.
type Values map[string]any

// Lookup implements Scope.
func (v Values) Lookup(name string) (any, bool) {
	x, ok := v[name]
	return x, ok
}

// Engine is a sampling backend. Namespaces gives the callables a labeled tree
// is translated with; Sample turns the translated representation into a
// sampled value tree.
type Engine interface {
	Namespaces() (dists, scope sampler.Namespace)
	Sample(ctx context.Context, rep any) (any, error)
}

// Fixed returns an Engine that evaluates every space at one assignment
// label -> value (see sampler.Point). Sampling fails with
// sampler.ErrMissingValue when an active variable has no value.
func Fixed(values map[string]any) Engine {
	return fixed{values: values}
}

type fixed struct {
	values map[string]any
}

func (f fixed) Namespaces() (sampler.Namespace, sampler.Namespace) {
	return sampler.Point(f.values), sampler.Builtins()
}

func (f fixed) Sample(_ context.Context, rep any) (any, error) {
	if err := sampler.Complete(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// LoadParam returns the decoded value of parameter name: the scope's value if
// it has one, a fresh sample from space otherwise. A nil scope is empty; a nil
// dec decodes through decode.Default().
//
// Errors:
//   - ErrNoSpace / ErrNoEngine when sampling is needed and impossible.
//   - label, sampler and engine errors, wrapped with the parameter name.
//   - decode errors (e.g. decode.ErrUnresolvedClass).
func LoadParam(ctx context.Context, name string, space expr.Node, scope Scope, eng Engine, dec *decode.Decoder) (out any, err error) {
	ctx, span := tracer.Start(ctx, "paramspace.LoadParam", trace.WithAttributes(attribute.String("param.name", name)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if dec == nil {
		dec = decode.New(nil)
	}

	// 1) Scope first.
	if scope != nil {
		if v, ok := scope.Lookup(name); ok {
			span.SetAttributes(attribute.Bool("param.from_scope", true))
			slog.Debug("paramspace: parameter taken from scope", slog.String("name", name))
			return dec.Decode(v)
		}
	}

	// 2) Sample.
	v, err := sample(ctx, name, space, eng)
	if err != nil {
		return nil, err
	}

	// 3) Decode.
	return dec.Decode(v)
}

func sample(ctx context.Context, name string, space expr.Node, eng Engine) (any, error) {
	if expr.IsNil(space) {
		return nil, fmt.Errorf("LoadParam(%q): %w", name, ErrNoSpace)
	}
	if eng == nil {
		return nil, fmt.Errorf("LoadParam(%q): %w", name, ErrNoEngine)
	}

	res, err := label.Label(space, label.WithRootPath(name))
	if err != nil {
		return nil, fmt.Errorf("LoadParam(%q): %w", name, err)
	}
	dists, scope := eng.Namespaces()
	rep, err := sampler.New(dists, scope).Translate(res.Tree)
	if err != nil {
		return nil, fmt.Errorf("LoadParam(%q): %w", name, err)
	}
	v, err := eng.Sample(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("LoadParam(%q): sample: %w", name, err)
	}
	slog.Debug("paramspace: parameter sampled", slog.String("name", name), slog.Int("variables", len(res.Entries)))

	return v, nil
}

// Sample is a default-value provider for a parameter: Default draws from
// Space unless the scope already chose a value.
type Sample struct {
	Space expr.Node
}

// Default is LoadParam with the receiver's space and no scope.
func (s Sample) Default(ctx context.Context, name string, eng Engine, dec *decode.Decoder) (any, error) {
	return LoadParam(ctx, name, s.Space, nil, eng, dec)
}
