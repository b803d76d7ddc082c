// SPDX-License-Identifier: MIT
// Package: paramspace/expr
//
// param.go - Param, the bounded-parameter configuration helper.
//
// Contract:
//   - Options are functional (type ParamOption func(*paramConfig)).
//   - WithDist panics on a nil node; Param itself never panics.
//   - Bounds are pass-through values; they are not checked against the
//     natural support of the distribution.

package expr

import "fmt"

// ParamOption configures Param.
type ParamOption func(*paramConfig)

type paramConfig struct {
	low, high       any
	hasLow, hasHigh bool
	dist            Node
}

// WithLow sets the lower bound; nil means unset. With a distribution it clamps via max(low, dist);
// without one it is the uniform lower bound (default 0).
func WithLow(low any) ParamOption {
	return func(c *paramConfig) {
		c.low, c.hasLow = low, low != nil
	}
}

// WithHigh sets the upper bound; nil means unset. With a distribution it clamps via min(high, dist);
// without one it is the uniform upper bound and is required.
func WithHigh(high any) ParamOption {
	return func(c *paramConfig) {
		c.high, c.hasHigh = high, high != nil
	}
}

// WithDist sets the distribution expression. Panics on nil.
func WithDist(dist Node) ParamOption {
	if dist == nil {
		panic("expr: WithDist(nil)")
	}
	return func(c *paramConfig) {
		c.dist = dist
	}
}

// Param builds the expression for a named parameter from optional bounds and
// an optional distribution. The name documents intent only; the label of the
// resulting variables comes from its position in the enclosing tree.
//
//	Param("x", WithHigh(5))                          == Uniform(0, 5)
//	Param("x", WithLow(1), WithDist(d))              == Max(1, d)
//	Param("x", WithLow(1), WithHigh(5), WithDist(d)) == Min(5, Max(1, d))
//
// Errors:
//   - ErrHighRequired if neither a distribution nor a high bound is given.
func Param(name string, opts ...ParamOption) (Node, error) {
	var cfg paramConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.dist != nil {
		dist := cfg.dist
		if cfg.hasLow {
			dist = Max(cfg.low, dist)
		}
		if cfg.hasHigh {
			dist = Min(cfg.high, dist)
		}
		return dist, nil
	}

	if !cfg.hasHigh {
		return nil, fmt.Errorf("Param(%q): %w", name, ErrHighRequired)
	}
	low := cfg.low
	if !cfg.hasLow {
		low = 0
	}
	return Uniform(low, cfg.high), nil
}

// MustParam is Param that panics on error. Intended for package-level space
// declarations whose options are known to be valid.
func MustParam(name string, opts ...ParamOption) Node {
	n, err := Param(name, opts...)
	if err != nil {
		panic(err)
	}
	return n
}
