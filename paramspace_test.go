package paramspace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/paramspace"
	"github.com/katalvlaran/paramspace/decode"
	"github.com/katalvlaran/paramspace/expr"
	"github.com/katalvlaran/paramspace/sampler"
	"github.com/katalvlaran/paramspace/trial"
)

type Optimizer struct {
	LR       float64 `param:"lr"`
	Momentum float64 `param:"momentum"`
}

func optimizerSpace(t *testing.T) expr.Node {
	t.Helper()
	tree, err := expr.InstanceOf[Optimizer](
		expr.KW("lr", expr.LogUniform(-9, -2)),
		expr.KW("momentum", expr.MustParam("momentum", expr.WithLow(0), expr.WithHigh(0.99), expr.WithDist(expr.Normal(0.9, 0.05)))),
	)
	require.NoError(t, err)
	return tree
}

func decoder(t *testing.T) *decode.Decoder {
	t.Helper()
	reg := decode.NewRegistry()
	require.NoError(t, decode.RegisterStruct[Optimizer](reg))
	return decode.New(reg)
}

func TestLoadParam_SamplesUnderName(t *testing.T) {
	eng := paramspace.Fixed(map[string]any{"opt.lr": 0.001, "opt.momentum": 1.2})

	out, err := paramspace.LoadParam(context.Background(), "opt", optimizerSpace(t), nil, eng, decoder(t))
	require.NoError(t, err)
	assert.Equal(t, &Optimizer{LR: 0.001, Momentum: 0.99}, out)
}

func TestLoadParam_ScopeWins(t *testing.T) {
	scope := paramspace.Values{"opt": map[string]any{
		expr.ClassKey: expr.ClassOf[Optimizer]().String(),
		"lr":          0.5,
		"momentum":    0.1,
	}}

	// No engine: the scope must be enough.
	out, err := paramspace.LoadParam(context.Background(), "opt", optimizerSpace(t), scope, nil, decoder(t))
	require.NoError(t, err)
	assert.Equal(t, &Optimizer{LR: 0.5, Momentum: 0.1}, out)

	// A plain value passes through decode unchanged.
	out, err = paramspace.LoadParam(context.Background(), "n", nil, paramspace.Values{"n": 3}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, out)
}

func TestLoadParam_TrialScope(t *testing.T) {
	ctx := context.Background()
	s, err := trial.Open(trial.InMemoryConfig())
	require.NoError(t, err)
	defer s.Close()

	tr := trial.New("opt", nil, map[string]any{"opt": map[string]any{
		expr.ClassKey: expr.ClassOf[Optimizer]().String(),
		"lr":          0.01,
		"momentum":    0.8,
	}})
	require.NoError(t, s.Put(ctx, tr))
	stored, err := s.Get(ctx, tr.ID)
	require.NoError(t, err)

	out, err := paramspace.LoadParam(ctx, "opt", optimizerSpace(t), stored, nil, decoder(t))
	require.NoError(t, err)
	assert.Equal(t, &Optimizer{LR: 0.01, Momentum: 0.8}, out)
}

func TestLoadParam_Errors(t *testing.T) {
	ctx := context.Background()
	space := optimizerSpace(t)

	_, err := paramspace.LoadParam(ctx, "opt", space, nil, nil, decoder(t))
	assert.ErrorIs(t, err, paramspace.ErrNoEngine)

	_, err = paramspace.LoadParam(ctx, "opt", nil, paramspace.Values{}, paramspace.Fixed(nil), decoder(t))
	assert.ErrorIs(t, err, paramspace.ErrNoSpace)

	_, err = paramspace.LoadParam(ctx, "opt", space, nil, paramspace.Fixed(map[string]any{"opt.lr": 0.1}), decoder(t))
	assert.ErrorIs(t, err, sampler.ErrMissingValue)

	eng := paramspace.Fixed(map[string]any{"opt.lr": 0.1, "opt.momentum": 0.5})
	_, err = paramspace.LoadParam(ctx, "opt", space, nil, eng, decode.New(decode.NewRegistry()))
	assert.ErrorIs(t, err, decode.ErrUnresolvedClass)

	boom := errors.New("engine down")
	_, err = paramspace.LoadParam(ctx, "opt", space, nil, failingEngine{err: boom}, decoder(t))
	assert.ErrorIs(t, err, boom)
}

type failingEngine struct{ err error }

func (failingEngine) Namespaces() (sampler.Namespace, sampler.Namespace) { return nil, nil }

func (f failingEngine) Sample(context.Context, any) (any, error) { return nil, f.err }

func TestSample_Default(t *testing.T) {
	s := paramspace.Sample{Space: expr.Uniform(0, 1)}

	out, err := s.Default(context.Background(), "x", paramspace.Fixed(map[string]any{"x": 0.25}), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.25, out)
}
