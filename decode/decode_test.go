package decode_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/paramspace/decode"
	"github.com/katalvlaran/paramspace/expr"
	"github.com/katalvlaran/paramspace/label"
	"github.com/katalvlaran/paramspace/sampler"
)

type Linear struct {
	Scale float64 `param:"scale"`
}

type Const struct {
	Value float64 `param:"value"`
}

type Model struct {
	Rate   float64 `param:"rate"`
	Head   any     `param:"head"`
	Layers []int   `param:"layers"`
}

// pointID is a hand-written identity with a recording factory.
var pointID = expr.ClassID{Module: "geom", Name: "Point"}

type point struct{ kwargs map[string]any }

func newRegistry(t *testing.T) *decode.Registry {
	t.Helper()
	reg := decode.NewRegistry()
	reg.MustRegister(pointID, func(kw map[string]any) (any, error) { return &point{kwargs: kw}, nil })
	require.NoError(t, decode.RegisterStruct[Linear](reg))
	require.NoError(t, decode.RegisterStruct[Const](reg))
	require.NoError(t, decode.RegisterStruct[Model](reg))
	return reg
}

func TestDecode_ClassMapping(t *testing.T) {
	d := decode.New(newRegistry(t))

	out, err := d.Decode(map[string]any{expr.ClassKey: "geom.Point", "x": 1, "y": 2.5})
	require.NoError(t, err)
	p, ok := out.(*point)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"x": 1, "y": 2.5}, p.kwargs, "reserved key is not a keyword")

	out, err = d.Decode(map[string]any{expr.ModuleKey: "geom", expr.NameKey: "Point", "x": 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 3}, out.(*point).kwargs)
}

func TestDecode_PlainMappingIsRebuilt(t *testing.T) {
	d := decode.New(newRegistry(t))
	in := map[string]any{"a": 1, "b": []any{"x", 2}}

	out, err := d.Decode(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out.(map[string]any)["a"] = 99
	assert.Equal(t, 1, in["a"], "input untouched")
}

func TestDecode_SequenceKindPreserved(t *testing.T) {
	d := decode.New(newRegistry(t))
	cls := map[string]any{expr.ClassKey: "geom.Point", "x": 1}

	out, err := d.Decode(decode.Tuple{1, cls})
	require.NoError(t, err)
	tup, ok := out.(decode.Tuple)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, 1, tup[0])
	assert.IsType(t, &point{}, tup[1])

	out, err = d.Decode([]any{cls})
	require.NoError(t, err)
	assert.IsType(t, []any{}, out)

	out, err = d.Decode([]float64{0.5, 1.5})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.5}, out)

	out, err = d.Decode([2]any{"a", cls})
	require.NoError(t, err)
	arr, ok := out.([2]any)
	require.True(t, ok)
	assert.IsType(t, &point{}, arr[1])

	out, err = d.Decode(map[string][]int{"k": {1, 2}})
	require.NoError(t, err)
	assert.Equal(t, map[string][]int{"k": {1, 2}}, out)
}

func TestDecode_Scalars(t *testing.T) {
	d := decode.New(newRegistry(t))
	for _, v := range []any{nil, "s", true, 3, int64(4), 2.5, float32(1.5), uint(7)} {
		out, err := d.Decode(v)
		require.NoError(t, err)
		assert.Equal(t, v, out)
	}
}

func TestDecode_BottomUp(t *testing.T) {
	var order []string
	reg := decode.NewRegistry()
	reg.MustRegister(expr.ClassID{Name: "Inner"}, func(map[string]any) (any, error) {
		order = append(order, "inner")
		return "inner-obj", nil
	})
	reg.MustRegister(expr.ClassID{Name: "Outer"}, func(kw map[string]any) (any, error) {
		order = append(order, "outer")
		return kw["child"], nil
	})

	out, err := decode.New(reg).Decode(map[string]any{
		expr.ClassKey: "Outer",
		"child":       map[string]any{expr.ClassKey: "Inner"},
	})
	require.NoError(t, err)
	assert.Equal(t, "inner-obj", out)
	assert.Equal(t, []string{"inner", "outer"}, order)
}

func TestDecode_UnresolvedClassIsFatal(t *testing.T) {
	d := decode.New(newRegistry(t))

	out, err := d.Decode(map[string]any{
		"ok":  map[string]any{expr.ClassKey: "geom.Point"},
		"bad": []any{map[string]any{expr.ClassKey: "geom.Polygon"}},
	})
	assert.Nil(t, out)
	require.ErrorIs(t, err, decode.ErrUnresolvedClass)
	assert.Contains(t, err.Error(), "geom.Polygon")
}

func TestDecode_MalformedClassKeys(t *testing.T) {
	d := decode.New(newRegistry(t))
	cases := map[string]map[string]any{
		"both forms":    {expr.ClassKey: "geom.Point", expr.ModuleKey: "geom", expr.NameKey: "Point"},
		"module only":   {expr.ModuleKey: "geom"},
		"name only":     {expr.NameKey: "Point"},
		"non-string":    {expr.ClassKey: 42},
		"empty name":    {expr.ClassKey: "geom."},
		"split no name": {expr.ModuleKey: "geom", expr.NameKey: ""},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := d.Decode(in)
			assert.ErrorIs(t, err, decode.ErrClassKey)
		})
	}
}

func TestDecode_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	reg := decode.NewRegistry()
	reg.MustRegister(expr.ClassID{Module: "m", Name: "Bad"}, func(map[string]any) (any, error) { return nil, boom })

	_, err := decode.New(reg).Decode(map[string]any{expr.ClassKey: "m.Bad"})
	assert.ErrorIs(t, err, decode.ErrConstruct)
	assert.ErrorIs(t, err, boom)
}

func TestDecode_ElemType(t *testing.T) {
	d := decode.New(newRegistry(t))

	_, err := d.Decode([]map[string]any{{expr.ClassKey: "geom.Point"}})
	assert.ErrorIs(t, err, decode.ErrElemType)
}

func TestStruct_UnknownKeyword(t *testing.T) {
	d := decode.New(newRegistry(t))

	_, err := d.Decode(map[string]any{expr.ClassKey: expr.ClassOf[Linear]().String(), "scale": 1, "bias": 2})
	assert.ErrorIs(t, err, decode.ErrConstruct)
}

func TestRegistry(t *testing.T) {
	reg := decode.NewRegistry()
	f := func(map[string]any) (any, error) { return nil, nil }

	require.NoError(t, reg.Register(expr.ClassID{Module: "b", Name: "B"}, f))
	require.NoError(t, reg.Register(expr.ClassID{Module: "a", Name: "A"}, f))
	assert.ErrorIs(t, reg.Register(expr.ClassID{Module: "a", Name: "A"}, f), decode.ErrDuplicateClass)
	assert.ErrorIs(t, reg.Register(expr.ClassID{Module: "a"}, f), expr.ErrEmptyClass)
	assert.Panics(t, func() { _ = reg.Register(expr.ClassID{Name: "X"}, nil) })

	assert.Equal(t, []expr.ClassID{{Module: "a", Name: "A"}, {Module: "b", Name: "B"}}, reg.Classes())

	_, err := reg.Resolve("a", "A")
	assert.NoError(t, err)
	_, err = reg.Resolve("a", "Z")
	assert.ErrorIs(t, err, decode.ErrUnresolvedClass)
}

func TestDecodeAll(t *testing.T) {
	d := decode.New(newRegistry(t), decode.WithConcurrency(2))
	values := make([]any, 20)
	for i := range values {
		values[i] = map[string]any{expr.ClassKey: "geom.Point", "i": i}
	}

	out, err := d.DecodeAll(context.Background(), values)
	require.NoError(t, err)
	require.Len(t, out, len(values))
	for i, v := range out {
		assert.Equal(t, i, v.(*point).kwargs["i"])
	}

	values[7] = map[string]any{expr.ClassKey: "nope.Nope"}
	_, err = d.DecodeAll(context.Background(), values)
	assert.ErrorIs(t, err, decode.ErrUnresolvedClass)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.DecodeAll(ctx, values[:3])
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRoundTrip builds a space, labels it, assigns a point the way an engine
// would, and decodes the result into live objects.
func TestRoundTrip(t *testing.T) {
	lin, err := expr.InstanceOf[Linear](expr.KW("scale", expr.Uniform(0, 2)))
	require.NoError(t, err)
	cst, err := expr.InstanceOf[Const](expr.KW("value", expr.Normal(0, 1)))
	require.NoError(t, err)
	tree, err := expr.InstanceOf[Model](
		expr.KW("rate", expr.MustParam("rate", expr.WithLow(0), expr.WithHigh(1), expr.WithDist(expr.Normal(0.5, 1)))),
		expr.KW("head", expr.Choice(lin, cst)),
		expr.KW("layers", []any{64, 32}),
	)
	require.NoError(t, err)

	res, err := label.Label(tree, label.WithRootPath("model"))
	require.NoError(t, err)

	values, err := sampler.Assign(res.Tree, map[string]any{
		"model.rate":       1.7,
		"model.head":       1,
		"model.head.value": -0.25,
	})
	require.NoError(t, err)

	obj, err := decode.New(newRegistry(t)).Decode(values)
	require.NoError(t, err)

	m, ok := obj.(*Model)
	require.True(t, ok, "got %T", obj)
	assert.Equal(t, 1.0, m.Rate)
	assert.Equal(t, &Const{Value: -0.25}, m.Head)
	assert.Equal(t, []int{64, 32}, m.Layers)
}
