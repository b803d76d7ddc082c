package trial_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/paramspace/decode"
	"github.com/katalvlaran/paramspace/expr"
	"github.com/katalvlaran/paramspace/trial"
)

func openStore(t *testing.T) *trial.Store {
	t.Helper()
	s, err := trial.Open(trial.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNew(t *testing.T) {
	point := map[string]any{"m.lr": 0.1}
	tr := trial.New("m", point, map[string]any{"m": map[string]any{"lr": 0.1}})

	assert.Len(t, tr.ID, 36)
	assert.Equal(t, "m", tr.Space)
	assert.False(t, tr.Created.IsZero())

	point["m.lr"] = 9.0
	assert.Equal(t, 0.1, tr.Point["m.lr"], "maps are copied")

	v, ok := tr.Lookup("m")
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"lr": 0.1}, v)
	_, ok = tr.Lookup("other")
	assert.False(t, ok)

	var nilTrial *trial.Trial
	_, ok = nilTrial.Lookup("m")
	assert.False(t, ok)
}

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	tr := trial.New("model", map[string]any{"model.rate": 0.5}, map[string]any{
		"model": map[string]any{expr.ClassKey: "pkg.Model", "rate": 0.5, "layers": []any{64, 32}},
	})
	require.NoError(t, s.Put(ctx, tr))

	got, err := s.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)
	assert.Equal(t, "model", got.Space)
	assert.True(t, tr.Created.Equal(got.Created))
	assert.Equal(t, map[string]any{"model.rate": 0.5}, got.Point)
	// JSON brings numbers back as float64.
	assert.Equal(t, map[string]any{
		"model": map[string]any{expr.ClassKey: "pkg.Model", "rate": 0.5, "layers": []any{64.0, 32.0}},
	}, got.Values)

	require.NoError(t, s.Delete(ctx, tr.ID))
	_, err = s.Get(ctx, tr.ID)
	assert.ErrorIs(t, err, trial.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, tr.ID), trial.ErrNotFound)
}

func TestStore_ValuesComeBackAsJSONKinds(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	tr := trial.New("m", nil, map[string]any{
		"m": map[string]any{"shape": decode.Tuple{3, 4}, "n": 7},
	})
	v, _ := tr.Lookup("m")
	assert.IsType(t, decode.Tuple{}, v.(map[string]any)["shape"])

	require.NoError(t, s.Put(ctx, tr))
	got, err := s.Get(ctx, tr.ID)
	require.NoError(t, err)

	v, ok := got.Lookup("m")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"shape": []any{3.0, 4.0}, "n": 7.0}, v)
}

func TestStore_PutInvalid(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	assert.ErrorIs(t, s.Put(ctx, nil), trial.ErrInvalid)

	bad := trial.New("", nil, nil)
	assert.ErrorIs(t, s.Put(ctx, bad), trial.ErrInvalid)

	bad = trial.New("m", nil, nil)
	bad.ID = "not-a-uuid"
	assert.ErrorIs(t, s.Put(ctx, bad), trial.ErrInvalid)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var ids []string
	for i, space := range []string{"a", "b", "a", "a"} {
		tr := trial.New(space, nil, map[string]any{space: i})
		tr.Created = base.Add(time.Duration(3-i) * time.Minute) // stored newest first
		require.NoError(t, s.Put(ctx, tr))
		ids = append(ids, tr.ID)
	}

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Created.Before(all[i-1].Created), "oldest first")
	}

	onlyA, err := s.List(ctx, "a")
	require.NoError(t, err)
	require.Len(t, onlyA, 3)
	assert.Equal(t, []string{ids[3], ids[2], ids[0]}, []string{onlyA[0].ID, onlyA[1].ID, onlyA[2].ID})

	none, err := s.List(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_CanceledContext(t *testing.T) {
	s := openStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, trial.New("m", nil, nil)), context.Canceled)
	_, err := s.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.List(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_Config(t *testing.T) {
	_, err := trial.Open(trial.Config{})
	assert.ErrorIs(t, err, trial.ErrConfig)

	cfg := trial.InMemoryConfig()
	cfg.GCDiscardRatio = 2
	_, err = trial.Open(cfg)
	assert.ErrorIs(t, err, trial.ErrConfig)
}

func TestOpen_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "store")

	s, err := trial.Open(trial.DefaultConfig(dir))
	require.NoError(t, err)
	tr := trial.New("m", nil, map[string]any{"m": "v"})
	require.NoError(t, s.Put(ctx, tr))
	require.NoError(t, s.Close())

	s, err = trial.Open(trial.DefaultConfig(dir))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"m": "v"}, got.Values)
}
