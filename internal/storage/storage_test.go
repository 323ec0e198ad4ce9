package storage

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
	"github.com/YuminosukeSato/woebin/sklearn/discretize"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "models.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func fittedModel(t *testing.T) *discretize.FittedModel {
	t.Helper()
	d := discretize.NewDiscretizer(discretize.WithMinObs(1), discretize.WithMinPos(0), discretize.WithMinIV(0))
	x := []float64{6.2375, 6.4375, 0, 0, 4.0125, 5.0, 6.45, 6.4958, 6.4958, math.NaN()}
	y := []float64{0, 1, 1, 0, 0, 1, 1, 1, 0, 1}
	require.NoError(t, d.Fit(x, y, nil, []float64{math.NaN(), -1}))
	m, err := d.Model()
	require.NoError(t, err)
	return m
}

func TestStore_SaveLoad(t *testing.T) {
	s := openStore(t)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	m := fittedModel(t)

	require.NoError(t, s.Save("fare", m))
	got, err := s.Load("fare")
	require.NoError(t, err)

	assert.Equal(t, m.Splits, got.Splits)
	assert.Equal(t, m.Bins, got.Bins)
	assert.Equal(t, m.Direction, got.Direction)
	require.Len(t, got.Exceptions, 2)
	assert.True(t, math.IsNaN(got.Exceptions[0].Value))

	d := discretize.NewDiscretizer()
	require.NoError(t, d.Restore(got))
	idx, err := d.PredictIndex([]float64{math.NaN(), -1, 0})
	require.NoError(t, err)
	assert.Equal(t, []int{-1, -2, 0}, idx)

	infos, err := s.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "fare", infos[0].Name)
	assert.Equal(t, len(m.Bins), infos[0].Bins)
	assert.Equal(t, 2, infos[0].Exceptions)
	assert.InDelta(t, m.TotalIV(), infos[0].TotalIV, 1e-12)
	assert.Equal(t, 2024, infos[0].SavedAt.Year())
}

func TestStore_KeepsUnconstrainedMono(t *testing.T) {
	s := openStore(t)
	d := discretize.NewDiscretizer(discretize.WithMinObs(1), discretize.WithMinPos(0),
		discretize.WithMinIV(0), discretize.WithMono(0))
	x := []float64{6.2375, 6.4375, 0, 0, 4.0125, 5.0, 6.45, 6.4958, 6.4958}
	y := []float64{0, 1, 1, 0, 0, 1, 1, 1, 0}
	require.NoError(t, d.Fit(x, y, nil, nil))
	m, err := d.Model()
	require.NoError(t, err)

	require.NoError(t, s.Save("fare", m))
	got, err := s.Load("fare")
	require.NoError(t, err)
	require.NotNil(t, got.Params.Mono, "mono=0 must not come back as automatic")
	assert.Equal(t, 0, *got.Params.Mono)
}

func TestStore_NotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.Load("missing")
	assert.True(t, woeerrors.Is(err, woeerrors.ErrModelNotFound))
}

func TestStore_ReplaceDeleteList(t *testing.T) {
	s := openStore(t)
	m := fittedModel(t)

	require.NoError(t, s.Save("b", m))
	require.NoError(t, s.Save("a", m))
	require.NoError(t, s.Save("a", m))

	infos, err := s.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].Name)
	assert.Equal(t, "b", infos[1].Name)

	require.NoError(t, s.Delete("a"))
	require.NoError(t, s.Delete("never-stored"))
	infos, err = s.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)

	_, err = s.Load("a")
	assert.True(t, woeerrors.Is(err, woeerrors.ErrModelNotFound))
}

func TestStore_Validation(t *testing.T) {
	s := openStore(t)
	assert.True(t, woeerrors.IsValidation(s.Save("", fittedModel(t))))
	assert.True(t, woeerrors.IsValidation(s.Save("x", nil)))
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save("fare", fittedModel(t)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Load("fare")
	assert.NoError(t, err)
}
