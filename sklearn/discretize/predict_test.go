package discretize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
)

func TestParsePredictionType(t *testing.T) {
	tests := []struct {
		in      string
		want    PredictionType
		wantErr bool
	}{
		{"woe", PredictionWoE, false},
		{"WoE", PredictionWoE, false},
		{" index ", PredictionIndex, false},
		{"proba", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePredictionType(tt.in)
			if tt.wantErr {
				assert.True(t, woeerrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) PredictionType {
	t.Helper()
	p, err := ParsePredictionType(s)
	require.NoError(t, err)
	return p
}

func TestPredict_Modes(t *testing.T) {
	d := NewDiscretizer(looseOptions()...)
	require.NoError(t, d.Fit(fareX, fareY, nil, nil))
	bins, err := d.Bins()
	require.NoError(t, err)

	x := []float64{-5, 4.0125, 4.02, 6.2375, 6.3, math.Inf(1), math.NaN()}
	wantIdx := []int{0, 0, 1, 1, 2, 2, 0}

	p, err := d.Predict(x, PredictionIndex)
	require.NoError(t, err)
	assert.Equal(t, PredictionIndex, p.Type)
	assert.Nil(t, p.WoE)
	assert.Equal(t, wantIdx, p.Index)

	p, err = d.Predict(x, PredictionWoE)
	require.NoError(t, err)
	assert.Nil(t, p.Index)
	for i, idx := range wantIdx {
		assert.Equal(t, bins[idx].WoE, p.WoE[i])
	}

	_, err = d.Predict(x, PredictionType(9))
	assert.True(t, woeerrors.IsValidation(err))

	p, err = d.Predict(nil, PredictionWoE)
	require.NoError(t, err)
	assert.Empty(t, p.WoE)
}

func TestTransformMatrix(t *testing.T) {
	d := NewDiscretizer(looseOptions()...)

	X := mat.NewDense(3, 2, []float64{
		0, 6.5,
		5, 4.0,
		6.2375, 100,
	})
	_, err := d.TransformMatrix(X)
	assert.True(t, woeerrors.IsNotFitted(err))

	require.NoError(t, d.Fit(fareX, fareY, nil, nil))
	out, err := d.TransformMatrix(X)
	require.NoError(t, err)

	r, c := out.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			want, err := d.PredictWoE([]float64{X.At(i, j)})
			require.NoError(t, err)
			assert.Equal(t, want[0], out.At(i, j))
		}
	}

	_, err = d.TransformMatrix(&mat.Dense{})
	assert.True(t, woeerrors.Is(err, woeerrors.ErrEmptyData))
}
