package rank

import (
	"testing"

	"github.com/gonum/matrix/mat64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/KyungWonPark/featrank/internal/errors"
)

func TestReliefWeightsSeparatingFeature(t *testing.T) {
	// feature 0 separates the classes, feature 1 does not
	data := mat64.NewDense(8, 2, []float64{
		0.0, 3,
		0.1, 1,
		0.2, 4,
		0.3, 2,
		1.0, 2,
		1.1, 4,
		1.2, 1,
		1.3, 3,
	})
	labels := []int{0, 0, 0, 0, 1, 1, 1, 1}

	w, err := Relief{}.Weights(data, labels, 3)
	require.NoError(t, err)
	require.Len(t, w, 2)

	assert.Greater(t, w[0], 0.0)
	assert.Greater(t, w[0], w[1])
}

func TestReliefWeightsErrors(t *testing.T) {
	data := mat64.NewDense(2, 1, []float64{1, 2})

	_, err := Relief{}.Weights(data, []int{0}, 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidLabels)

	_, err = Relief{}.Weights(data, []int{0, 1}, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = Relief{}.Weights(nil, []int{0, 1}, 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
