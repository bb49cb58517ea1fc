package emos

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ensemble-calibration/internal/domain"
)

// singlePointSet строит выборку из одной пары с одной точкой опоры
func singlePointSet(memberValues []float64, obs float64) *domain.TrainingSet {
	members := make([][]float64, len(memberValues))
	for m, v := range memberValues {
		members[m] = []float64{v}
	}
	return &domain.TrainingSet{
		Unit:   domain.Kelvin,
		Points: []int{0},
		Pairs: []domain.TrainingPair{{
			Forecast: &domain.EnsembleCase{Unit: domain.Kelvin, Members: members},
			Truth:    &domain.FieldCase{Unit: domain.Kelvin, Values: []float64{obs}},
		}},
	}
}

func TestObjectiveValue(t *testing.T) {
	t.Run("identity equals closed-form CRPS", func(t *testing.T) {
		// Члены -1 и 1: среднее 0, несмещённая дисперсия 2
		obj := NewObjective(singlePointSet([]float64{-1, 1}, 0), domain.FamilyGaussian)

		require.Equal(t, 1, obj.Len())
		assert.InDelta(t, NormalCRPS(0, math.Sqrt2, 0), obj.Value([]float64{0, 1, 0, 1}), 1e-12)
	})

	t.Run("truncated family uses the truncated form", func(t *testing.T) {
		obj := NewObjective(singlePointSet([]float64{-1, 1}, 0), domain.FamilyTruncatedGaussian)

		assert.InDelta(t, TruncatedNormalCRPS(0, math.Sqrt2, 0), obj.Value([]float64{0, 1, 0, 1}), 1e-12)
	})

	t.Run("averages over samples", func(t *testing.T) {
		ts := &domain.TrainingSet{
			Unit:   domain.Kelvin,
			Points: []int{0, 1},
			Pairs: []domain.TrainingPair{{
				Forecast: &domain.EnsembleCase{Unit: domain.Kelvin, Members: [][]float64{{-1, 4}, {1, 6}}},
				Truth:    &domain.FieldCase{Unit: domain.Kelvin, Values: []float64{0, 5}},
			}},
		}
		obj := NewObjective(ts, domain.FamilyGaussian)

		expected := (NormalCRPS(0, math.Sqrt2, 0) + NormalCRPS(5, math.Sqrt2, 5)) / 2
		assert.InDelta(t, expected, obj.Value([]float64{0, 1, 0, 1}), 1e-12)
	})

	t.Run("wrong coefficient length penalized", func(t *testing.T) {
		obj := NewObjective(singlePointSet([]float64{-1, 1}, 0), domain.FamilyGaussian)

		assert.Equal(t, HUGE_VAL, obj.Value([]float64{0, 1, 0}))
		assert.Equal(t, HUGE_VAL, obj.Value(nil))
	})

	t.Run("empty sample penalized", func(t *testing.T) {
		obj := NewObjective(singlePointSet([]float64{-1, 1}, math.NaN()), domain.FamilyGaussian)

		assert.Equal(t, 0, obj.Len())
		assert.Equal(t, HUGE_VAL, obj.Value([]float64{0, 1, 0, 1}))
	})

	t.Run("zero ensemble variance floored", func(t *testing.T) {
		obj := NewObjective(singlePointSet([]float64{5, 5, 5}, 5), domain.FamilyGaussian)

		value := obj.Value([]float64{0, 1, 0, 1})
		assert.False(t, math.IsNaN(value))
		assert.False(t, math.IsInf(value, 0))
		assert.GreaterOrEqual(t, value, 0.0)
		assert.Less(t, value, 1e-5)
	})

	t.Run("non-finite coefficients penalized", func(t *testing.T) {
		obj := NewObjective(singlePointSet([]float64{-1, 1}, 0), domain.FamilyGaussian)

		assert.Equal(t, HUGE_VAL, obj.Value([]float64{math.NaN(), 1, 0, 1}))
		assert.Equal(t, HUGE_VAL, obj.Value([]float64{math.Inf(1), 10, 0, 1}))
	})

	t.Run("total on harsh coefficient vectors", func(t *testing.T) {
		obj := NewObjective(singlePointSet([]float64{-1, 1}, 0), domain.FamilyGaussian)

		for _, x := range [][]float64{
			{0, 1, 0, 1},
			{-5, 3, 2, 0.5},
			{100, -50, 0, 0},
			{1e8, 1e8, 1e-8, 1e8},
		} {
			value := obj.Value(x)
			assert.False(t, math.IsNaN(value), "x=%v", x)
			assert.False(t, math.IsInf(value, 0), "x=%v", x)
		}
	})

	t.Run("length counts finite samples only", func(t *testing.T) {
		ts := &domain.TrainingSet{
			Unit:   domain.Kelvin,
			Points: []int{0, 1},
			Pairs: []domain.TrainingPair{{
				Forecast: &domain.EnsembleCase{Unit: domain.Kelvin, Members: [][]float64{{-1, 4}, {1, 6}}},
				Truth:    &domain.FieldCase{Unit: domain.Kelvin, Values: []float64{math.NaN(), 5}},
			}},
		}

		assert.Equal(t, 1, NewObjective(ts, domain.FamilyGaussian).Len())
	})
}
