package emos

import (
	"math"

	"ensemble-calibration/internal/domain"
)

const (
	// HUGE_VAL возвращается вместо нечисловых значений целевой функции
	HUGE_VAL = 999999.0
	// varianceFloor ограничивает дисперсию снизу при вырожденном ансамбле
	varianceFloor = 1e-12
)

// Objective представляет целевую функцию: средний CRPS прогностического
// распределения по обучающей выборке как функция вектора (a, b, gamma, delta).
type Objective struct {
	family    domain.DistributionFamily
	unit      domain.Unit
	means     []float64
	variances []float64
	obs       []float64
}

// NewObjective разворачивает выборку один раз; дальнейшие вычисления
// моментов ансамбля не повторяются.
func NewObjective(ts *domain.TrainingSet, family domain.DistributionFamily) *Objective {
	means, variances, obs := ts.Flatten()
	return &Objective{
		family:    family,
		unit:      ts.Unit,
		means:     means,
		variances: variances,
		obs:       obs,
	}
}

// Len возвращает число пригодных обучающих троек
func (o *Objective) Len() int {
	return len(o.obs)
}

// Value вычисляет средний CRPS для вектора коэффициентов x.
// Функция тотальна: любое нечисловое значение заменяется конечным штрафом.
func (o *Objective) Value(x []float64) float64 {
	if len(x) != 4 || len(o.obs) == 0 {
		return HUGE_VAL
	}

	c := domain.CoefficientsFromArray(x, o.family, o.unit)

	var sum float64
	for i := range o.obs {
		mu, sigma2 := c.Moments(o.means[i], o.variances[i])
		sigma := math.Sqrt(math.Max(sigma2, varianceFloor))

		switch o.family {
		case domain.FamilyTruncatedGaussian:
			sum += TruncatedNormalCRPS(mu, sigma, o.obs[i])
		default:
			sum += NormalCRPS(mu, sigma, o.obs[i])
		}
	}

	mean := sum / float64(len(o.obs))
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return HUGE_VAL
	}
	return mean
}
