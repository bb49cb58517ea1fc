package emos

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalCRPS вычисляет CRPS нормального распределения N(mu, sigma^2) в
// наблюдении obs по замкнутой форме (Gneiting et al., 2005).
func NormalCRPS(mu, sigma, obs float64) float64 {
	z := (obs - mu) / sigma
	return sigma * (z*(2*distuv.UnitNormal.CDF(z)-1) + 2*distuv.UnitNormal.Prob(z) - 1/math.SqrtPi)
}

// TruncatedNormalCRPS вычисляет CRPS нормального распределения, усечённого
// снизу нулём (Thorarinsdottir, Gneiting, 2010). При mu/sigma >> 0 значение
// сходится к неусечённому CRPS.
func TruncatedNormalCRPS(mu, sigma, obs float64) float64 {
	p := distuv.UnitNormal.CDF(mu / sigma)
	if p <= 0 {
		// вся масса ниже усечения
		return math.Inf(1)
	}
	z := (obs - mu) / sigma
	return sigma / (p * p) * (z*p*(2*distuv.UnitNormal.CDF(z)+p-2) +
		2*distuv.UnitNormal.Prob(z)*p -
		distuv.UnitNormal.CDF(math.Sqrt2*mu/sigma)/math.SqrtPi)
}
