package domain

// CoefficientSet представляет коэффициенты EMOS для одного раздела опоры.
// Откалиброванное среднее: mu = A + B*m, откалиброванная дисперсия:
// sigma2 = Gamma^2 + Delta^2*v, где m и v - моменты ансамбля.
type CoefficientSet struct {
	A     float64
	B     float64
	Gamma float64
	Delta float64

	Family DistributionFamily
	Unit   Unit
	Scope  string
}

// IdentityCoefficients возвращает коэффициенты, воспроизводящие сырой ансамбль
func IdentityCoefficients(family DistributionFamily, unit Unit) CoefficientSet {
	return CoefficientSet{A: 0, B: 1, Gamma: 0, Delta: 1, Family: family, Unit: unit}
}

// CoefficientsFromArray собирает набор коэффициентов из вектора (a, b, gamma, delta)
func CoefficientsFromArray(x []float64, family DistributionFamily, unit Unit) CoefficientSet {
	return CoefficientSet{
		A:      x[0],
		B:      x[1],
		Gamma:  x[2],
		Delta:  x[3],
		Family: family,
		Unit:   unit,
	}
}

func (c CoefficientSet) Array() []float64 {
	return []float64{c.A, c.B, c.Gamma, c.Delta}
}

// Moments вычисляет откалиброванные моменты распределения по моментам ансамбля.
// Единственная реализация прямой модели: её используют и целевая функция,
// и применение коэффициентов к прогнозу.
func (c CoefficientSet) Moments(mean, variance float64) (mu, sigma2 float64) {
	mu = c.A + c.B*mean
	sigma2 = c.Gamma*c.Gamma + c.Delta*c.Delta*variance
	return mu, sigma2
}

// Apply применяет коэффициенты к ансамблевому прогнозу и возвращает поля
// откалиброванного среднего и откалиброванной дисперсии в единице коэффициентов.
func (c CoefficientSet) Apply(forecast *EnsembleCase) (mean, variance *FieldCase, err error) {
	fc := forecast
	if forecast.Unit != c.Unit {
		fc, err = forecast.ConvertUnit(c.Unit)
		if err != nil {
			return nil, nil, err
		}
	}

	means, variances := fc.Moments()
	calMeans := make([]float64, len(means))
	calVariances := make([]float64, len(variances))
	for i := range means {
		calMeans[i], calVariances[i] = c.Moments(means[i], variances[i])
	}

	mean = &FieldCase{ValidTime: fc.ValidTime, Unit: c.Unit, Values: calMeans}
	variance = &FieldCase{ValidTime: fc.ValidTime, Unit: c.Unit, Values: calVariances}
	return mean, variance, nil
}

// ConvertUnit пересчитывает коэффициенты под линейную замену единицы u' = s*u + o
// так, что применение коэффициентов коммутирует с преобразованием единиц.
func (c CoefficientSet) ConvertUnit(to Unit) (CoefficientSet, error) {
	lc, err := c.Unit.Conversion(to)
	if err != nil {
		return CoefficientSet{}, err
	}
	return CoefficientSet{
		A:      lc.Scale*c.A + lc.Offset*(1-c.B),
		B:      c.B,
		Gamma:  lc.Scale * c.Gamma,
		Delta:  c.Delta,
		Family: c.Family,
		Unit:   to,
		Scope:  c.Scope,
	}, nil
}
