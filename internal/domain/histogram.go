package domain

import (
	"errors"
)

var ErrEmptyTrainingSet = errors.New("empty training set")

// Histogram представляет гистограмму рангов наблюдений в ансамбле
type Histogram struct {
	Bins []float64
	Vals []int
	Len  int
}

// RankHistogram строит гистограмму рангов наблюдения среди членов ансамбля
// по всем дням и точкам выборки (диаграмму Талаграна). У откалиброванного
// ансамбля ранги распределены равномерно; перекос указывает на смещение,
// U-образная форма - на недостаточный разброс. Ранг наблюдения - число
// членов ансамбля строго ниже него, от 0 до M включительно.
func (ts *TrainingSet) RankHistogram() (Histogram, error) {
	if ts == nil || len(ts.Pairs) == 0 {
		return Histogram{}, ErrEmptyTrainingSet
	}

	members := len(ts.Pairs[0].Forecast.Members)
	n := members + 1
	bins := make([]float64, n)
	vals := make([]int, n)
	for i := 0; i < n; i++ {
		bins[i] = float64(i)
	}

	for _, pair := range ts.Pairs {
		// Дни с другим размером ансамбля рангам не сопоставимы
		if len(pair.Forecast.Members) != members {
			continue
		}
		for p, y := range pair.Truth.Values {
			if !isFinite(y) {
				continue
			}
			rank := 0
			for _, member := range pair.Forecast.Members {
				if member[p] < y {
					rank++
				}
			}
			vals[rank]++
		}
	}

	return Histogram{
		Bins: bins,
		Vals: vals,
		Len:  n,
	}, nil
}
