package domain

import (
	"fmt"
	"math"
	"sort"
)

// TrainingPair представляет сопоставленную пару прогноз-наблюдение
type TrainingPair struct {
	Forecast *EnsembleCase
	Truth    *FieldCase
}

// TrainingSet представляет обучающую выборку для одного раздела опоры
type TrainingSet struct {
	Unit   Unit
	Points []int
	Pairs  []TrainingPair
}

// AssembleOptions задаёт правила сборки обучающей выборки
type AssembleOptions struct {
	Hour       int   // целевой час валидности (UTC)
	WindowDays int   // глубина обучающего окна в днях
	MinCases   int   // минимальное число обучающих дней
	Points     []int // ограничение опоры; nil оставляет все точки
}

// Assemble собирает обучающую выборку из рядов прогнозов и наблюдений.
// Пары сопоставляются по точному совпадению времени валидности на целевом
// часе, наблюдения приводятся к единице прогнозов, дни без пары или с
// нарушенной размерностью молча пропускаются. Входные ряды не изменяются.
func Assemble(forecasts []*EnsembleCase, truths []*FieldCase, opts AssembleOptions) (*TrainingSet, error) {
	if len(forecasts) == 0 {
		return nil, fmt.Errorf("%w: no forecasts supplied", ErrInsufficientTrainingData)
	}
	unit := forecasts[0].Unit
	support := forecasts[0].Points()

	truthByTime := make(map[int64]*FieldCase, len(truths))
	for _, truth := range truths {
		truthByTime[truth.ValidTime.UTC().Unix()] = truth
	}

	// Отбираем прогнозы на целевом часе, при дублях побеждает поздний выпуск
	forecastByTime := make(map[int64]*EnsembleCase)
	for _, forecast := range forecasts {
		if forecast.ValidTime.UTC().Hour() != opts.Hour {
			continue
		}
		if forecast.Validate() != nil || forecast.Points() != support {
			continue
		}
		key := forecast.ValidTime.UTC().Unix()
		if prev, ok := forecastByTime[key]; ok && !forecast.IssueTime.After(prev.IssueTime) {
			continue
		}
		forecastByTime[key] = forecast
	}

	points := opts.Points
	if points == nil {
		points = make([]int, support)
		for i := range points {
			points[i] = i
		}
	}
	for _, p := range points {
		if p < 0 || p >= support {
			return nil, fmt.Errorf("%w: point index %d outside support of %d", ErrShapeMismatch, p, support)
		}
	}

	var pairs []TrainingPair
	for key, forecast := range forecastByTime {
		truth, ok := truthByTime[key]
		if !ok || len(truth.Values) != support {
			continue
		}

		if forecast.Unit != unit {
			converted, err := forecast.ConvertUnit(unit)
			if err != nil {
				return nil, fmt.Errorf("forecast at %s: %w", forecast.ValidTime.UTC(), err)
			}
			forecast = converted
		}
		if truth.Unit != unit {
			converted, err := truth.ConvertUnit(unit)
			if err != nil {
				return nil, fmt.Errorf("truth at %s: %w", truth.ValidTime.UTC(), err)
			}
			truth = converted
		}

		pairs = append(pairs, TrainingPair{
			Forecast: forecast.Select(points),
			Truth:    truth.Select(points),
		})
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Forecast.ValidTime.Before(pairs[j].Forecast.ValidTime)
	})
	if opts.WindowDays > 0 && len(pairs) > opts.WindowDays {
		pairs = pairs[len(pairs)-opts.WindowDays:]
	}

	minCases := opts.MinCases
	if minCases < 1 {
		minCases = 1
	}
	if len(pairs) < minCases {
		return nil, fmt.Errorf("%w: %d usable training cases, need at least %d", ErrInsufficientTrainingData, len(pairs), minCases)
	}

	return &TrainingSet{Unit: unit, Points: points, Pairs: pairs}, nil
}

// Flatten разворачивает выборку в параллельные ряды моментов ансамбля и
// наблюдений по всем дням и точкам. Тройки с нечисловыми значениями опускаются.
func (ts *TrainingSet) Flatten() (means, variances, obs []float64) {
	for _, pair := range ts.Pairs {
		caseMeans, caseVariances := pair.Forecast.Moments()
		for i, y := range pair.Truth.Values {
			if !isFinite(caseMeans[i]) || !isFinite(caseVariances[i]) || !isFinite(y) {
				continue
			}
			means = append(means, caseMeans[i])
			variances = append(variances, caseVariances[i])
			obs = append(obs, y)
		}
	}
	return means, variances, obs
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
