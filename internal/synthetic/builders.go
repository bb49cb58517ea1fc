// Package synthetic собирает синтетические данные для тестов калибровки:
// эталонное поле 3x3 с тремя членами ансамбля, ряды исторических прогнозов
// и наблюдений с суточным шагом и вариант поля с ореолом нулей под маску
// суша-море. Строители комбинируются напрямую в тестах вместо одной общей
// процедуры подготовки.
package synthetic

import (
	"time"

	"ensemble-calibration/internal/domain"
)

// ValidTime возвращает валидность первого дня ряда
func ValidTime() time.Time {
	return time.Date(2017, 11, 10, 4, 0, 0, 0, time.UTC)
}

// IssueTime возвращает время выпуска первого дня ряда
func IssueTime() time.Time {
	return time.Date(2017, 11, 10, 0, 0, 0, 0, time.UTC)
}

// BaseMembers возвращает эталонное поле 3x3: три члена ансамбля по девяти
// точкам, построчная развёртка
func BaseMembers() [][]float64 {
	return [][]float64{
		{0.3, 1.1, 2.6, 4.2, 5.3, 6.0, 7.1, 8.2, 9.0},
		{0.7, 2.0, 3.0, 4.3, 5.6, 6.4, 7.0, 8.0, 9.0},
		{2.1, 3.0, 3.0, 4.8, 5.0, 6.0, 7.9, 8.0, 8.9},
	}
}

// TemperatureMembers возвращает эталонное поле в кельвинах
func TemperatureMembers() [][]float64 {
	return Shift(BaseMembers(), 273.15)
}

// Shift возвращает копию членов ансамбля, сдвинутую на delta
func Shift(members [][]float64, delta float64) [][]float64 {
	shifted := make([][]float64, len(members))
	for m, member := range members {
		shifted[m] = make([]float64, len(member))
		for i, v := range member {
			shifted[m][i] = v + delta
		}
	}
	return shifted
}

// MaxOverMembers возвращает поточечный максимум по членам ансамбля
func MaxOverMembers(members [][]float64) []float64 {
	maxes := make([]float64, len(members[0]))
	copy(maxes, members[0])
	for _, member := range members[1:] {
		for i, v := range member {
			if v > maxes[i] {
				maxes[i] = v
			}
		}
	}
	return maxes
}

// ConstantMembers возвращает ансамбль из одинаковых членов: дисперсия
// такого ансамбля равна нулю в каждой точке
func ConstantMembers(members, points int, value float64) [][]float64 {
	result := make([][]float64, members)
	for m := range result {
		result[m] = make([]float64, points)
		for i := range result[m] {
			result[m][i] = value
		}
	}
	return result
}

// HaloMembers разворачивает поле 3x3 в 5x5 с кольцом нулей по краю и
// возвращает его вместе с маской, отмечающей внутренние девять точек
func HaloMembers(members [][]float64) ([][]float64, []float64) {
	halo := make([][]float64, len(members))
	mask := make([]float64, 25)
	for m, member := range members {
		halo[m] = make([]float64, 25)
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				p := (row+1)*5 + col + 1
				halo[m][p] = member[row*3+col]
				mask[p] = 1
			}
		}
	}
	return halo, mask
}

// Forecast собирает один ансамблевый прогноз
func Forecast(members [][]float64, unit domain.Unit, valid, issued time.Time) *domain.EnsembleCase {
	return &domain.EnsembleCase{
		ValidTime: valid,
		IssueTime: issued,
		Unit:      unit,
		Members:   members,
	}
}

// HistoricForecasts собирает ряд исторических прогнозов: по одному прогнозу
// в день на том же часе, значения на 2 ниже текущего поля
func HistoricForecasts(members [][]float64, unit domain.Unit, days int) []*domain.EnsembleCase {
	shifted := Shift(members, -2)
	series := make([]*domain.EnsembleCase, days)
	for day := 0; day < days; day++ {
		series[day] = Forecast(
			shifted,
			unit,
			ValidTime().AddDate(0, 0, day),
			IssueTime().AddDate(0, 0, day),
		)
	}
	return series
}

// Truths собирает ряд наблюдений: поточечный максимум по членам ансамбля
// от поля, сниженного на 3, по одному наблюдению в день
func Truths(members [][]float64, unit domain.Unit, days int) []*domain.FieldCase {
	values := MaxOverMembers(Shift(members, -3))
	series := make([]*domain.FieldCase, days)
	for day := 0; day < days; day++ {
		truth := make([]float64, len(values))
		copy(truth, values)
		series[day] = &domain.FieldCase{
			ValidTime: ValidTime().AddDate(0, 0, day),
			Unit:      unit,
			Values:    truth,
		}
	}
	return series
}
