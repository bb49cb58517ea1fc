package domain

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"
)

// FieldCase представляет одно детерминированное поле (наблюдения, маска, результат)
type FieldCase struct {
	ValidTime time.Time
	Unit      Unit
	Values    []float64
}

// EnsembleCase представляет одно ансамблевое поле прогноза
type EnsembleCase struct {
	ValidTime time.Time
	IssueTime time.Time
	Unit      Unit
	Members   [][]float64
}

// Points возвращает размер пространственной опоры поля
func (e *EnsembleCase) Points() int {
	if len(e.Members) == 0 {
		return 0
	}
	return len(e.Members[0])
}

// Validate проверяет согласованность членов ансамбля
func (e *EnsembleCase) Validate() error {
	if len(e.Members) == 0 {
		return fmt.Errorf("%w: ensemble has no members", ErrShapeMismatch)
	}
	n := len(e.Members[0])
	for m, member := range e.Members {
		if len(member) != n {
			return fmt.Errorf("%w: member %d has %d points, expected %d", ErrShapeMismatch, m, len(member), n)
		}
	}
	return nil
}

// Moments вычисляет поточечное среднее и несмещённую дисперсию по членам ансамбля.
// Результат не зависит от порядка членов.
func (e *EnsembleCase) Moments() (means, variances []float64) {
	points := e.Points()
	means = make([]float64, points)
	variances = make([]float64, points)

	column := make([]float64, len(e.Members))
	for p := 0; p < points; p++ {
		for m := range e.Members {
			column[m] = e.Members[m][p]
		}
		means[p], variances[p] = stat.MeanVariance(column, nil)
	}
	return means, variances
}

// Select возвращает копию поля, ограниченную указанными точками опоры
func (e *EnsembleCase) Select(points []int) *EnsembleCase {
	members := make([][]float64, len(e.Members))
	for m, member := range e.Members {
		members[m] = make([]float64, len(points))
		for i, p := range points {
			members[m][i] = member[p]
		}
	}
	return &EnsembleCase{
		ValidTime: e.ValidTime,
		IssueTime: e.IssueTime,
		Unit:      e.Unit,
		Members:   members,
	}
}

// ConvertUnit возвращает копию поля в указанной единице измерений
func (e *EnsembleCase) ConvertUnit(to Unit) (*EnsembleCase, error) {
	lc, err := e.Unit.Conversion(to)
	if err != nil {
		return nil, err
	}
	members := make([][]float64, len(e.Members))
	for m, member := range e.Members {
		members[m] = make([]float64, len(member))
		for i, v := range member {
			members[m][i] = lc.Apply(v)
		}
	}
	return &EnsembleCase{
		ValidTime: e.ValidTime,
		IssueTime: e.IssueTime,
		Unit:      to,
		Members:   members,
	}, nil
}

// Select возвращает копию поля, ограниченную указанными точками опоры
func (f *FieldCase) Select(points []int) *FieldCase {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = f.Values[p]
	}
	return &FieldCase{
		ValidTime: f.ValidTime,
		Unit:      f.Unit,
		Values:    values,
	}
}

// ConvertUnit возвращает копию поля в указанной единице измерений
func (f *FieldCase) ConvertUnit(to Unit) (*FieldCase, error) {
	lc, err := f.Unit.Conversion(to)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(f.Values))
	for i, v := range f.Values {
		values[i] = lc.Apply(v)
	}
	return &FieldCase{
		ValidTime: f.ValidTime,
		Unit:      to,
		Values:    values,
	}, nil
}

// MaskIndices возвращает индексы точек опоры, отмеченных в маске ненулевым значением.
// Пустая маска оставляет все точки.
func MaskIndices(mask []float64, points int) ([]int, error) {
	if mask == nil {
		indices := make([]int, points)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}
	if len(mask) != points {
		return nil, fmt.Errorf("%w: mask has %d points, fields have %d", ErrShapeMismatch, len(mask), points)
	}
	var indices []int
	for i, v := range mask {
		if v > 0 {
			indices = append(indices, i)
		}
	}
	return indices, nil
}
