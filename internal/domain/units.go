package domain

import (
	"fmt"
)

// Unit представляет физическую единицу измерений поля
type Unit string

const (
	Kelvin            Unit = "K"
	Celsius           Unit = "degC"
	Fahrenheit        Unit = "degF"
	MetresPerSecond   Unit = "m s-1"
	Knots             Unit = "kn"
	KilometresPerHour Unit = "km h-1"
	Pascal            Unit = "Pa"
	Hectopascal       Unit = "hPa"
	Dimensionless     Unit = "1"
	Percent           Unit = "%"
)

// LinearConversion представляет линейное преобразование единиц v' = Scale*v + Offset
type LinearConversion struct {
	Scale  float64
	Offset float64
}

func (lc LinearConversion) Apply(v float64) float64 {
	return lc.Scale*v + lc.Offset
}

type unitBase struct {
	kind string
	// приведение к базовой единице вида: base = scale*v + offset
	scale  float64
	offset float64
}

var unitTable = map[Unit]unitBase{
	Kelvin:            {kind: "temperature", scale: 1, offset: 0},
	Celsius:           {kind: "temperature", scale: 1, offset: 273.15},
	Fahrenheit:        {kind: "temperature", scale: 5.0 / 9.0, offset: 459.67 * 5.0 / 9.0},
	MetresPerSecond:   {kind: "speed", scale: 1, offset: 0},
	Knots:             {kind: "speed", scale: 1852.0 / 3600.0, offset: 0},
	KilometresPerHour: {kind: "speed", scale: 1000.0 / 3600.0, offset: 0},
	Pascal:            {kind: "pressure", scale: 1, offset: 0},
	Hectopascal:       {kind: "pressure", scale: 100, offset: 0},
	Dimensionless:     {kind: "fraction", scale: 1, offset: 0},
	Percent:           {kind: "fraction", scale: 0.01, offset: 0},
}

// Conversion строит линейное преобразование из единицы u в единицу to.
// Единицы разных видов несовместимы.
func (u Unit) Conversion(to Unit) (LinearConversion, error) {
	from, ok := unitTable[u]
	if !ok {
		return LinearConversion{}, fmt.Errorf("%w: unknown unit %q", ErrUnitMismatch, u)
	}
	target, ok := unitTable[to]
	if !ok {
		return LinearConversion{}, fmt.Errorf("%w: unknown unit %q", ErrUnitMismatch, to)
	}
	if from.kind != target.kind {
		return LinearConversion{}, fmt.Errorf("%w: cannot convert %q to %q", ErrUnitMismatch, u, to)
	}

	return LinearConversion{
		Scale:  from.scale / target.scale,
		Offset: (from.offset - target.offset) / target.scale,
	}, nil
}

// Convert переводит значение из единицы u в единицу to
func (u Unit) Convert(v float64, to Unit) (float64, error) {
	lc, err := u.Conversion(to)
	if err != nil {
		return 0, err
	}
	return lc.Apply(v), nil
}
