// Package feelslike вычисляет ощущаемую температуру по полям температуры,
// скорости ветра, относительной влажности и давления. Ниже 10 C действует
// индекс ветрового охлаждения, выше 20 C - кажущаяся температура в тени,
// между ними - линейная смесь обеих величин.
package feelslike

import (
	"fmt"
	"math"

	"ensemble-calibration/internal/domain"
)

// FromFields возвращает поле ощущаемой температуры в кельвинах.
// Входные поля приводятся к рабочим единицам через копии; сами поля
// не изменяются. Несводимые единицы дают ErrUnitMismatch, несовпадающая
// опора - ErrShapeMismatch.
func FromFields(temperature, windSpeed, relativeHumidity, pressure *domain.FieldCase) (*domain.FieldCase, error) {
	t, err := temperature.ConvertUnit(domain.Celsius)
	if err != nil {
		return nil, fmt.Errorf("temperature: %w", err)
	}
	windKmh, err := windSpeed.ConvertUnit(domain.KilometresPerHour)
	if err != nil {
		return nil, fmt.Errorf("wind speed: %w", err)
	}
	windMs, err := windSpeed.ConvertUnit(domain.MetresPerSecond)
	if err != nil {
		return nil, fmt.Errorf("wind speed: %w", err)
	}
	humidity, err := relativeHumidity.ConvertUnit(domain.Dimensionless)
	if err != nil {
		return nil, fmt.Errorf("relative humidity: %w", err)
	}
	p, err := pressure.ConvertUnit(domain.Pascal)
	if err != nil {
		return nil, fmt.Errorf("pressure: %w", err)
	}

	points := len(t.Values)
	if len(windKmh.Values) != points || len(humidity.Values) != points || len(p.Values) != points {
		return nil, fmt.Errorf("%w: fields cover %d, %d, %d and %d points",
			domain.ErrShapeMismatch, points, len(windKmh.Values), len(humidity.Values), len(p.Values))
	}

	values := make([]float64, points)
	for i := range values {
		tC := t.Values[i]
		chill := windChill(tC, windKmh.Values[i])
		apparent := apparentTemperature(tC, windMs.Values[i], humidity.Values[i], p.Values[i])

		var feels float64
		switch {
		case tC < 10:
			feels = chill
		case tC > 20:
			feels = apparent
		default:
			alpha := (tC - 10) / 10
			feels = chill*(1-alpha) + apparent*alpha
		}
		values[i] = feels + 273.15
	}

	return &domain.FieldCase{
		ValidTime: temperature.ValidTime,
		Unit:      domain.Kelvin,
		Values:    values,
	}, nil
}

// windChill вычисляет индекс ветрового охлаждения JAG/TI
// (Osczevski, Bluestein, 2005): температура в C, ветер в км/ч.
func windChill(tC, vKmh float64) float64 {
	wind := math.Pow(vKmh, 0.16)
	return 13.12 + 0.6215*tC + (0.3965*tC-11.37)*wind
}

// apparentTemperature вычисляет кажущуюся температуру в тени
// (Steadman, 1984): температура в C, ветер в м/с, влажность - доля,
// давление в Па.
func apparentTemperature(tC, vMs, humidity, pPa float64) float64 {
	avp := actualVapourPressure(tC, humidity, pPa)
	return -2.7 + 1.04*tC + 2.0*avp - 0.65*vMs
}

// actualVapourPressure вычисляет парциальное давление водяного пара в кПа:
// давление насыщения по формуле Бака (1996) с поправочным множителем на
// давление воздуха, затем домножение на относительную влажность.
func actualVapourPressure(tC, humidity, pPa float64) float64 {
	svp := 6.1121 * math.Exp((18.678-tC/234.5)*(tC/(257.14+tC)))
	enhancement := 1.0007 + 3.46e-8*pPa
	return 0.1 * humidity * svp * enhancement
}
