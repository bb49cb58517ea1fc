package infrastructure

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"ensemble-calibration/internal/domain"
)

// FieldSeriesReader читает ряды полей из текстовых файлов.
//
// Ряд ансамблевых прогнозов - последовательность блоков вида
//
//	case <валидность RFC3339> <выпуск RFC3339> <члены> <точки> <единица>
//	<строка из <точки> значений>   - по одной на член ансамбля
//
// Ряд наблюдений - последовательность блоков вида
//
//	case <валидность RFC3339> <единица>
//	<строка значений>
//
// Единица измерений идёт последней: она может содержать пробелы ("m s-1").
type FieldSeriesReader struct {
	logger *zap.Logger
}

func NewFieldSeriesReader(logger *zap.Logger) *FieldSeriesReader {
	return &FieldSeriesReader{logger: logger}
}

func (r *FieldSeriesReader) ReadEnsembleSeries(filename string) ([]*domain.EnsembleCase, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}

	var series []*domain.EnsembleCase
	for i := 0; i < len(lines); {
		fields := strings.Fields(lines[i])
		if len(fields) < 6 || fields[0] != "case" {
			return nil, fmt.Errorf("%w: %s line %d: expected ensemble case header", domain.ErrInvalidFileFormat, filename, i+1)
		}

		validTime, err := time.Parse(time.RFC3339, fields[1])
		if err != nil {
			return nil, err
		}
		issueTime, err := time.Parse(time.RFC3339, fields[2])
		if err != nil {
			return nil, err
		}
		memberCount, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, err
		}
		points, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, err
		}
		if memberCount < 1 || points < 1 {
			return nil, fmt.Errorf("%w: %s line %d: ensemble needs at least one member and one point", domain.ErrInvalidFileFormat, filename, i+1)
		}
		unit := domain.Unit(strings.Join(fields[5:], " "))

		if i+1+memberCount > len(lines) {
			return nil, fmt.Errorf("%w: %s line %d: %d member rows expected", domain.ErrInvalidFileFormat, filename, i+1, memberCount)
		}

		members := make([][]float64, memberCount)
		for m := 0; m < memberCount; m++ {
			row, err := parseRow(lines[i+1+m])
			if err != nil {
				return nil, err
			}
			if len(row) != points {
				return nil, fmt.Errorf("%w: %s line %d: member row has %d values, expected %d", domain.ErrInvalidFileFormat, filename, i+2+m, len(row), points)
			}
			members[m] = row
		}

		series = append(series, &domain.EnsembleCase{
			ValidTime: validTime,
			IssueTime: issueTime,
			Unit:      unit,
			Members:   members,
		})
		i += 1 + memberCount
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("%w: %s holds no cases", domain.ErrInvalidFileFormat, filename)
	}

	r.logger.Debug("Ensemble series read",
		zap.String("file", filename),
		zap.Int("cases", len(series)))
	return series, nil
}

func (r *FieldSeriesReader) ReadFieldSeries(filename string) ([]*domain.FieldCase, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}

	var series []*domain.FieldCase
	for i := 0; i < len(lines); i += 2 {
		fields := strings.Fields(lines[i])
		if len(fields) < 3 || fields[0] != "case" {
			return nil, fmt.Errorf("%w: %s line %d: expected field case header", domain.ErrInvalidFileFormat, filename, i+1)
		}

		validTime, err := time.Parse(time.RFC3339, fields[1])
		if err != nil {
			return nil, err
		}
		unit := domain.Unit(strings.Join(fields[2:], " "))

		if i+1 >= len(lines) {
			return nil, fmt.Errorf("%w: %s line %d: value row expected", domain.ErrInvalidFileFormat, filename, i+1)
		}
		values, err := parseRow(lines[i+1])
		if err != nil {
			return nil, err
		}

		series = append(series, &domain.FieldCase{
			ValidTime: validTime,
			Unit:      unit,
			Values:    values,
		})
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("%w: %s holds no cases", domain.ErrInvalidFileFormat, filename)
	}

	r.logger.Debug("Field series read",
		zap.String("file", filename),
		zap.Int("cases", len(series)))
	return series, nil
}

// ReadMask читает маску опоры: значения, разделённые пробелами, на любом
// числе строк; ненулевое значение оставляет точку.
func (r *FieldSeriesReader) ReadMask(filename string) ([]float64, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}

	var mask []float64
	for _, line := range lines {
		row, err := parseRow(line)
		if err != nil {
			return nil, err
		}
		mask = append(mask, row...)
	}

	if len(mask) == 0 {
		return nil, fmt.Errorf("%w: %s holds no mask values", domain.ErrInvalidFileFormat, filename)
	}
	return mask, nil
}

// readLines возвращает непустые строки файла
func readLines(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func parseRow(line string) ([]float64, error) {
	fields := strings.Fields(line)
	row := make([]float64, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		row[i] = value
	}
	return row, nil
}
