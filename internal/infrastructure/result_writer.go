package infrastructure

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"ensemble-calibration/internal/domain"
)

type FmtFunc func(float64) string

// fixedFmt строит форматтер с фиксированным числом знаков после запятой
func fixedFmt(decimals int) FmtFunc {
	return func(val float64) string {
		return strconv.FormatFloat(val, 'f', decimals, 64)
	}
}

// TableResultWriter записывает результаты калибровки в текстовые файлы
type TableResultWriter struct {
	logger *zap.Logger
}

func NewTableResultWriter(logger *zap.Logger) *TableResultWriter {
	return &TableResultWriter{logger: logger}
}

// WriteCoefficients записывает таблицу коэффициентов по разделам опоры.
// Строки упорядочены по имени раздела, чтобы файл был воспроизводим.
func (w *TableResultWriter) WriteCoefficients(filename string, report *domain.BatchReport, decimals int) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	formatter := fixedFmt(decimals)

	fmt.Fprintf(writer, "# run %s\n", report.RunID)
	fmt.Fprintln(writer, strings.Join([]string{
		"scope", "family", "unit", "a", "b", "gamma", "delta",
		"crps", "cases", "iterations", "evaluations", "converged",
	}, "\t"))

	scopes := make([]string, 0, len(report.Results))
	for scope := range report.Results {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)

	for _, scope := range scopes {
		result := report.Results[scope]
		c := result.Coefficients
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%t\n",
			scope,
			c.Family.String(),
			c.Unit,
			formatter(c.A),
			formatter(c.B),
			formatter(c.Gamma),
			formatter(c.Delta),
			formatter(result.FinalCRPS),
			result.TrainingCases,
			result.Iterations,
			result.Evaluations,
			result.Converged,
		)
	}

	w.logger.Debug("Coefficient table written",
		zap.String("file", filename),
		zap.Int("partitions", len(scopes)))
	return nil
}

// WriteFieldSeries записывает ряд полей в формате, который читает
// FieldSeriesReader.ReadFieldSeries.
func (w *TableResultWriter) WriteFieldSeries(filename string, fields []*domain.FieldCase, decimals int) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	formatter := fixedFmt(decimals)

	for _, field := range fields {
		fmt.Fprintf(writer, "case %s %s\n", field.ValidTime.UTC().Format(time.RFC3339), field.Unit)
		var rowStr []string
		for _, val := range field.Values {
			rowStr = append(rowStr, formatter(val))
		}
		fmt.Fprintf(writer, "%s\n", strings.Join(rowStr, "\t"))
	}

	return nil
}

// WriteHistogram записывает гистограмму рангов наблюдений
func (w *TableResultWriter) WriteHistogram(filename string, hist *domain.Histogram) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	fmt.Fprintf(writer, "%s\n", strings.Join([]string{"rank", "count"}, "\t"))
	for i := 0; i < hist.Len; i++ {
		fmt.Fprintf(writer, "%.0f\t%10d\n", hist.Bins[i], hist.Vals[i])
	}

	return nil
}
