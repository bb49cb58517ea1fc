package infrastructure

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ensemble-calibration/internal/domain"
)

func TestWriteCoefficients(t *testing.T) {
	writer := NewTableResultWriter(zap.NewNop())
	path := filepath.Join(t.TempDir(), "coefficients.tsv")

	report := &domain.BatchReport{
		RunID: "test-run",
		Results: map[string]*domain.CalibrationResult{
			"point:1": {
				Coefficients:  domain.CoefficientSet{A: 0.5, B: 1.25, Gamma: 0.1, Delta: 0.9, Family: domain.FamilyGaussian, Unit: domain.Kelvin, Scope: "point:1"},
				FinalCRPS:     0.1234,
				Iterations:    120,
				Evaluations:   240,
				Converged:     true,
				TrainingCases: 5,
			},
			"point:0": {
				Coefficients:  domain.CoefficientSet{A: -0.25, B: 1, Gamma: 0, Delta: 1, Family: domain.FamilyGaussian, Unit: domain.Kelvin, Scope: "point:0"},
				FinalCRPS:     0.5,
				Iterations:    80,
				Evaluations:   160,
				Converged:     false,
				TrainingCases: 4,
			},
		},
	}

	require.NoError(t, writer.WriteCoefficients(path, report, 4))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "# run test-run", lines[0])
	assert.Equal(t, "scope\tfamily\tunit\ta\tb\tgamma\tdelta\tcrps\tcases\titerations\tevaluations\tconverged", lines[1])
	// Разделы упорядочены по имени
	assert.Equal(t, "point:0\tgaussian\tK\t-0.2500\t1.0000\t0.0000\t1.0000\t0.5000\t4\t80\t160\tfalse", lines[2])
	assert.Equal(t, "point:1\tgaussian\tK\t0.5000\t1.2500\t0.1000\t0.9000\t0.1234\t5\t120\t240\ttrue", lines[3])
}

func TestWriteCoefficientsEmptyReport(t *testing.T) {
	writer := NewTableResultWriter(zap.NewNop())
	path := filepath.Join(t.TempDir(), "coefficients.tsv")

	report := &domain.BatchReport{RunID: "empty-run", Results: map[string]*domain.CalibrationResult{}}
	require.NoError(t, writer.WriteCoefficients(path, report, 4))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
}

func TestWriteFieldSeriesRoundTrip(t *testing.T) {
	writer := NewTableResultWriter(zap.NewNop())
	reader := NewFieldSeriesReader(zap.NewNop())
	path := filepath.Join(t.TempDir(), "calibrated_mean.txt")

	fields := []*domain.FieldCase{
		{
			ValidTime: time.Date(2017, 11, 10, 4, 0, 0, 0, time.UTC),
			Unit:      domain.MetresPerSecond,
			Values:    []float64{0.51444, 2.5, -1.03},
		},
		{
			ValidTime: time.Date(2017, 11, 11, 4, 0, 0, 0, time.UTC),
			Unit:      domain.MetresPerSecond,
			Values:    []float64{1.25, 0, 3.75},
		},
	}

	require.NoError(t, writer.WriteFieldSeries(path, fields, 4))

	got, err := reader.ReadFieldSeries(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i, field := range fields {
		assert.True(t, got[i].ValidTime.Equal(field.ValidTime), "case %d", i)
		assert.Equal(t, field.Unit, got[i].Unit)
		require.Len(t, got[i].Values, len(field.Values))
		for j, v := range field.Values {
			assert.InDelta(t, v, got[i].Values[j], 1e-4)
		}
	}
}

func TestWriteHistogram(t *testing.T) {
	writer := NewTableResultWriter(zap.NewNop())
	path := filepath.Join(t.TempDir(), "ranks.tsv")

	hist := &domain.Histogram{Bins: []float64{0, 1, 2, 3}, Vals: []int{12, 9, 11, 13}, Len: 4}
	require.NoError(t, writer.WriteHistogram(path, hist))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	require.Len(t, lines, 5)
	assert.Equal(t, "rank\tcount", lines[0])
	assert.Equal(t, []string{"0", "12"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"3", "13"}, strings.Fields(lines[4]))
}
