package emos

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"

	"ensemble-calibration/internal/domain"
)

const (
	DefaultTolerance      = 0.0001
	DefaultMaxIterations  = 1000
	DefaultMaxEvaluations = 2000

	// convergeRunLength - число подряд идущих итераций, на которых улучшение
	// целевой функции должно оставаться ниже допуска
	convergeRunLength = 20
)

// Options задаёт политику сходимости минимизатора
type Options struct {
	Tolerance      float64
	MaxIterations  int
	MaxEvaluations int
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.MaxEvaluations <= 0 {
		o.MaxEvaluations = DefaultMaxEvaluations
	}
	return o
}

// MinimizeOutcome представляет исход одного запуска минимизатора
type MinimizeOutcome struct {
	X           []float64
	Value       float64
	Iterations  int
	Evaluations int
	Converged   bool
	Message     string
}

// Minimizer подбирает вектор коэффициентов методом Нелдера-Мида.
// Вычисления строго последовательные: результат воспроизводим между
// запусками с точностью до допуска сходимости.
type Minimizer struct {
	logger *zap.Logger
}

func NewMinimizer(logger *zap.Logger) *Minimizer {
	return &Minimizer{logger: logger}
}

func (m *Minimizer) Minimize(f func([]float64) float64, initial []float64, opts Options) (*MinimizeOutcome, error) {
	opts = opts.withDefaults()

	problem := optimize.Problem{Func: f}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   opts.Tolerance,
			Iterations: convergeRunLength,
		},
		MajorIterations: opts.MaxIterations,
		FuncEvaluations: opts.MaxEvaluations,
	}

	result, err := optimize.Minimize(problem, initial, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("%w: nelder-mead: %v", domain.ErrOptimizationDivergence, err)
	}
	if !finiteVector(result.X) || math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return nil, fmt.Errorf("%w: non-finite terminal state %v", domain.ErrOptimizationDivergence, result.X)
	}

	converged := false
	var message string
	switch result.Status {
	case optimize.FunctionConvergence, optimize.MethodConverge:
		converged = true
		message = "objective decrease below tolerance"
	case optimize.IterationLimit:
		message = "maximum iterations reached without meeting tolerance"
	case optimize.FunctionEvaluationLimit:
		message = "evaluation budget exhausted without meeting tolerance"
	default:
		message = result.Status.String()
	}

	m.logger.Debug("Minimization finished",
		zap.String("status", result.Status.String()),
		zap.Float64("objective", result.F),
		zap.Int("iterations", result.Stats.MajorIterations),
		zap.Int("evaluations", result.Stats.FuncEvaluations))

	return &MinimizeOutcome{
		X:           result.X,
		Value:       result.F,
		Iterations:  result.Stats.MajorIterations,
		Evaluations: result.Stats.FuncEvaluations,
		Converged:   converged,
		Message:     message,
	}, nil
}

func finiteVector(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
