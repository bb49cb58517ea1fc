package emos

import (
	"fmt"

	"go.uber.org/zap"

	"ensemble-calibration/internal/domain"
)

// Estimator подбирает коэффициенты EMOS для обучающей выборки
type Estimator struct {
	logger    *zap.Logger
	minimizer *Minimizer
	family    domain.DistributionFamily
	opts      Options
}

func NewEstimator(logger *zap.Logger, family domain.DistributionFamily, opts Options) *Estimator {
	return &Estimator{
		logger:    logger,
		minimizer: NewMinimizer(logger),
		family:    family,
		opts:      opts.withDefaults(),
	}
}

// Estimate минимизирует средний CRPS по выборке. Начальное приближение -
// единичные коэффициенты, либо prior, приведённый к единице выборки.
func (e *Estimator) Estimate(ts *domain.TrainingSet, prior *domain.CoefficientSet) (*domain.CalibrationResult, error) {
	objective := NewObjective(ts, e.family)
	if objective.Len() == 0 {
		return nil, fmt.Errorf("%w: no finite training samples", domain.ErrInsufficientTrainingData)
	}

	initial := domain.IdentityCoefficients(e.family, ts.Unit)
	if prior != nil {
		converted, err := prior.ConvertUnit(ts.Unit)
		if err != nil {
			return nil, fmt.Errorf("prior coefficients: %w", err)
		}
		initial = converted
	}

	outcome, err := e.minimizer.Minimize(objective.Value, initial.Array(), e.opts)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Coefficients estimated",
		zap.Float64s("x", outcome.X),
		zap.Float64("crps", outcome.Value),
		zap.Bool("converged", outcome.Converged),
		zap.Int("samples", objective.Len()))

	return &domain.CalibrationResult{
		Coefficients:  domain.CoefficientsFromArray(outcome.X, e.family, ts.Unit),
		FinalCRPS:     outcome.Value,
		Iterations:    outcome.Iterations,
		Evaluations:   outcome.Evaluations,
		Converged:     outcome.Converged,
		Message:       outcome.Message,
		TrainingCases: len(ts.Pairs),
		FittedAt:      domain.Now(),
	}, nil
}
