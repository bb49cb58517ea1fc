package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ensemble-calibration/internal/domain"
	"ensemble-calibration/internal/observability"
	"ensemble-calibration/pkg/emos"
)

// EnsembleCalibrator выполняет подбор коэффициентов EMOS по разделам опоры.
// Отказ одного раздела не прерывает остальные.
type EnsembleCalibrator struct {
	logger  *zap.Logger
	service domain.CalibrationService
	config  *domain.Config
	metrics *observability.Metrics
}

func NewEnsembleCalibrator(logger *zap.Logger, config *domain.Config, metrics *observability.Metrics) *EnsembleCalibrator {
	return &EnsembleCalibrator{
		logger: logger,
		service: emos.NewEstimator(logger, config.GetFamily(), emos.Options{
			Tolerance:      config.Tolerance,
			MaxIterations:  config.MaxIterations,
			MaxEvaluations: config.MaxEvaluations,
		}),
		config:  config,
		metrics: metrics,
	}
}

// Run калибрует все разделы и возвращает сводный отчёт. Контекст
// проверяется только между разделами: начатый раздел дорабатывает до
// своего бюджета, при отмене отчёт покрывает завершённые разделы.
func (c *EnsembleCalibrator) Run(ctx context.Context, forecasts []*domain.EnsembleCase, truths []*domain.FieldCase, mask []float64) (*domain.BatchReport, error) {
	if len(forecasts) == 0 {
		return nil, fmt.Errorf("%w: no forecasts supplied", domain.ErrInsufficientTrainingData)
	}
	support := forecasts[0].Points()

	points, err := domain.MaskIndices(mask, support)
	if err != nil {
		return nil, err
	}
	tasks := c.partitionTasks(points)

	report := &domain.BatchReport{
		RunID:     uuid.NewString(),
		Results:   make(map[string]*domain.CalibrationResult, len(tasks)),
		Failures:  make(map[string]error),
		StartedAt: domain.Now(),
	}

	workers := c.config.Workers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	taskChan := make(chan domain.PartitionTask, workers*2)
	resultChan := make(chan *domain.PartitionOutcome, len(tasks))

	c.logger.Info("Starting ensemble calibration",
		zap.String("run_id", report.RunID),
		zap.String("family", c.config.GetFamily().String()),
		zap.Int("points", support),
		zap.Int("partitions", len(tasks)),
		zap.Int("workers", workers))

	// Запускаем воркеры
	for i := 0; i < workers; i++ {
		wg.Add(1)
		c.logger.Debug("Starting worker", zap.Int("id", i))
		go c.worker(i, forecasts, truths, taskChan, &wg)
	}

	// Отправляем задачи, проверяя отмену между разделами
	go func() {
		defer close(taskChan)
		for _, task := range tasks {
			task.Result = resultChan
			select {
			case <-ctx.Done():
				return
			case taskChan <- task:
			}
		}
	}()

	// Собираем результаты
	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for outcome := range resultChan {
		if outcome.Err != nil {
			report.Failures[outcome.Scope] = outcome.Err
			c.metrics.PartitionsFailed.Inc()
			c.logger.Warn("Partition calibration failed",
				zap.String("scope", outcome.Scope),
				zap.Error(outcome.Err))
			continue
		}
		report.Results[outcome.Scope] = outcome.Result
		c.metrics.PartitionsCalibrated.Inc()
		c.metrics.ObjectiveEvaluations.Add(float64(outcome.Result.Evaluations))
		c.metrics.TrainingCases.Observe(float64(outcome.Result.TrainingCases))
	}

	report.CompletedAt = domain.Now()

	c.logger.Info("Calibration batch completed",
		zap.String("run_id", report.RunID),
		zap.Int("calibrated", len(report.Results)),
		zap.Int("failed", len(report.Failures)))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (c *EnsembleCalibrator) worker(id int, forecasts []*domain.EnsembleCase, truths []*domain.FieldCase, tasks <-chan domain.PartitionTask, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range tasks {
		c.logger.Debug("Calibrating partition",
			zap.Int("worker", id),
			zap.String("scope", task.Scope))

		start := time.Now()
		result, err := c.calibratePartition(forecasts, truths, task.Points, task.Scope)
		c.metrics.PartitionDuration.Observe(time.Since(start).Seconds())

		task.Result <- &domain.PartitionOutcome{
			Scope:  task.Scope,
			Result: result,
			Err:    err,
		}
	}
}

func (c *EnsembleCalibrator) calibratePartition(forecasts []*domain.EnsembleCase, truths []*domain.FieldCase, points []int, scope string) (*domain.CalibrationResult, error) {
	ts, err := domain.Assemble(forecasts, truths, domain.AssembleOptions{
		Hour:       c.config.ValidityHour,
		WindowDays: c.config.TrainingDays,
		MinCases:   c.config.MinCases,
		Points:     points,
	})
	if err != nil {
		return nil, err
	}

	result, err := c.service.Estimate(ts, nil)
	if err != nil {
		return nil, err
	}
	result.Coefficients.Scope = scope
	return result, nil
}

func (c *EnsembleCalibrator) partitionTasks(points []int) []domain.PartitionTask {
	if len(points) == 0 {
		return nil
	}
	if c.config.GetPooling() == domain.PoolDomain {
		return []domain.PartitionTask{{Scope: "domain", Points: points}}
	}

	tasks := make([]domain.PartitionTask, 0, len(points))
	for _, p := range points {
		tasks = append(tasks, domain.PartitionTask{
			Scope:  fmt.Sprintf("point:%d", p),
			Points: []int{p},
		})
	}
	return tasks
}
