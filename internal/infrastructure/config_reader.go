package infrastructure

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"ensemble-calibration/internal/domain"
	"ensemble-calibration/pkg/emos"
)

type YAMLConfigReader struct {
	logger   *zap.Logger
	validate *validator.Validate
}

func NewYAMLConfigReader(logger *zap.Logger) *YAMLConfigReader {
	return &YAMLConfigReader{
		logger:   logger,
		validate: validator.New(),
	}
}

func (r *YAMLConfigReader) ReadConfig(path string, overrides domain.ConfigOverrides) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config domain.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Применяем аргументы командной строки
	r.applyOverrides(&config, overrides)

	// Устанавливаем значения по умолчанию
	r.setDefaults(&config)

	// Проверяем согласованность конфигурации
	if err := r.validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &config, nil
}

func (r *YAMLConfigReader) applyOverrides(config *domain.Config, overrides domain.ConfigOverrides) {
	if overrides.Family != "" {
		config.Family = overrides.Family
	}
	if overrides.Pooling != "" {
		config.Pooling = overrides.Pooling
	}
	if overrides.Workers > 0 {
		config.Workers = overrides.Workers
	}
	if overrides.LogLevel != "" {
		config.LogLevel = overrides.LogLevel
	}
}

func (r *YAMLConfigReader) setDefaults(config *domain.Config) {
	if config.Family == "" {
		config.Family = "gaussian"
	}
	if config.TrainingDays == 0 {
		config.TrainingDays = 30
	}
	if config.MinCases == 0 {
		config.MinCases = 3
	}
	if config.Tolerance == 0 {
		config.Tolerance = emos.DefaultTolerance
	}
	if config.MaxIterations == 0 {
		config.MaxIterations = emos.DefaultMaxIterations
	}
	if config.MaxEvaluations == 0 {
		config.MaxEvaluations = emos.DefaultMaxEvaluations
	}
	if config.Pooling == "" {
		config.Pooling = "point"
	}
	if config.Workers == 0 {
		config.Workers = max(1, runtime.NumCPU()-1)
	}
	if config.Decimals == 0 {
		config.Decimals = 4
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}
