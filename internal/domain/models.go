package domain

import (
	"errors"
	"time"
)

// Config представляет конфигурацию приложения
type Config struct {
	Family         string  `yaml:"family" validate:"oneof=gaussian truncated-gaussian"`
	TrainingDays   int     `yaml:"training_days" validate:"gt=0"`
	ValidityHour   int     `yaml:"validity_hour" validate:"gte=0,lte=23"`
	MinCases       int     `yaml:"min_cases" validate:"gt=0"`
	Tolerance      float64 `yaml:"tolerance" validate:"gt=0"`
	MaxIterations  int     `yaml:"max_iterations" validate:"gt=0"`
	MaxEvaluations int     `yaml:"max_evaluations" validate:"gt=0"`
	Pooling        string  `yaml:"pooling" validate:"oneof=point domain"`
	Workers        int     `yaml:"workers" validate:"gt=0"`
	Decimals       int     `yaml:"decimals" validate:"gte=0"`
	LogLevel       string  `yaml:"log_level"`
	LogFile        string  `yaml:"log_file"`
	MetricsAddr    string  `yaml:"metrics_addr"`
}

// ConfigOverrides представляет переопределения конфигурации из командной строки
type ConfigOverrides struct {
	Family   string
	Pooling  string
	Workers  int
	LogLevel string
}

func (c *Config) GetFamily() DistributionFamily {
	switch c.Family {

	case "truncated-gaussian":
		return FamilyTruncatedGaussian

	default:
		return FamilyGaussian
	}
}

func (c *Config) GetPooling() PoolingPolicy {
	switch c.Pooling {

	case "domain":
		return PoolDomain

	default:
		return PoolPerPoint
	}
}

// CalibrationResult представляет результат подбора коэффициентов для одного раздела
type CalibrationResult struct {
	Coefficients  CoefficientSet
	FinalCRPS     float64
	Iterations    int
	Evaluations   int
	Converged     bool
	Message       string
	TrainingCases int
	FittedAt      time.Time
}

// BatchReport представляет сводку запуска калибровки по всем разделам
type BatchReport struct {
	RunID       string
	Results     map[string]*CalibrationResult
	Failures    map[string]error
	StartedAt   time.Time
	CompletedAt time.Time
}

// DistributionFamily представляет семейство прогностического распределения
type DistributionFamily int

const (
	FamilyGaussian DistributionFamily = iota
	FamilyTruncatedGaussian
)

func (f DistributionFamily) String() string {
	switch f {
	case FamilyTruncatedGaussian:
		return "truncated-gaussian"
	default:
		return "gaussian"
	}
}

// PoolingPolicy представляет способ разбиения опоры на разделы
type PoolingPolicy int

const (
	PoolPerPoint PoolingPolicy = iota
	PoolDomain
)

var (
	ErrUnitMismatch             = errors.New("unit mismatch")
	ErrInsufficientTrainingData = errors.New("insufficient training data")
	ErrOptimizationDivergence   = errors.New("optimization divergence")
	ErrShapeMismatch            = errors.New("shape mismatch")
	ErrInvalidFileFormat        = errors.New("invalid file format")
)
