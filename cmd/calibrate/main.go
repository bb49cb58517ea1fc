package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ensemble-calibration/internal/app"
	"ensemble-calibration/internal/domain"
	"ensemble-calibration/internal/infrastructure"
	"ensemble-calibration/internal/observability"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	forecastsPath := flag.String("forecasts", "forecasts.txt", "Historic ensemble forecast series")
	truthsPath := flag.String("truths", "truths.txt", "Verifying observation series")
	maskPath := flag.String("mask", "", "Optional support mask file")
	outputPath := flag.String("output", "coefficients.txt", "Coefficient table output")
	rankPath := flag.String("rank-histogram", "rank_histogram.txt", "Rank histogram output")
	workers := flag.Int("workers", 0, "Number of workers")
	family := flag.String("family", "", "Distribution family")
	pooling := flag.String("pooling", "", "Pooling policy")
	logLevel := flag.String("log-level", "", "Log level")
	flag.Parse()

	// Инициализация логгера
	logger := initLogger("info")
	defer logger.Sync()

	// Чтение конфигурации
	configReader := infrastructure.NewYAMLConfigReader(logger)
	config, err := configReader.ReadConfig(*configPath, domain.ConfigOverrides{
		Family:   *family,
		Pooling:  *pooling,
		Workers:  *workers,
		LogLevel: *logLevel,
	})
	if err != nil {
		logger.Fatal("Failed to read config", zap.Error(err))
	}

	// Обновляем уровень логирования
	logger = initLogger(config.LogLevel, config.LogFile)

	// Инициализация компонентов
	fileReader := infrastructure.NewFieldSeriesReader(logger)
	fileWriter := infrastructure.NewTableResultWriter(logger)
	metrics := observability.NewMetrics()
	calibrator := app.NewEnsembleCalibrator(logger, config, metrics)

	if config.MetricsAddr != "" {
		go serveMetrics(config.MetricsAddr, logger)
	}

	// Чтение входных данных
	forecasts, err := fileReader.ReadEnsembleSeries(*forecastsPath)
	if err != nil {
		logger.Fatal("Failed to read forecast series", zap.Error(err))
	}

	truths, err := fileReader.ReadFieldSeries(*truthsPath)
	if err != nil {
		logger.Fatal("Failed to read truth series", zap.Error(err))
	}

	var mask []float64
	if *maskPath != "" {
		mask, err = fileReader.ReadMask(*maskPath)
		if err != nil {
			logger.Fatal("Failed to read mask", zap.Error(err))
		}
	}

	// Проверка совместимости опоры
	if !validateSupportSizes(forecasts, truths) {
		logger.Fatal("Input series have incompatible spatial supports")
	}

	logger.Info("Starting EMOS coefficient estimation",
		zap.String("family", config.GetFamily().String()),
		zap.Int("forecast_cases", len(forecasts)),
		zap.Int("truth_cases", len(truths)),
		zap.Int("points", forecasts[0].Points()),
		zap.Int("workers", config.Workers))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Диагностика сырого ансамбля до калибровки
	writeRankHistogram(*rankPath, forecasts, truths, mask, config, fileWriter, logger)

	// Подбор коэффициентов
	report, err := calibrator.Run(ctx, forecasts, truths, mask)
	if err != nil {
		logger.Fatal("Calibration batch failed", zap.Error(err))
	}

	for scope, ferr := range report.Failures {
		logger.Warn("Partition was not calibrated",
			zap.String("scope", scope),
			zap.Error(ferr))
	}

	// Запись результатов
	if err := fileWriter.WriteCoefficients(*outputPath, report, config.Decimals); err != nil {
		logger.Fatal("Failed to write coefficient table", zap.Error(err))
	}

	logger.Info("EMOS coefficient estimation completed",
		zap.String("run_id", report.RunID),
		zap.Int("calibrated", len(report.Results)),
		zap.Int("failed", len(report.Failures)),
		zap.String("output", *outputPath))
}

// initLogger initializes the logger with the specified level and log file name.
func initLogger(level string, logfileName ...string) *zap.Logger {
	config := zap.NewProductionConfig()

	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	outputPaths := []string{"stderr"}
	for _, item := range logfileName {
		if item != "" {
			outputPaths = append(outputPaths, item)
		}
	}

	config.OutputPaths = outputPaths
	config.ErrorOutputPaths = outputPaths
	config.EncoderConfig.TimeKey = "t"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	config.DisableCaller = false

	logger, _ := config.Build()
	return logger
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("Metrics listener starting", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Metrics listener failed", zap.Error(err))
	}
}

// writeRankHistogram собирает выборку по всей маскированной опоре и пишет
// гистограмму рангов сырого ансамбля. Диагностика необязательна: её отказ
// не прерывает калибровку.
func writeRankHistogram(filename string, forecasts []*domain.EnsembleCase, truths []*domain.FieldCase, mask []float64, config *domain.Config, fileWriter *infrastructure.TableResultWriter, logger *zap.Logger) {
	if filename == "" {
		return
	}

	points, err := domain.MaskIndices(mask, forecasts[0].Points())
	if err != nil {
		logger.Warn("Skipping rank histogram", zap.Error(err))
		return
	}

	ts, err := domain.Assemble(forecasts, truths, domain.AssembleOptions{
		Hour:       config.ValidityHour,
		WindowDays: config.TrainingDays,
		MinCases:   config.MinCases,
		Points:     points,
	})
	if err != nil {
		logger.Warn("Skipping rank histogram", zap.Error(err))
		return
	}

	hist, err := ts.RankHistogram()
	if err != nil {
		logger.Warn("Skipping rank histogram", zap.Error(err))
		return
	}

	if err := fileWriter.WriteHistogram(filename, &hist); err != nil {
		logger.Error("Failed to write rank histogram",
			zap.String("file", filename),
			zap.Error(err))
		return
	}
	logger.Info("Rank histogram written", zap.String("file", filename))
}

func validateSupportSizes(forecasts []*domain.EnsembleCase, truths []*domain.FieldCase) bool {
	if len(forecasts) == 0 || len(truths) == 0 {
		return false
	}

	points := forecasts[0].Points()
	for _, forecast := range forecasts[1:] {
		if forecast.Points() != points {
			return false
		}
	}
	for _, truth := range truths {
		if len(truth.Values) != points {
			return false
		}
	}
	return true
}
