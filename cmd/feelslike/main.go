package main

import (
	"flag"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ensemble-calibration/internal/domain"
	"ensemble-calibration/internal/infrastructure"
	"ensemble-calibration/pkg/feelslike"
)

func main() {
	temperaturePath := flag.String("temperature", "temperature.txt", "Air temperature series")
	windPath := flag.String("wind-speed", "wind_speed.txt", "10 m wind speed series")
	humidityPath := flag.String("humidity", "relative_humidity.txt", "Relative humidity series")
	pressurePath := flag.String("pressure", "pressure.txt", "Air pressure series")
	outputPath := flag.String("output", "feels_like_temperature.txt", "Feels-like temperature output")
	decimals := flag.Int("decimals", 4, "Decimal places in the output")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	// Инициализация логгера
	logger := initLogger(*logLevel)
	defer logger.Sync()

	fileReader := infrastructure.NewFieldSeriesReader(logger)
	fileWriter := infrastructure.NewTableResultWriter(logger)

	// Чтение входных данных
	temperature, err := fileReader.ReadFieldSeries(*temperaturePath)
	if err != nil {
		logger.Fatal("Failed to read temperature series", zap.Error(err))
	}

	wind, err := fileReader.ReadFieldSeries(*windPath)
	if err != nil {
		logger.Fatal("Failed to read wind speed series", zap.Error(err))
	}

	humidity, err := fileReader.ReadFieldSeries(*humidityPath)
	if err != nil {
		logger.Fatal("Failed to read relative humidity series", zap.Error(err))
	}

	pressure, err := fileReader.ReadFieldSeries(*pressurePath)
	if err != nil {
		logger.Fatal("Failed to read pressure series", zap.Error(err))
	}

	if len(wind) != len(temperature) || len(humidity) != len(temperature) || len(pressure) != len(temperature) {
		logger.Fatal("Input series have different case counts",
			zap.Int("temperature", len(temperature)),
			zap.Int("wind_speed", len(wind)),
			zap.Int("relative_humidity", len(humidity)),
			zap.Int("pressure", len(pressure)))
	}

	logger.Info("Starting feels-like temperature calculation",
		zap.Int("cases", len(temperature)),
		zap.Int("points", len(temperature[0].Values)))

	// Обработка данных
	results := make([]*domain.FieldCase, 0, len(temperature))
	for i := range temperature {
		result, err := feelslike.FromFields(temperature[i], wind[i], humidity[i], pressure[i])
		if err != nil {
			logger.Fatal("Failed to compute feels-like temperature",
				zap.Int("case", i),
				zap.Error(err))
		}
		results = append(results, result)
	}

	// Запись результатов
	if err := fileWriter.WriteFieldSeries(*outputPath, results, *decimals); err != nil {
		logger.Fatal("Failed to write feels-like temperature",
			zap.String("file", *outputPath),
			zap.Error(err))
	}

	logger.Info("Feels-like temperature calculation completed",
		zap.String("output", *outputPath),
		zap.Int("cases", len(results)))
}

// initLogger initializes the logger with the specified level.
func initLogger(level string) *zap.Logger {
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

	config.EncoderConfig.TimeKey = "t"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	config.DisableCaller = false

	logger, _ := config.Build()
	return logger
}
