package domain

// SeriesReader интерфейс для чтения рядов полей
type SeriesReader interface {
	ReadEnsembleSeries(filename string) ([]*EnsembleCase, error)
	ReadFieldSeries(filename string) ([]*FieldCase, error)
	ReadMask(filename string) ([]float64, error)
}

// ResultWriter интерфейс для записи результатов
type ResultWriter interface {
	WriteCoefficients(filename string, report *BatchReport, decimals int) error
	WriteFieldSeries(filename string, fields []*FieldCase, decimals int) error
}

// ConfigReader интерфейс для чтения конфигурации
type ConfigReader interface {
	ReadConfig(path string, overrides ConfigOverrides) (*Config, error)
}
