package domain

// CalibrationService сервис подбора коэффициентов по обучающей выборке
type CalibrationService interface {
	Estimate(ts *TrainingSet, prior *CoefficientSet) (*CalibrationResult, error)
}

// PartitionTask задача калибровки одного раздела опоры
type PartitionTask struct {
	Scope  string
	Points []int
	Result chan<- *PartitionOutcome
}

type PartitionOutcome struct {
	Scope  string
	Result *CalibrationResult
	Err    error
}
