package app

// Thresholds пороги интерпретации и синтеза диагноза.
// Значения вторичных находок подобраны эмпирически, менять только по согласованию с агрономами.
type Thresholds struct {
	NoiseFloor float64 // метки с уверенностью <= порога отбрасываются
	SevereAt   float64
	ModerateAt float64

	SecondaryNarrativeMin    float64 // вторичные находки в тексте диагноза
	MaxSecondaryFindings     int
	SecondaryDeficiencyMin   float64 // вторичные дефициты в списке
	MaxSecondaryDeficiencies int

	HealthyExcellentAt float64
	ThreatPoorAt       float64
}

// DefaultThresholds возвращает пороги по умолчанию.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NoiseFloor:               0.10,
		SevereAt:                 0.80,
		ModerateAt:               0.50,
		SecondaryNarrativeMin:    0.15,
		MaxSecondaryFindings:     2,
		SecondaryDeficiencyMin:   0.20,
		MaxSecondaryDeficiencies: 2,
		HealthyExcellentAt:       0.70,
		ThreatPoorAt:             0.70,
	}
}
