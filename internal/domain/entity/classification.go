package entity

// RawLabel сырая пара метка/уверенность от классификатора.
type RawLabel struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// LabelCategory категория метки классификатора
type LabelCategory string

const (
	CategoryHealthy  LabelCategory = "healthy"  // растение здорово
	CategoryPest     LabelCategory = "pest"     // вредитель
	CategoryDisease  LabelCategory = "disease"  // болезнь
	CategoryNutrient LabelCategory = "nutrient" // дефицит элемента питания
	CategoryUnknown  LabelCategory = "unknown"  // метка вне словаря
)

// IsThreat сообщает, относится ли категория к вредителям или болезням.
func (c LabelCategory) IsThreat() bool {
	return c == CategoryPest || c == CategoryDisease
}

// Severity степень выраженности дефицита
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

var severityNames = map[Severity]string{
	SeverityLow:      "leve",
	SeverityModerate: "moderada",
	SeveritySevere:   "severa",
}

// DisplayName возвращает название тяжести для отчётов.
func (s Severity) DisplayName() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return string(s)
}

// ClassificationResult хранит интерпретированный результат классификации.
type ClassificationResult struct {
	Identifier string        `json:"identifier"`
	Confidence float64       `json:"confidence"`
	Category   LabelCategory `json:"category"`
	Nutrient   *NutrientType `json:"nutrient,omitempty"`
	Severity   Severity      `json:"severity"`
}

// HasNutrient сообщает, сопоставлена ли метка элементу питания.
func (r ClassificationResult) HasNutrient() bool {
	return r.Nutrient != nil
}
