package entity

import "time"

// PlantHealth общая оценка состояния растения
type PlantHealth string

const (
	HealthExcellent PlantHealth = "excellent"
	HealthGood      PlantHealth = "good"
	HealthFair      PlantHealth = "fair"
	HealthPoor      PlantHealth = "poor"
	HealthCritical  PlantHealth = "critical"
	HealthUnknown   PlantHealth = "unknown"
)

var healthRank = map[PlantHealth]int{
	HealthExcellent: 0,
	HealthGood:      1,
	HealthFair:      2,
	HealthPoor:      3,
	HealthCritical:  4,
	HealthUnknown:   5,
}

// Rank возвращает порядковый номер оценки (0 это лучшая).
func (h PlantHealth) Rank() int {
	if r, ok := healthRank[h]; ok {
		return r
	}
	return healthRank[HealthUnknown]
}

var healthNames = map[PlantHealth]string{
	HealthExcellent: "Excelente",
	HealthGood:      "Buena",
	HealthFair:      "Regular",
	HealthPoor:      "Deficiente",
	HealthCritical:  "Crítica",
	HealthUnknown:   "Desconocida",
}

// DisplayName возвращает название оценки для отчётов.
func (h PlantHealth) DisplayName() string {
	if name, ok := healthNames[h]; ok {
		return name
	}
	return healthNames[HealthUnknown]
}

// NutritionalDeficiency найденный дефицит элемента питания
type NutritionalDeficiency struct {
	ID              string       `json:"id"`
	Nutrient        NutrientType `json:"nutrient"`
	Severity        Severity     `json:"severity"`
	PlantsAffected  int          `json:"plantsAffected"`
	Percentage      float64      `json:"percentage"`
	Recommendations string       `json:"recommendations"`
}

// Diagnosis итоговая запись диагностики по фотографии.
type Diagnosis struct {
	ID             string                  `json:"id"`
	ParcelName     string                  `json:"parcelName"`
	PlantNumber    string                  `json:"plantNumber"`
	TechnicianName string                  `json:"technicianName"`
	DiagnosisText  string                  `json:"diagnosisText"`
	Date           time.Time               `json:"date"`
	Image          []byte                  `json:"image,omitempty"`
	Deficiencies   []NutritionalDeficiency `json:"deficiencies"`
	OverallHealth  PlantHealth             `json:"overallHealth"`
	Notes          *string                 `json:"notes,omitempty"`
	Findings       []ClassificationResult  `json:"findings,omitempty"`
}
