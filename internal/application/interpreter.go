package app

import (
	"math"
	"sort"

	"coffee-diagnosis/internal/domain/entity"
)

// Interpreter превращает сырые метки классификатора в упорядоченные результаты.
type Interpreter struct {
	thresholds Thresholds
}

// NewInterpreter создаёт интерпретатор с заданными порогами.
func NewInterpreter(thresholds Thresholds) *Interpreter {
	return &Interpreter{thresholds: thresholds}
}

// Interpret отбрасывает шум, сопоставляет метки элементам питания,
// назначает тяжесть и сортирует по убыванию уверенности.
func (i *Interpreter) Interpret(raw []entity.RawLabel) []entity.ClassificationResult {
	results := make([]entity.ClassificationResult, 0, len(raw))
	for _, label := range raw {
		confidence := clampConfidence(label.Confidence)
		if confidence <= i.thresholds.NoiseFloor {
			continue
		}

		info, _ := lookupLabel(label.Label)
		results = append(results, entity.ClassificationResult{
			Identifier: label.Label,
			Confidence: confidence,
			Category:   info.category,
			Nutrient:   info.nutrient,
			Severity:   i.severity(info.category, confidence),
		})
	}

	// Стабильная сортировка сохраняет исходный порядок при равной уверенности.
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Confidence > results[b].Confidence
	})
	return results
}

func (i *Interpreter) severity(category entity.LabelCategory, confidence float64) entity.Severity {
	if category == entity.CategoryHealthy || category.IsThreat() {
		return entity.SeverityLow
	}
	switch {
	case confidence >= i.thresholds.SevereAt:
		return entity.SeveritySevere
	case confidence >= i.thresholds.ModerateAt:
		return entity.SeverityModerate
	default:
		return entity.SeverityLow
	}
}

func clampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}
