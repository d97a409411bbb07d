package app

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"coffee-diagnosis/internal/domain/entity"
)

// Synthesizer собирает запись диагноза из результатов классификации и контекста запроса.
type Synthesizer struct {
	thresholds Thresholds
	now        func() time.Time
	newID      func() string
}

// SynthesizerOption настраивает Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) SynthesizerOption {
	return func(s *Synthesizer) {
		s.now = now
	}
}

// WithIDGenerator подменяет генератор идентификаторов.
func WithIDGenerator(newID func() string) SynthesizerOption {
	return func(s *Synthesizer) {
		s.newID = newID
	}
}

// NewSynthesizer создаёт синтезатор диагнозов.
func NewSynthesizer(thresholds Thresholds, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		thresholds: thresholds,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize строит диагноз. results должны быть упорядочены по убыванию уверенности,
// как их возвращает Interpreter.
func (s *Synthesizer) Synthesize(results []entity.ClassificationResult, req *entity.PhotoAnalysisRequest) (*entity.Diagnosis, error) {
	if len(results) == 0 {
		return nil, entity.ErrEmptyClassification
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", entity.ErrInvalidRequest)
	}

	top := results[0]
	plantsAffected := affectedPlants(req.TotalPlants, top.Confidence)

	diagnosis := &entity.Diagnosis{
		ID:             s.newID(),
		ParcelName:     req.ParcelName,
		PlantNumber:    req.PlantNumber,
		TechnicianName: req.TechnicianName,
		DiagnosisText:  s.narrative(results, req.TotalPlants, plantsAffected),
		Date:           s.now().UTC().Truncate(time.Second),
		Image:          req.Image,
		Deficiencies:   s.deficiencies(results, req.TotalPlants),
		OverallHealth:  s.overallHealth(top),
		Notes:          req.Notes,
		Findings:       append([]entity.ClassificationResult(nil), results...),
	}
	return diagnosis, nil
}

func (s *Synthesizer) narrative(results []entity.ClassificationResult, totalPlants, plantsAffected int) string {
	top := results[0]
	name := displayLabel(top.Identifier)
	confidence := top.Confidence * 100

	var b strings.Builder
	switch top.Category {
	case entity.CategoryHealthy:
		fmt.Fprintf(&b, "La planta presenta un aspecto saludable (confianza del %.0f%%). "+
			"Se estima que %d de las %d plantas evaluadas se encuentran sanas, "+
			"sin síntomas visibles de deficiencias nutricionales, plagas ni enfermedades.",
			confidence, plantsAffected, totalPlants)
	case entity.CategoryPest:
		fmt.Fprintf(&b, "Se detectó presencia de %s (confianza del %.0f%%). "+
			"Se estima que %d de las %d plantas evaluadas están afectadas por la plaga. "+
			"Se recomienda implementar medidas de control a la brevedad.",
			name, confidence, plantsAffected, totalPlants)
	case entity.CategoryDisease:
		fmt.Fprintf(&b, "Se detectaron síntomas compatibles con %s (confianza del %.0f%%). "+
			"Se estima que %d de las %d plantas evaluadas presentan la enfermedad. "+
			"Se recomienda aislar los focos y aplicar el manejo indicado.",
			name, confidence, plantsAffected, totalPlants)
	case entity.CategoryNutrient:
		fmt.Fprintf(&b, "Se detectó deficiencia de %s con severidad %s (confianza del %.0f%%). "+
			"Se estima que %d de las %d plantas evaluadas presentan síntomas de esta deficiencia.",
			name, top.Severity.DisplayName(), confidence, plantsAffected, totalPlants)
	default:
		fmt.Fprintf(&b, "El análisis identificó \"%s\" (confianza del %.0f%%), un resultado sin categoría conocida. "+
			"Se estima que %d de las %d plantas evaluadas podrían estar afectadas. "+
			"Consulte a un especialista para confirmar el diagnóstico.",
			top.Identifier, confidence, plantsAffected, totalPlants)
	}

	secondary := make([]string, 0, s.thresholds.MaxSecondaryFindings)
	for _, r := range results[1:] {
		if len(secondary) >= s.thresholds.MaxSecondaryFindings {
			break
		}
		if r.Confidence < s.thresholds.SecondaryNarrativeMin {
			continue
		}
		secondary = append(secondary, fmt.Sprintf("- %s (%.0f%%)", displayLabel(r.Identifier), r.Confidence*100))
	}
	if len(secondary) > 0 {
		b.WriteString("\n\nHallazgos secundarios:\n")
		b.WriteString(strings.Join(secondary, "\n"))
	}
	return b.String()
}

func (s *Synthesizer) deficiencies(results []entity.ClassificationResult, totalPlants int) []entity.NutritionalDeficiency {
	deficiencies := make([]entity.NutritionalDeficiency, 0, 1+s.thresholds.MaxSecondaryDeficiencies)
	seen := make(map[entity.NutrientType]bool)

	top := results[0]
	if top.HasNutrient() {
		deficiencies = append(deficiencies, s.deficiency(top, totalPlants))
		seen[*top.Nutrient] = true
	}

	secondary := 0
	for _, r := range results[1:] {
		if secondary >= s.thresholds.MaxSecondaryDeficiencies {
			break
		}
		if r.Confidence < s.thresholds.SecondaryDeficiencyMin || !r.HasNutrient() || seen[*r.Nutrient] {
			continue
		}
		deficiencies = append(deficiencies, s.deficiency(r, totalPlants))
		seen[*r.Nutrient] = true
		secondary++
	}
	return deficiencies
}

func (s *Synthesizer) deficiency(r entity.ClassificationResult, totalPlants int) entity.NutritionalDeficiency {
	return entity.NutritionalDeficiency{
		ID:              s.newID(),
		Nutrient:        *r.Nutrient,
		Severity:        r.Severity,
		PlantsAffected:  affectedPlants(totalPlants, r.Confidence),
		Percentage:      r.Confidence * 100,
		Recommendations: Recommend(r),
	}
}

func (s *Synthesizer) overallHealth(top entity.ClassificationResult) entity.PlantHealth {
	switch {
	case top.Category == entity.CategoryHealthy:
		if top.Confidence >= s.thresholds.HealthyExcellentAt {
			return entity.HealthExcellent
		}
		return entity.HealthFair
	case top.Category.IsThreat():
		if top.Confidence >= s.thresholds.ThreatPoorAt {
			return entity.HealthPoor
		}
		return entity.HealthFair
	case top.Category == entity.CategoryNutrient:
		if top.Severity == entity.SeveritySevere {
			return entity.HealthPoor
		}
		return entity.HealthFair
	default:
		return entity.HealthUnknown
	}
}

func affectedPlants(totalPlants int, confidence float64) int {
	return int(math.Round(float64(totalPlants) * confidence))
}
