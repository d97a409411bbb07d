package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffee-diagnosis/internal/domain/entity"
)

func TestRenderReport(t *testing.T) {
	notes := "revisar en 15 días"
	d := &entity.Diagnosis{
		ID:             "d-1",
		ParcelName:     "El Mirador",
		PlantNumber:    "7",
		TechnicianName: "Luis",
		DiagnosisText:  "Se detectó deficiencia de Nitrógeno.",
		Date:           time.Date(2026, 3, 4, 9, 5, 0, 0, time.UTC),
		Image:          []byte{0xff, 0xd8},
		Deficiencies: []entity.NutritionalDeficiency{{
			ID:              "n-1",
			Nutrient:        entity.NutrientNitrogen,
			Severity:        entity.SeveritySevere,
			PlantsAffected:  43,
			Percentage:      85,
			Recommendations: "Aplicar urea.",
		}},
		OverallHealth: entity.HealthPoor,
		Notes:         &notes,
	}

	text, err := RenderReport(d)
	require.NoError(t, err)

	for _, want := range []string{
		"REPORTE DE DIAGNÓSTICO",
		"ID: d-1",
		"Fecha: 04/03/2026 09:05 UTC",
		"Parcela: El Mirador",
		"Planta N°: 7",
		"Técnico: Luis",
		"Estado general: " + entity.HealthPoor.DisplayName(),
		"1. Nitrógeno (severidad severa)",
		"Plantas afectadas: 43 (85.0%)",
		"Recomendación: Aplicar urea.",
		"revisar en 15 días",
		"Imagen adjunta: sí",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "Ninguna detectada")
}

func TestRenderReport_Minimal(t *testing.T) {
	d := &entity.Diagnosis{
		ID:            "d-2",
		Date:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		OverallHealth: entity.HealthExcellent,
	}

	text, err := RenderReport(d)
	require.NoError(t, err)
	assert.Contains(t, text, "Ninguna detectada.")
	assert.Contains(t, text, "Sin notas.")
	assert.Contains(t, text, "Imagen adjunta: no")
	assert.False(t, strings.Contains(text, "<no value>"))
}
