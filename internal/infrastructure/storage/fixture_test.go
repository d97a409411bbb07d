package storage_test

import (
	"time"

	"coffee-diagnosis/internal/domain/entity"
)

func diagnosisFixture(id string) entity.Diagnosis {
	return entity.Diagnosis{
		ID:             id,
		ParcelName:     "Buenavista",
		PlantNumber:    "3",
		TechnicianName: "Marta",
		DiagnosisText:  "La planta presenta un aspecto saludable",
		Date:           time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Deficiencies:   []entity.NutritionalDeficiency{},
		OverallHealth:  entity.HealthExcellent,
	}
}
