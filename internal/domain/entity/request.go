package entity

import (
	"fmt"
	"strings"
)

// PhotoAnalysisRequest входные данные для анализа фотографии.
type PhotoAnalysisRequest struct {
	Image          []byte
	ParcelName     string
	PlantNumber    string
	TechnicianName string
	TotalPlants    int
	Notes          *string
}

// Validate проверяет обязательные поля до вызова классификатора.
func (r *PhotoAnalysisRequest) Validate() error {
	switch {
	case len(r.Image) == 0:
		return fmt.Errorf("%w: image is required", ErrInvalidRequest)
	case strings.TrimSpace(r.ParcelName) == "":
		return fmt.Errorf("%w: parcel name is required", ErrInvalidRequest)
	case strings.TrimSpace(r.PlantNumber) == "":
		return fmt.Errorf("%w: plant number is required", ErrInvalidRequest)
	case strings.TrimSpace(r.TechnicianName) == "":
		return fmt.Errorf("%w: technician name is required", ErrInvalidRequest)
	case r.TotalPlants <= 0:
		return fmt.Errorf("%w: total plants must be positive, got %d", ErrInvalidRequest, r.TotalPlants)
	}
	return nil
}
