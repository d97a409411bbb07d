package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validRequest() *PhotoAnalysisRequest {
	return &PhotoAnalysisRequest{
		Image:          []byte("jpeg"),
		ParcelName:     "La Esperanza",
		PlantNumber:    "12",
		TechnicianName: "Ana",
		TotalPlants:    50,
	}
}

func TestPhotoAnalysisRequest_Validate(t *testing.T) {
	require.NoError(t, validRequest().Validate())

	cases := map[string]func(r *PhotoAnalysisRequest){
		"no image":        func(r *PhotoAnalysisRequest) { r.Image = nil },
		"no parcel":       func(r *PhotoAnalysisRequest) { r.ParcelName = "  " },
		"no plant":        func(r *PhotoAnalysisRequest) { r.PlantNumber = "" },
		"no technician":   func(r *PhotoAnalysisRequest) { r.TechnicianName = "" },
		"zero plants":     func(r *PhotoAnalysisRequest) { r.TotalPlants = 0 },
		"negative plants": func(r *PhotoAnalysisRequest) { r.TotalPlants = -3 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := validRequest()
			mutate(r)
			require.ErrorIs(t, r.Validate(), ErrInvalidRequest)
		})
	}
}

func TestPlantHealth_Rank(t *testing.T) {
	require.Less(t, HealthExcellent.Rank(), HealthGood.Rank())
	require.Less(t, HealthFair.Rank(), HealthPoor.Rank())
	require.Less(t, HealthCritical.Rank(), HealthUnknown.Rank())
	require.Equal(t, HealthUnknown.Rank(), PlantHealth("bogus").Rank())
}

func TestNutrientType_DisplayName(t *testing.T) {
	require.Equal(t, "Nitrógeno", NutrientNitrogen.DisplayName())
	require.True(t, NutrientZinc.Valid())
	require.False(t, NutrientType("unobtainium").Valid())
	require.Equal(t, "unobtainium", NutrientType("unobtainium").DisplayName())
}
