package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffee-diagnosis/config"
	app "coffee-diagnosis/internal/application"
	"coffee-diagnosis/internal/domain/entity"
	"coffee-diagnosis/internal/infrastructure/storage"
	"coffee-diagnosis/internal/infrastructure/vision"
)

func defaultThresholdsConfig() config.ThresholdsConfig {
	return config.ThresholdsConfig{
		NoiseFloor:               0.10,
		Severe:                   0.80,
		Moderate:                 0.50,
		SecondaryNarrative:       0.15,
		SecondaryDeficiency:      0.20,
		MaxSecondaryFindings:     2,
		MaxSecondaryDeficiencies: 2,
	}
}

func TestThresholds_DefaultsMatch(t *testing.T) {
	assert.Equal(t, app.DefaultThresholds(), Thresholds(defaultThresholdsConfig()))
}

func TestThresholds_Overrides(t *testing.T) {
	cfg := defaultThresholdsConfig()
	cfg.NoiseFloor = 0.3
	cfg.Severe = 0.9

	th := Thresholds(cfg)
	assert.Equal(t, 0.3, th.NoiseFloor)
	assert.Equal(t, 0.9, th.SevereAt)
	assert.Equal(t, app.DefaultThresholds().ThreatPoorAt, th.ThreatPoorAt)
}

func TestNew_WiresServices(t *testing.T) {
	ctx := context.Background()
	repo, err := storage.NewDiagnosisRepository(ctx, storage.NewMemoryBlobStore())
	require.NoError(t, err)

	cfg := defaultThresholdsConfig()
	cfg.NoiseFloor = 0.5
	c := New(cfg, storage.NewMemoryUserRepository(),
		vision.NewStaticClassifier(entity.RawLabel{Label: "roya", Confidence: 0.4}), repo)

	_, err = c.DiagnosisService.Analyze(ctx, &entity.PhotoAnalysisRequest{
		Image:          []byte{1},
		ParcelName:     "P",
		PlantNumber:    "1",
		TechnicianName: "Ana",
		TotalPlants:    10,
	})
	require.ErrorIs(t, err, entity.ErrEmptyClassification, "configured noise floor drops the only label")

	user, err := c.UserService.BeginDiagnosis(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, entity.StateAwaitingParcel, user.State)
}
