package container

import (
	"coffee-diagnosis/config"
	app "coffee-diagnosis/internal/application"
	"coffee-diagnosis/internal/domain/port"
)

type Container struct {
	UserService      *app.UserService
	DiagnosisService *app.DiagnosisService
}

func New(cfg config.ThresholdsConfig, userRepo port.UserRepository, classifier port.Classifier, diagnoses port.DiagnosisRepository) *Container {
	thresholds := Thresholds(cfg)

	userService := app.NewUserService(userRepo)
	diagnosisService := app.NewDiagnosisService(
		classifier,
		app.NewInterpreter(thresholds),
		app.NewSynthesizer(thresholds),
		diagnoses,
	)

	return &Container{
		UserService:      userService,
		DiagnosisService: diagnosisService,
	}
}

// Thresholds переносит пороги из конфигурации поверх значений по умолчанию.
func Thresholds(cfg config.ThresholdsConfig) app.Thresholds {
	t := app.DefaultThresholds()
	t.NoiseFloor = cfg.NoiseFloor
	t.SevereAt = cfg.Severe
	t.ModerateAt = cfg.Moderate
	t.SecondaryNarrativeMin = cfg.SecondaryNarrative
	t.SecondaryDeficiencyMin = cfg.SecondaryDeficiency
	t.MaxSecondaryFindings = cfg.MaxSecondaryFindings
	t.MaxSecondaryDeficiencies = cfg.MaxSecondaryDeficiencies
	return t
}
