package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"coffee-diagnosis/internal/domain/entity"
)

const (
	msgAskParcel     = "🌱 Escriba el nombre de la parcela."
	msgAskPlant      = "🔢 Escriba el número o código de la planta."
	msgAskTechnician = "👤 Escriba el nombre del técnico responsable."
	msgAskTotal      = "🌿 ¿Cuántas plantas tiene la muestra evaluada? Escriba un número entero."
	msgAskNotes      = "📝 Escriba observaciones adicionales o envíe /skip para omitirlas."
	msgAskPhoto      = "📸 Envíe una foto de la hoja del cafeto para analizar."
	msgEmptyValue    = "⚠️ El valor no puede estar vacío. Inténtelo de nuevo."
	msgBadTotal      = "⚠️ El número de plantas debe ser un entero positivo, por ejemplo 50."
)

// advanceDialog записывает ответ пользователя в черновик и переводит диалог на следующий шаг.
// Возвращает текст следующего вопроса.
func advanceDialog(user *entity.User, text string) string {
	if user.Draft == nil {
		user.BeginDraft()
		return msgAskParcel
	}

	value := strings.TrimSpace(text)

	switch user.State {
	case entity.StateAwaitingParcel:
		if value == "" {
			return msgEmptyValue
		}
		user.Draft.ParcelName = value
		user.SetState(entity.StateAwaitingPlantNumber)
		return msgAskPlant

	case entity.StateAwaitingPlantNumber:
		if value == "" {
			return msgEmptyValue
		}
		user.Draft.PlantNumber = value
		user.SetState(entity.StateAwaitingTechnician)
		return msgAskTechnician

	case entity.StateAwaitingTechnician:
		if value == "" {
			return msgEmptyValue
		}
		user.Draft.TechnicianName = value
		user.SetState(entity.StateAwaitingTotalPlants)
		return msgAskTotal

	case entity.StateAwaitingTotalPlants:
		total, err := strconv.Atoi(value)
		if err != nil || total <= 0 {
			return msgBadTotal
		}
		user.Draft.TotalPlants = total
		user.SetState(entity.StateAwaitingNotes)
		return msgAskNotes

	case entity.StateAwaitingNotes:
		if value != "" {
			user.Draft.Notes = &value
		}
		user.SetState(entity.StateAwaitingPhoto)
		return msgAskPhoto

	case entity.StateAwaitingPhoto:
		return msgAskPhoto
	}

	return msgUnknownCommand
}

// skipNotes пропускает шаг с заметками.
func skipNotes(user *entity.User) (string, bool) {
	if user.State != entity.StateAwaitingNotes || user.Draft == nil {
		return "", false
	}
	user.Draft.Notes = nil
	user.SetState(entity.StateAwaitingPhoto)
	return msgAskPhoto, true
}

// inDialog сообщает, собирает ли пользователь данные для анализа.
func inDialog(user *entity.User) bool {
	switch user.State {
	case entity.StateAwaitingParcel,
		entity.StateAwaitingPlantNumber,
		entity.StateAwaitingTechnician,
		entity.StateAwaitingTotalPlants,
		entity.StateAwaitingNotes:
		return true
	}
	return false
}

// formatDiagnosis краткая сводка диагноза для ответа в чат.
func formatDiagnosis(d *entity.Diagnosis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s Estado general: %s\n\n", healthIcon(d.OverallHealth), d.OverallHealth.DisplayName())
	fmt.Fprintf(&b, "🏷 Parcela: %s · Planta: %s\n", d.ParcelName, d.PlantNumber)
	fmt.Fprintf(&b, "👤 Técnico: %s\n\n", d.TechnicianName)
	b.WriteString(d.DiagnosisText)

	if len(d.Deficiencies) > 0 {
		b.WriteString("\n\n🧪 Deficiencias:")
		for _, def := range d.Deficiencies {
			fmt.Fprintf(&b, "\n• %s (%s): %d plantas, %.0f%%\n  %s",
				def.Nutrient.DisplayName(), def.Severity.DisplayName(),
				def.PlantsAffected, def.Percentage, def.Recommendations)
		}
	}

	fmt.Fprintf(&b, "\n\n🆔 %s\nReporte completo: /export %s", d.ID, d.ID)
	return b.String()
}

// formatList список диагнозов, не больше limit строк.
func formatList(items []entity.Diagnosis, limit int) string {
	if len(items) == 0 {
		return msgNoDiagnoses
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Diagnósticos (%d):", len(items))
	for i, d := range items {
		if i == limit {
			fmt.Fprintf(&b, "\n… y %d más", len(items)-limit)
			break
		}
		fmt.Fprintf(&b, "\n%s %s · planta %s · %s\n   %s",
			healthIcon(d.OverallHealth), d.ParcelName, d.PlantNumber,
			d.Date.Format("02/01/2006 15:04"), d.ID)
	}
	return b.String()
}

func healthIcon(h entity.PlantHealth) string {
	switch h {
	case entity.HealthExcellent, entity.HealthGood:
		return "🟢"
	case entity.HealthFair:
		return "🟡"
	case entity.HealthPoor:
		return "🟠"
	case entity.HealthCritical:
		return "🔴"
	default:
		return "⚪"
	}
}
