package app

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"coffee-diagnosis/internal/domain/entity"
)

const reportTemplate = `REPORTE DE DIAGNÓSTICO
======================
ID: {{.ID}}
Fecha: {{date .Date}}
Parcela: {{.ParcelName}}
Planta N°: {{.PlantNumber}}
Técnico: {{.TechnicianName}}
Estado general: {{.OverallHealth.DisplayName}}

DIAGNÓSTICO
{{.DiagnosisText}}

DEFICIENCIAS NUTRICIONALES
{{- range $i, $d := .Deficiencies}}
{{inc $i}}. {{$d.Nutrient.DisplayName}} (severidad {{$d.Severity.DisplayName}})
   Plantas afectadas: {{$d.PlantsAffected}} ({{percent $d.Percentage}})
   Recomendación: {{$d.Recommendations}}
{{- else}}
Ninguna detectada.
{{- end}}

NOTAS
{{if .Notes}}{{deref .Notes}}{{else}}Sin notas.{{end}}

Imagen adjunta: {{if .Image}}sí{{else}}no{{end}}
`

var report = template.Must(template.New("report").Funcs(template.FuncMap{
	"date":    func(t time.Time) string { return t.Format("02/01/2006 15:04 MST") },
	"inc":     func(i int) int { return i + 1 },
	"percent": func(p float64) string { return fmt.Sprintf("%.1f%%", p) },
	"deref":   func(s *string) string { return *s },
}).Parse(reportTemplate))

// RenderReport формирует текстовый отчёт для отправки пользователю.
// Формат не предназначен для обратного разбора.
func RenderReport(d *entity.Diagnosis) (string, error) {
	var b strings.Builder
	if err := report.Execute(&b, d); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}
