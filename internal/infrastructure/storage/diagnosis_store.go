package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"coffee-diagnosis/internal/domain/entity"
)

// DiagnosisStore упорядоченный список диагнозов, новые первыми.
// Не потокобезопасен, синхронизацию обеспечивает DiagnosisRepository.
type DiagnosisStore struct {
	items []entity.Diagnosis
}

// NewDiagnosisStore создаёт пустое хранилище
func NewDiagnosisStore() *DiagnosisStore {
	return &DiagnosisStore{}
}

// Add добавляет диагноз в начало списка
func (s *DiagnosisStore) Add(d entity.Diagnosis) {
	s.items = append([]entity.Diagnosis{d}, s.items...)
}

// Delete удаляет диагноз по ID и сообщает, была ли запись
func (s *DiagnosisStore) Delete(id string) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Get возвращает диагноз по ID
func (s *DiagnosisStore) Get(id string) (entity.Diagnosis, bool) {
	for _, d := range s.items {
		if d.ID == id {
			return d, true
		}
	}
	return entity.Diagnosis{}, false
}

// All возвращает копию списка
func (s *DiagnosisStore) All() []entity.Diagnosis {
	return append([]entity.Diagnosis(nil), s.items...)
}

// Len возвращает количество записей
func (s *DiagnosisStore) Len() int {
	return len(s.items)
}

// Serialize кодирует список в JSON-массив
func (s *DiagnosisStore) Serialize() ([]byte, error) {
	return SerializeDiagnoses(s.items)
}

// Load заменяет содержимое данными, полученными из Serialize
func (s *DiagnosisStore) Load(data []byte) error {
	items, err := DeserializeDiagnoses(data)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

// diagnosisRecord формат хранения: даты в RFC3339, изображение в base64.
type diagnosisRecord struct {
	ID             string                         `json:"id"`
	ParcelName     string                         `json:"parcelName"`
	PlantNumber    string                         `json:"plantNumber"`
	TechnicianName string                         `json:"technicianName"`
	DiagnosisText  string                         `json:"diagnosisText"`
	Date           string                         `json:"date"`
	Image          []byte                         `json:"image,omitempty"`
	Deficiencies   []entity.NutritionalDeficiency `json:"deficiencies"`
	OverallHealth  entity.PlantHealth             `json:"overallHealth"`
	Notes          *string                        `json:"notes,omitempty"`
	Findings       []entity.ClassificationResult  `json:"findings,omitempty"`
}

// SerializeDiagnoses кодирует диагнозы в JSON
func SerializeDiagnoses(items []entity.Diagnosis) ([]byte, error) {
	records := make([]diagnosisRecord, 0, len(items))
	for _, d := range items {
		deficiencies := d.Deficiencies
		if deficiencies == nil {
			deficiencies = []entity.NutritionalDeficiency{}
		}
		records = append(records, diagnosisRecord{
			ID:             d.ID,
			ParcelName:     d.ParcelName,
			PlantNumber:    d.PlantNumber,
			TechnicianName: d.TechnicianName,
			DiagnosisText:  d.DiagnosisText,
			Date:           d.Date.UTC().Format(time.RFC3339),
			Image:          d.Image,
			Deficiencies:   deficiencies,
			OverallHealth:  d.OverallHealth,
			Notes:          d.Notes,
			Findings:       d.Findings,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal diagnoses: %w", err)
	}
	return data, nil
}

// DeserializeDiagnoses разбирает JSON, полученный из SerializeDiagnoses
func DeserializeDiagnoses(data []byte) ([]entity.Diagnosis, error) {
	var records []diagnosisRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal diagnoses: %w", err)
	}

	items := make([]entity.Diagnosis, 0, len(records))
	for _, r := range records {
		date, err := time.Parse(time.RFC3339, r.Date)
		if err != nil {
			return nil, fmt.Errorf("diagnosis %s: parse date: %w", r.ID, err)
		}
		deficiencies := r.Deficiencies
		if deficiencies == nil {
			deficiencies = []entity.NutritionalDeficiency{}
		}
		items = append(items, entity.Diagnosis{
			ID:             r.ID,
			ParcelName:     r.ParcelName,
			PlantNumber:    r.PlantNumber,
			TechnicianName: r.TechnicianName,
			DiagnosisText:  r.DiagnosisText,
			Date:           date.UTC(),
			Image:          r.Image,
			Deficiencies:   deficiencies,
			OverallHealth:  r.OverallHealth,
			Notes:          r.Notes,
			Findings:       r.Findings,
		})
	}
	return items, nil
}
