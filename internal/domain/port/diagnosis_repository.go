package port

import (
	"context"

	"coffee-diagnosis/internal/domain/entity"
)

// DiagnosisRepository интерфейс хранилища диагнозов
type DiagnosisRepository interface {
	// Add добавляет диагноз в начало списка
	Add(ctx context.Context, diagnosis *entity.Diagnosis) error

	// Delete удаляет диагноз по ID, отсутствие записи не считается ошибкой
	Delete(ctx context.Context, id string) error

	// All возвращает снимок списка, новые первыми
	All(ctx context.Context) ([]entity.Diagnosis, error)

	// Get возвращает диагноз по ID
	Get(ctx context.Context, id string) (*entity.Diagnosis, error)
}
