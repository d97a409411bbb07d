package port

import (
	"context"

	"coffee-diagnosis/internal/domain/entity"
)

// Classifier интерфейс классификатора изображений
type Classifier interface {
	// Classify возвращает пары метка/уверенность без гарантии порядка.
	// Ошибки: entity.ErrModelUnavailable, entity.ErrInferenceFailed.
	Classify(ctx context.Context, image []byte) ([]entity.RawLabel, error)
}
