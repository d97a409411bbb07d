package vision

import (
	"context"

	"coffee-diagnosis/internal/domain/entity"
	"coffee-diagnosis/internal/domain/port"
)

// StaticClassifier всегда возвращает заданные метки, для тестов и демо.
type StaticClassifier struct {
	Labels []entity.RawLabel
	Err    error
}

// NewStaticClassifier создаёт классификатор с фиксированным ответом.
func NewStaticClassifier(labels ...entity.RawLabel) *StaticClassifier {
	return &StaticClassifier{Labels: labels}
}

func (c *StaticClassifier) Classify(ctx context.Context, image []byte) ([]entity.RawLabel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]entity.RawLabel(nil), c.Labels...), nil
}

var _ port.Classifier = (*StaticClassifier)(nil)
