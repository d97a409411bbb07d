//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"fmt"

	"coffee-diagnosis/internal/domain/entity"
	"coffee-diagnosis/internal/domain/port"
)

// DNNClassifier заглушка для сборки без OpenCV.
type DNNClassifier struct {
	opts    DNNOptions
	loadErr error
}

// NewDNNClassifier создаёт классификатор-заглушку (без OpenCV).
func NewDNNClassifier(opts DNNOptions) *DNNClassifier {
	return &DNNClassifier{
		opts:    opts,
		loadErr: fmt.Errorf("%w: gocv build tag is not enabled", entity.ErrModelUnavailable),
	}
}

// Err возвращает причину недоступности модели.
func (c *DNNClassifier) Err() error {
	return c.loadErr
}

// Close ничего не делает.
func (c *DNNClassifier) Close() error {
	return nil
}

// Classify возвращает ошибку, если сборка без тега gocv.
func (c *DNNClassifier) Classify(ctx context.Context, imageData []byte) ([]entity.RawLabel, error) {
	_ = ctx
	_ = imageData
	return nil, c.loadErr
}

var _ port.Classifier = (*DNNClassifier)(nil)
