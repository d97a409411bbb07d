//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"coffee-diagnosis/internal/domain/entity"
	"coffee-diagnosis/internal/domain/port"
)

// DNNClassifier классифицирует фото листьев предобученной моделью через gocv/dnn.
type DNNClassifier struct {
	MinImageSide          int
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64

	opts    DNNOptions
	labels  []string
	net     gocv.Net
	loadErr error
	mu      sync.Mutex // gocv.Net нельзя использовать из нескольких горутин
}

// NewDNNClassifier загружает модель и метки. Ошибка загрузки не фатальна:
// она сохраняется и возвращается из каждого Classify как entity.ErrModelUnavailable.
func NewDNNClassifier(opts DNNOptions) *DNNClassifier {
	c := &DNNClassifier{
		MinImageSide:          224,
		MinSharpnessEdgeRatio: 0.008,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.45,
		opts:                  opts,
	}

	labels, err := LoadLabels(opts.LabelsPath)
	if err != nil {
		c.loadErr = fmt.Errorf("%w: %v", entity.ErrModelUnavailable, err)
		return c
	}
	c.labels = labels

	c.net = gocv.ReadNet(opts.ModelPath, opts.ConfigPath)
	if c.net.Empty() {
		c.loadErr = fmt.Errorf("%w: failed to read model %s", entity.ErrModelUnavailable, opts.ModelPath)
		return c
	}
	if err := c.net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		c.loadErr = fmt.Errorf("%w: set backend: %v", entity.ErrModelUnavailable, err)
		return c
	}
	if err := c.net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		c.loadErr = fmt.Errorf("%w: set target: %v", entity.ErrModelUnavailable, err)
		return c
	}
	return c
}

// Err возвращает ошибку загрузки модели, если она была.
func (c *DNNClassifier) Err() error {
	return c.loadErr
}

// Close освобождает ресурсы модели.
func (c *DNNClassifier) Close() error {
	// Модель читается только после меток, без меток сети нет.
	if c.labels == nil {
		return nil
	}
	return c.net.Close()
}

// Classify запускает инференс. Начатый инференс не прерывается по ctx.
func (c *DNNClassifier) Classify(ctx context.Context, imageData []byte) ([]entity.RawLabel, error) {
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInferenceFailed, err)
	}
	defer mat.Close()

	if err := c.checkImageQuality(mat); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInferenceFailed, err)
	}

	size := image.Pt(c.opts.InputSize, c.opts.InputSize)
	blob := gocv.BlobFromImage(mat, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	c.mu.Lock()
	c.net.SetInput(blob, "")
	prob := c.net.Forward("")
	c.mu.Unlock()
	defer prob.Close()

	if prob.Empty() {
		return nil, fmt.Errorf("%w: model returned empty output", entity.ErrInferenceFailed)
	}
	scores, err := prob.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("%w: read output: %v", entity.ErrInferenceFailed, err)
	}

	return scoresToLabels(c.labels, scores, c.opts.Softmax)
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), fmt.Errorf("failed to decode image")
}

// checkImageQuality отсекает снимки, по которым модель заведомо ошибётся.
func (c *DNNClassifier) checkImageQuality(mat gocv.Mat) error {
	if mat.Cols() < c.MinImageSide || mat.Rows() < c.MinImageSide {
		return fmt.Errorf("image is too small (%dx%d)", mat.Cols(), mat.Rows())
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)
	if ratio := ratioOfMask(edges); ratio < c.MinSharpnessEdgeRatio {
		return fmt.Errorf("image is blurry (edge_ratio=%.4f)", ratio)
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)
	if ratio := ratioOfMask(bright); ratio > c.MaxOverexposedRatio {
		return fmt.Errorf("overexposed image (ratio=%.4f)", ratio)
	}

	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)
	if ratio := ratioOfMask(dark); ratio > c.MaxUnderexposedRatio {
		return fmt.Errorf("underexposed image (ratio=%.4f)", ratio)
	}

	return nil
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}

var _ port.Classifier = (*DNNClassifier)(nil)
