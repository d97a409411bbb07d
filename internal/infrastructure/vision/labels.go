package vision

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strings"

	"coffee-diagnosis/internal/domain/entity"
)

// DNNOptions параметры локальной модели.
type DNNOptions struct {
	ModelPath  string // ONNX, Caffe или TensorFlow, формат определяет gocv.ReadNet
	ConfigPath string
	LabelsPath string // одна метка на строку в порядке выходов модели
	InputSize  int
	Softmax    bool // применить softmax к выходу, если модель отдаёт логиты
}

// LoadLabels читает файл меток, пустые строки и строки с # пропускаются.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}
	return labels, nil
}

// scoresToLabels сопоставляет выход модели меткам.
func scoresToLabels(labels []string, scores []float32, applySoftmax bool) ([]entity.RawLabel, error) {
	if len(scores) != len(labels) {
		return nil, fmt.Errorf("%w: model returned %d scores for %d labels", entity.ErrInferenceFailed, len(scores), len(labels))
	}

	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = float64(s)
	}
	if applySoftmax {
		probs = softmax(probs)
	}

	out := make([]entity.RawLabel, len(labels))
	for i, label := range labels {
		out[i] = entity.RawLabel{Label: label, Confidence: probs[i]}
	}
	return out, nil
}

func softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return logits
	}
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		maxLogit = math.Max(maxLogit, v)
	}

	out := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		out[i] = math.Exp(v - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
