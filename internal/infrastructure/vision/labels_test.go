package vision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffee-diagnosis/internal/domain/entity"
)

func TestLoadLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("# coffee v3\nsaludable\n\nnitrogeno\n  broca  \n"), 0o644))

	labels, err := LoadLabels(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"saludable", "nitrogeno", "broca"}, labels)
}

func TestLoadLabels_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing\n\n"), 0o644))

	_, err := LoadLabels(path)
	require.Error(t, err)
}

func TestLoadLabels_Missing(t *testing.T) {
	_, err := LoadLabels(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}

func TestScoresToLabels(t *testing.T) {
	out, err := scoresToLabels([]string{"saludable", "roya"}, []float32{0.25, 0.75}, false)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "roya", out[1].Label)
	assert.InDelta(t, 0.75, out[1].Confidence, 1e-6)
}

func TestScoresToLabels_Mismatch(t *testing.T) {
	_, err := scoresToLabels([]string{"saludable"}, []float32{0.5, 0.5}, false)
	require.ErrorIs(t, err, entity.ErrInferenceFailed)
}

func TestSoftmax(t *testing.T) {
	probs := softmax([]float64{1, 2, 3})
	var sum float64
	for _, p := range probs {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, probs[2], probs[1])
	assert.Greater(t, probs[1], probs[0])

	// Большие логиты не должны давать переполнение.
	probs = softmax([]float64{1000, 1000})
	assert.InDelta(t, 0.5, probs[0], 1e-9)
}
