package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffee-diagnosis/internal/domain/entity"
	"coffee-diagnosis/internal/domain/port"
	"coffee-diagnosis/internal/infrastructure/storage"
	"coffee-diagnosis/internal/infrastructure/vision"
)

// blockingClassifier держит инференс до закрытия release и не реагирует на ctx.
type blockingClassifier struct {
	started chan struct{}
	release chan struct{}
	labels  []entity.RawLabel
}

func (c *blockingClassifier) Classify(ctx context.Context, image []byte) ([]entity.RawLabel, error) {
	close(c.started)
	<-c.release
	return c.labels, nil
}

// cancellingClassifier отменяет запрос в момент завершения инференса.
type cancellingClassifier struct {
	cancel context.CancelFunc
}

func (c *cancellingClassifier) Classify(ctx context.Context, image []byte) ([]entity.RawLabel, error) {
	c.cancel()
	return []entity.RawLabel{{Label: "roya", Confidence: 0.9}}, nil
}

func newTestService(t *testing.T, classifier port.Classifier) (*DiagnosisService, *storage.DiagnosisRepository) {
	t.Helper()
	repo, err := storage.NewDiagnosisRepository(context.Background(), storage.NewMemoryBlobStore())
	require.NoError(t, err)
	th := DefaultThresholds()
	return NewDiagnosisService(classifier, NewInterpreter(th), testSynthesizer(), repo), repo
}

func TestDiagnosisService_AnalyzeStoresDiagnosis(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, vision.NewStaticClassifier(
		entity.RawLabel{Label: "nitrogeno", Confidence: 0.85},
		entity.RawLabel{Label: "saludable", Confidence: 0.05},
	))

	d, err := svc.Analyze(ctx, request(50))
	require.NoError(t, err)
	require.Len(t, d.Deficiencies, 1)
	assert.Equal(t, 43, d.Deficiencies[0].PlantsAffected)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, d.ID, all[0].ID)
}

func TestDiagnosisService_NewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, vision.NewStaticClassifier(entity.RawLabel{Label: "saludable", Confidence: 0.9}))

	first, err := svc.Analyze(ctx, request(10))
	require.NoError(t, err)
	second, err := svc.Analyze(ctx, request(10))
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestDiagnosisService_InvalidRequest(t *testing.T) {
	classifier := &blockingClassifier{started: make(chan struct{}), release: make(chan struct{})}
	svc, repo := newTestService(t, classifier)
	ctx := context.Background()

	req := request(0)
	_, err := svc.Analyze(ctx, req)
	require.ErrorIs(t, err, entity.ErrInvalidRequest)

	req = request(10)
	req.Image = nil
	_, err = svc.Analyze(ctx, req)
	require.ErrorIs(t, err, entity.ErrInvalidRequest)

	_, err = svc.Analyze(ctx, nil)
	require.ErrorIs(t, err, entity.ErrInvalidRequest)

	select {
	case <-classifier.started:
		t.Fatal("classifier must not be invoked for invalid requests")
	default:
	}
	all, _ := repo.All(ctx)
	assert.Empty(t, all)
}

func TestDiagnosisService_ModelUnavailable(t *testing.T) {
	ctx := context.Background()

	svc, _ := newTestService(t, nil)
	_, err := svc.Analyze(ctx, request(10))
	require.ErrorIs(t, err, entity.ErrModelUnavailable)

	svc, repo := newTestService(t, vision.NewDNNClassifier(vision.DNNOptions{LabelsPath: "testdata/missing.txt"}))
	_, err = svc.Analyze(ctx, request(10))
	require.ErrorIs(t, err, entity.ErrModelUnavailable)

	all, _ := repo.All(ctx)
	assert.Empty(t, all)
}

func TestDiagnosisService_InferenceFailed(t *testing.T) {
	ctx := context.Background()

	failing := &vision.StaticClassifier{Err: errors.New("tensor shape mismatch")}
	svc, _ := newTestService(t, failing)
	_, err := svc.Analyze(ctx, request(10))
	require.ErrorIs(t, err, entity.ErrInferenceFailed)
	assert.Contains(t, err.Error(), "tensor shape mismatch")

	failing.Err = entity.ErrModelUnavailable
	_, err = svc.Analyze(ctx, request(10))
	require.ErrorIs(t, err, entity.ErrModelUnavailable)
	assert.NotErrorIs(t, err, entity.ErrInferenceFailed)
}

func TestDiagnosisService_EmptyClassification(t *testing.T) {
	ctx := context.Background()

	svc, repo := newTestService(t, vision.NewStaticClassifier())
	_, err := svc.Analyze(ctx, request(10))
	require.ErrorIs(t, err, entity.ErrEmptyClassification)

	svc, _ = newTestService(t, vision.NewStaticClassifier(
		entity.RawLabel{Label: "roya", Confidence: 0.05},
		entity.RawLabel{Label: "zinc", Confidence: 0.10},
	))
	_, err = svc.Analyze(ctx, request(10))
	require.ErrorIs(t, err, entity.ErrEmptyClassification)

	all, _ := repo.All(ctx)
	assert.Empty(t, all)
}

func TestDiagnosisService_CancelDiscardsResult(t *testing.T) {
	classifier := &blockingClassifier{
		started: make(chan struct{}),
		release: make(chan struct{}),
		labels:  []entity.RawLabel{{Label: "broca", Confidence: 0.75}},
	}
	svc, repo := newTestService(t, classifier)

	ctx, cancel := context.WithCancel(context.Background())
	out := svc.AnalyzeAsync(ctx, request(20))

	<-classifier.started
	cancel()

	select {
	case res := <-out:
		require.ErrorIs(t, res.Err, context.Canceled)
		assert.Nil(t, res.Diagnosis)
	case <-time.After(time.Second):
		t.Fatal("analysis did not return after cancellation")
	}

	close(classifier.release)
	time.Sleep(20 * time.Millisecond)

	all, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDiagnosisService_CancelAfterInference(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc, repo := newTestService(t, &cancellingClassifier{cancel: cancel})

	_, err := svc.Analyze(ctx, request(20))
	require.ErrorIs(t, err, context.Canceled)

	all, _ := repo.All(context.Background())
	assert.Empty(t, all)
}

func TestDiagnosisService_DeleteGetExport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, vision.NewStaticClassifier(entity.RawLabel{Label: "potasio", Confidence: 0.6}))

	d, err := svc.Analyze(ctx, request(40))
	require.NoError(t, err)

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ParcelName, got.ParcelName)

	text, err := svc.Export(ctx, d.ID)
	require.NoError(t, err)
	assert.Contains(t, text, d.ID)
	assert.Contains(t, text, "Potasio")

	require.NoError(t, svc.Delete(ctx, d.ID))
	require.NoError(t, svc.Delete(ctx, d.ID), "deleting a missing diagnosis is a no-op")

	_, err = svc.Get(ctx, d.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = svc.Export(ctx, d.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
