package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"coffee-diagnosis/internal/domain/entity"
	"coffee-diagnosis/internal/domain/port"
)

// DiagnosesKey ключ, под которым хранится список диагнозов
const DiagnosesKey = "coffee-diagnosis:diagnoses"

// ErrNotFound запись не найдена
var ErrNotFound = errors.New("diagnosis not found")

// DiagnosisRepository хранит диагнозы в памяти и перезаписывает BlobStore после каждого изменения.
type DiagnosisRepository struct {
	mu    sync.RWMutex
	store *DiagnosisStore
	blobs port.BlobStore
	key   string
}

// NewDiagnosisRepository загружает сохранённые диагнозы один раз при старте.
func NewDiagnosisRepository(ctx context.Context, blobs port.BlobStore) (*DiagnosisRepository, error) {
	r := &DiagnosisRepository{
		store: NewDiagnosisStore(),
		blobs: blobs,
		key:   DiagnosesKey,
	}

	data, found, err := blobs.Load(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("load diagnoses: %w", err)
	}
	if found && len(data) > 0 {
		if err := r.store.Load(data); err != nil {
			return nil, err
		}
	}

	slog.Info("diagnoses loaded", "count", r.store.Len())
	return r, nil
}

// Add добавляет диагноз в начало списка и сохраняет список
func (r *DiagnosisRepository) Add(ctx context.Context, diagnosis *entity.Diagnosis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.store.All()
	r.store.Add(*diagnosis)
	if err := r.persist(ctx); err != nil {
		r.store.items = snapshot
		return err
	}
	return nil
}

// Delete удаляет диагноз, отсутствие записи не считается ошибкой
func (r *DiagnosisRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.store.All()
	if !r.store.Delete(id) {
		return nil
	}
	if err := r.persist(ctx); err != nil {
		r.store.items = snapshot
		return err
	}
	return nil
}

// All возвращает снимок списка
func (r *DiagnosisRepository) All(ctx context.Context) ([]entity.Diagnosis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store.All(), nil
}

// Get возвращает диагноз по ID или ErrNotFound
func (r *DiagnosisRepository) Get(ctx context.Context, id string) (*entity.Diagnosis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &d, nil
}

func (r *DiagnosisRepository) persist(ctx context.Context) error {
	data, err := r.store.Serialize()
	if err != nil {
		return err
	}
	if err := r.blobs.Save(ctx, r.key, data); err != nil {
		return fmt.Errorf("save diagnoses: %w", err)
	}
	return nil
}

// Проверка реализации интерфейса
var _ port.DiagnosisRepository = (*DiagnosisRepository)(nil)
