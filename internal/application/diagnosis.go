package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"coffee-diagnosis/internal/domain/entity"
	"coffee-diagnosis/internal/domain/port"
)

// DiagnosisService связывает классификатор, интерпретатор, синтезатор и хранилище.
// Предполагается не более одного анализа одновременно на сессию пользователя,
// ограничение обеспечивает вызывающая сторона.
type DiagnosisService struct {
	classifier  port.Classifier
	interpreter *Interpreter
	synthesizer *Synthesizer
	repo        port.DiagnosisRepository
}

// AnalysisOutcome результат асинхронного анализа.
type AnalysisOutcome struct {
	Diagnosis *entity.Diagnosis
	Err       error
}

type classifyOutcome struct {
	labels []entity.RawLabel
	err    error
}

// NewDiagnosisService создаёт сервис диагностики.
func NewDiagnosisService(classifier port.Classifier, interpreter *Interpreter, synthesizer *Synthesizer, repo port.DiagnosisRepository) *DiagnosisService {
	return &DiagnosisService{
		classifier:  classifier,
		interpreter: interpreter,
		synthesizer: synthesizer,
		repo:        repo,
	}
}

// Analyze классифицирует фото, строит диагноз и сохраняет его.
func (s *DiagnosisService) Analyze(ctx context.Context, req *entity.PhotoAnalysisRequest) (*entity.Diagnosis, error) {
	out := <-s.AnalyzeAsync(ctx, req)
	return out.Diagnosis, out.Err
}

// AnalyzeAsync запускает анализ в отдельной горутине. Канал получает ровно одно значение.
// При отмене ctx результат инференса отбрасывается, сам инференс не прерывается.
func (s *DiagnosisService) AnalyzeAsync(ctx context.Context, req *entity.PhotoAnalysisRequest) <-chan AnalysisOutcome {
	out := make(chan AnalysisOutcome, 1)

	if req == nil {
		out <- AnalysisOutcome{Err: fmt.Errorf("%w: request is nil", entity.ErrInvalidRequest)}
		return out
	}
	if err := req.Validate(); err != nil {
		out <- AnalysisOutcome{Err: err}
		return out
	}
	if s.classifier == nil {
		out <- AnalysisOutcome{Err: fmt.Errorf("%w: classifier is not configured", entity.ErrModelUnavailable)}
		return out
	}

	go func() {
		diagnosis, err := s.analyze(ctx, req)
		out <- AnalysisOutcome{Diagnosis: diagnosis, Err: err}
	}()
	return out
}

func (s *DiagnosisService) analyze(ctx context.Context, req *entity.PhotoAnalysisRequest) (*entity.Diagnosis, error) {
	labels, err := s.classify(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	results := s.interpreter.Interpret(labels)
	if len(results) == 0 {
		slog.Info("classification empty after filtering", "raw_labels", len(labels), "parcel", req.ParcelName)
		return nil, entity.ErrEmptyClassification
	}

	diagnosis, err := s.synthesizer.Synthesize(results, req)
	if err != nil {
		return nil, err
	}

	// Отменённый запрос не должен оставлять запись в хранилище.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, diagnosis); err != nil {
		return nil, fmt.Errorf("store diagnosis: %w", err)
	}

	slog.Info("diagnosis created",
		"id", diagnosis.ID,
		"parcel", diagnosis.ParcelName,
		"plant", diagnosis.PlantNumber,
		"top_label", results[0].Identifier,
		"confidence", results[0].Confidence,
		"health", diagnosis.OverallHealth,
		"deficiencies", len(diagnosis.Deficiencies),
	)
	return diagnosis, nil
}

// classify вызывает классификатор вне горутины вызывающего и ждёт результат либо отмену.
func (s *DiagnosisService) classify(ctx context.Context, image []byte) ([]entity.RawLabel, error) {
	done := make(chan classifyOutcome, 1)
	go func() {
		labels, err := s.classifier.Classify(ctx, image)
		done <- classifyOutcome{labels: labels, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err == nil {
			return res.labels, nil
		}
		if errors.Is(res.err, entity.ErrModelUnavailable) || errors.Is(res.err, entity.ErrInferenceFailed) {
			return nil, res.err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrInferenceFailed, res.err)
	}
}

// Delete удаляет диагноз, отсутствие записи не является ошибкой.
func (s *DiagnosisService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete diagnosis: %w", err)
	}
	return nil
}

// List возвращает все диагнозы, новые первыми.
func (s *DiagnosisService) List(ctx context.Context) ([]entity.Diagnosis, error) {
	return s.repo.All(ctx)
}

// Get возвращает диагноз по ID.
func (s *DiagnosisService) Get(ctx context.Context, id string) (*entity.Diagnosis, error) {
	return s.repo.Get(ctx, id)
}

// Export возвращает текстовый отчёт по диагнозу.
func (s *DiagnosisService) Export(ctx context.Context, id string) (string, error) {
	diagnosis, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return RenderReport(diagnosis)
}
