package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"coffee-diagnosis/internal/domain/entity"
	"coffee-diagnosis/internal/domain/port"
)

// RemoteClassifier обращается к сервису инференса по HTTP.
type RemoteClassifier struct {
	baseURL string
	client  *http.Client
}

type classifyResponse struct {
	Predictions []entity.RawLabel `json:"predictions"`
}

// NewRemoteClassifier создаёт клиент сервиса инференса.
func NewRemoteClassifier(baseURL string, timeout time.Duration) *RemoteClassifier {
	return &RemoteClassifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Classify отправляет изображение как есть в теле POST /v1/classify.
func (c *RemoteClassifier) Classify(ctx context.Context, image []byte) ([]entity.RawLabel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/classify", bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", http.DetectContentType(image))
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyError(ctx, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: inference service status %d", entity.ErrModelUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: inference service status %d", entity.ErrInferenceFailed, resp.StatusCode)
	}

	var body classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", entity.ErrInferenceFailed, err)
	}
	return body.Predictions, nil
}

// Ready проверяет доступность сервиса инференса.
func (c *RemoteClassifier) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ready", nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return classifyError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: inference service status %d", entity.ErrModelUnavailable, resp.StatusCode)
	}
	return nil
}

// classifyError сводит транспортные ошибки к доменным.
func classifyError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", entity.ErrInferenceFailed, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", entity.ErrModelUnavailable, err)
	}
	return fmt.Errorf("%w: %v", entity.ErrInferenceFailed, err)
}

var _ port.Classifier = (*RemoteClassifier)(nil)
