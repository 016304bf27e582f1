package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxResponseBytes = 1 << 20

// HTTPPredictor posts the payload as JSON to a remote model service.
type HTTPPredictor struct {
	url    string
	client *http.Client
}

func NewHTTPPredictor(url string, client *http.Client) *HTTPPredictor {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPredictor{url: url, client: client}
}

func (predictor *HTTPPredictor) Predict(ctx context.Context, payload Payload) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("encode payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, predictor.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build predictor request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := predictor.client.Do(request)
	if err != nil {
		return Result{}, fmt.Errorf("call predictor: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("read predictor response: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("predictor returned HTTP %d: %s", response.StatusCode, truncate(raw, 200))
	}

	return decodeResult(raw)
}

func truncate(raw []byte, limit int) string {
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
