package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wicketline/score-predictor/internal/models"
)

const defaultRemoteTimeout = 5 * time.Second

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type remoteRequest struct {
	Columns []string            `json:"columns"`
	Rows    []models.FeatureRow `json:"rows"`
}

type remoteResponse struct {
	Model       string    `json:"model"`
	Predictions []float64 `json:"predictions"`
}

// RemoteModel calls a model server that hosts the trained pipeline
type RemoteModel struct {
	url        string
	httpClient httpDoer
}

// NewRemoteModel posts feature rows to url/predict
func NewRemoteModel(url string, timeout time.Duration) *RemoteModel {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteModel{
		url:        strings.TrimSuffix(url, "/") + "/predict",
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (m *RemoteModel) Name() string { return "remote" }

func (m *RemoteModel) Predict(ctx context.Context, row models.FeatureRow) (float64, error) {
	body, err := json.Marshal(remoteRequest{Columns: models.FeatureColumns, Rows: []models.FeatureRow{row}})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("model server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("model server: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var payload remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("model server: decode response: %w", err)
	}
	if len(payload.Predictions) == 0 {
		return 0, errors.New("model server: empty predictions")
	}

	return payload.Predictions[0], nil
}
