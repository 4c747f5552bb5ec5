package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wicketline/score-predictor/internal/logic"
	"github.com/wicketline/score-predictor/internal/models"
)

func TestGetAuditSummary_TableDriven(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		summaryFunc    func(ctx context.Context, req logic.AuditQueryRequest) ([]models.AuditSummaryRow, error)
		expectedStatus int
	}{
		{
			name:           "Happy Path",
			query:          "?dimension=city&metric=avg_prediction&batting_team=India&from=2026-01-01T00:00:00Z&limit=5",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Bad Time",
			query:          "?from=yesterday",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Bad Limit",
			query:          "?limit=ten",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "Invalid Dimension",
			query: "?dimension=password",
			summaryFunc: func(ctx context.Context, req logic.AuditQueryRequest) ([]models.AuditSummaryRow, error) {
				return nil, fmt.Errorf("%w: dimension", logic.ErrInvalidQuery)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "Database Error",
			query: "",
			summaryFunc: func(ctx context.Context, req logic.AuditQueryRequest) ([]models.AuditSummaryRow, error) {
				return nil, errors.New("db error")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &MockAuditStatsService{SummaryFunc: tt.summaryFunc}
			h := New(Config{Prediction: &MockPredictionService{}, AuditStats: stats})

			req := httptest.NewRequest("GET", "/api/v1/predictions/summary"+tt.query, nil)
			w := httptest.NewRecorder()

			h.GetAuditSummary(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			got := stats.LastRequest
			if got.Dimension != "city" || got.FilterBattingTeam != "India" || got.Limit != 5 || got.StartDate.IsZero() {
				t.Errorf("query not mapped: %+v", got)
			}
			var rows []models.AuditSummaryRow
			if err := json.NewDecoder(w.Body).Decode(&rows); err != nil || len(rows) != 1 {
				t.Errorf("unexpected body: %v %v", rows, err)
			}
		})
	}
}

func TestGetAuditSummaryWithoutClickHouse(t *testing.T) {
	h := New(Config{Prediction: &MockPredictionService{}})

	w := httptest.NewRecorder()
	h.GetAuditSummary(w, httptest.NewRequest("GET", "/api/v1/predictions/summary", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
