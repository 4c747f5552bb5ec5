package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/wicketline/score-predictor/internal/logic"
)

// GetAuditSummary aggregates served predictions
// @Summary Summarise Served Predictions
// @Description Groups the ClickHouse audit trail by a dimension and aggregates a metric
// @Tags Predictions
// @Produce json
// @Param dimension query string false "batting_team, bowling_team, city, model, source, wicket_left or day"
// @Param metric query string false "count, avg_prediction, max_prediction, min_prediction, avg_run_rate, cache_hit_rate, avg_latency_ms or p95_latency_ms"
// @Param batting_team query string false "Filter by batting team"
// @Param bowling_team query string false "Filter by bowling team"
// @Param city query string false "Filter by city"
// @Param model query string false "Filter by model name"
// @Param from query string false "RFC3339 start time"
// @Param to query string false "RFC3339 end time"
// @Param limit query int false "Max rows (default 100)"
// @Success 200 {array} models.AuditSummaryRow
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /predictions/summary [get]
func (h *Handler) GetAuditSummary(w http.ResponseWriter, r *http.Request) {
	if h.auditStats == nil {
		h.errorResponse(w, http.StatusNotFound, "Audit summary requires the clickhouse audit sink")
		return
	}

	q := r.URL.Query()
	req := logic.AuditQueryRequest{
		Dimension:         q.Get("dimension"),
		Metric:            q.Get("metric"),
		FilterBattingTeam: q.Get("batting_team"),
		FilterBowlingTeam: q.Get("bowling_team"),
		FilterCity:        q.Get("city"),
		FilterModel:       q.Get("model"),
	}

	var err error
	if req.StartDate, err = parseTimeParam(q.Get("from")); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid 'from' time, expected RFC3339")
		return
	}
	if req.EndDate, err = parseTimeParam(q.Get("to")); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid 'to' time, expected RFC3339")
		return
	}
	if limit := q.Get("limit"); limit != "" {
		if req.Limit, err = strconv.Atoi(limit); err != nil {
			h.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	rows, err := h.auditStats.Summary(r.Context(), req)
	if err != nil {
		if errors.Is(err, logic.ErrInvalidQuery) {
			h.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorw("Failed to summarise audit trail", "error", err, "dimension", req.Dimension, "metric", req.Metric)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to summarise predictions")
		return
	}

	h.jsonResponse(w, http.StatusOK, rows)
}

func parseTimeParam(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}
