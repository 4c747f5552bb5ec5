package logic

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidQuery is returned for an unknown dimension or metric
var ErrInvalidQuery = errors.New("invalid audit query")

// AuditQueryRequest holds parameters for summarising served predictions
type AuditQueryRequest struct {
	Dimension         string    `json:"dimension"` // Group by: batting_team, city, model, day, ...
	Metric            string    `json:"metric"`    // Select: count, avg_prediction, cache_hit_rate, ...
	FilterBattingTeam string    `json:"batting_team"`
	FilterBowlingTeam string    `json:"bowling_team"`
	FilterCity        string    `json:"city"`
	FilterModel       string    `json:"model"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	Limit             int       `json:"limit"`
}

// allowedDimensions maps safe API values to SQL columns
var allowedDimensions = map[string]string{
	"batting_team": "batting_team",
	"bowling_team": "bowling_team",
	"city":         "city",
	"model":        "model",
	"source":       "source",
	"wicket_left":  "toString(wicket_left)",
	"day":          "toString(toDate(created_at))",
}

// allowedMetrics maps safe API values to aggregate expressions
var allowedMetrics = map[string]string{
	"count":          "count()",
	"avg_prediction": "avg(prediction)",
	"max_prediction": "max(prediction)",
	"min_prediction": "min(prediction)",
	"avg_run_rate":   "avg(current_run_rate)",
	"cache_hit_rate": "avg(toUInt8(cached)) * 100",
	"avg_latency_ms": "avg(latency_ms)",
	"p95_latency_ms": "quantile(0.95)(latency_ms)",
}

// BuildAuditQuery constructs a safe ClickHouse SQL query over the audit table.
// Values are always Float64 and labels always String.
func BuildAuditQuery(req AuditQueryRequest) (string, []interface{}, error) {
	// 1. Validate Dimension
	groupByCol, ok := allowedDimensions[req.Dimension]
	if !ok && req.Dimension != "" {
		return "", nil, fmt.Errorf("%w: dimension %q", ErrInvalidQuery, req.Dimension)
	}

	// 2. Select Clause (Metric)
	metric := req.Metric
	if metric == "" {
		metric = "count"
	}
	selectClause, ok := allowedMetrics[metric]
	if !ok {
		return "", nil, fmt.Errorf("%w: metric %q", ErrInvalidQuery, req.Metric)
	}

	// 3. Build Query
	query := fmt.Sprintf("SELECT toFloat64(%s) AS value", selectClause)
	var args []interface{}

	if groupByCol != "" {
		query += fmt.Sprintf(", %s AS label", groupByCol)
	} else {
		query += ", 'all' AS label"
	}

	query += " FROM cricket.prediction_audit WHERE 1=1"

	// 4. Filters
	if req.FilterBattingTeam != "" {
		query += " AND batting_team = ?"
		args = append(args, req.FilterBattingTeam)
	}
	if req.FilterBowlingTeam != "" {
		query += " AND bowling_team = ?"
		args = append(args, req.FilterBowlingTeam)
	}
	if req.FilterCity != "" {
		query += " AND city = ?"
		args = append(args, req.FilterCity)
	}
	if req.FilterModel != "" {
		query += " AND model = ?"
		args = append(args, req.FilterModel)
	}
	if !req.StartDate.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, req.StartDate)
	}
	if !req.EndDate.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, req.EndDate)
	}

	// 5. Group By
	if groupByCol != "" {
		query += " GROUP BY label"
	}

	// 6. Order By
	if req.Dimension == "day" {
		query += " ORDER BY label ASC"
	} else {
		query += " ORDER BY value DESC"
	}

	// 7. Limit
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	return query, args, nil
}
