package logic

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/wicketline/score-predictor/internal/models"
)

type auditStatsService struct {
	ch driver.Conn
}

func NewAuditStatsService(ch driver.Conn) AuditStatsService {
	return &auditStatsService{ch: ch}
}

// Summary aggregates served predictions from the ClickHouse audit table
func (s *auditStatsService) Summary(ctx context.Context, req AuditQueryRequest) ([]models.AuditSummaryRow, error) {
	query, args, err := BuildAuditQuery(req)
	if err != nil {
		return nil, err
	}

	rows, err := s.ch.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit summary: %w", err)
	}
	defer rows.Close()

	result := []models.AuditSummaryRow{}
	for rows.Next() {
		var row models.AuditSummaryRow
		if err := rows.Scan(&row.Value, &row.Label); err != nil {
			return nil, fmt.Errorf("scan audit summary: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
