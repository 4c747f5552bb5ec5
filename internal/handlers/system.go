package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wicketline/score-predictor/internal/config"
	"github.com/wicketline/score-predictor/internal/models"
	"github.com/wicketline/score-predictor/migrations"
)

// InstallDatabase applies the audit schema for the configured sink
// @Summary Install Audit Schema
// @Description Executes the embedded SQL migrations for the ClickHouse or PostgreSQL audit sink
// @Tags System
// @Produce json
// @Security AdminToken
// @Success 200 {object} models.InstallResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.InstallResponse
// @Router /system/install [post]
func (h *Handler) InstallDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var exec func(ctx context.Context, stmt string) error
	switch {
	case h.auditSink == config.AuditClickHouse && h.ch != nil:
		exec = func(ctx context.Context, stmt string) error { return h.ch.Exec(ctx, stmt) }
	case h.auditSink == config.AuditPostgres && h.pg != nil:
		exec = func(ctx context.Context, stmt string) error {
			_, err := h.pg.Exec(ctx, stmt)
			return err
		}
	default:
		h.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("audit sink %q has no SQL schema", h.auditSink))
		return
	}

	results, hasError := h.applyMigrations(ctx, h.auditSink, exec)

	statusCode := http.StatusOK
	if hasError {
		statusCode = http.StatusInternalServerError
	}

	h.jsonResponse(w, statusCode, models.InstallResponse{
		Status:  "completed",
		Sink:    h.auditSink,
		Results: results,
		Error:   hasError,
	})
}

// applyMigrations runs every statement of every file, stopping a file at its
// first failing statement.
func (h *Handler) applyMigrations(ctx context.Context, dialect string, exec func(context.Context, string) error) (map[string]string, bool) {
	results := make(map[string]string)

	files, err := migrations.Load(dialect)
	if err != nil {
		h.logger.Errorw("failed to load migrations", "db", dialect, "error", err)
		results[dialect] = "failed: " + err.Error()
		return results, true
	}

	hasError := false
	for _, f := range files {
		results[f.Name] = "success"
		for _, stmt := range f.Statements() {
			if err := exec(ctx, stmt); err != nil {
				h.logger.Warnw("statement execution failed", "db", dialect, "file", f.Name, "error", err, "statement", stmt[:min(len(stmt), 50)]+"...")
				results[f.Name] = "failed: " + err.Error()
				hasError = true
				break
			}
		}
	}

	if !hasError {
		h.logger.Infow("successfully installed schema", "db", dialect, "files", len(files))
	}
	return results, hasError
}
