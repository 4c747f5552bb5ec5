package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/wicketline/score-predictor/internal/logic"
	"github.com/wicketline/score-predictor/internal/models"
)

// Predict returns the predicted final score for a JSON match state
// @Summary Predict Final Score
// @Tags Predictions
// @Accept json
// @Produce json
// @Param body body models.MatchForm true "Match state"
// @Success 200 {object} models.PredictionResult
// @Failure 400 {object} models.ErrorResponse "Malformed body"
// @Failure 422 {object} models.ErrorResponse "Invalid input"
// @Failure 502 {object} models.ErrorResponse "Model failure"
// @Router /predict [post]
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	var req models.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warnw("Failed to decode predict request", "error", err)
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.prediction.Predict(r.Context(), req.MatchForm, models.RequestMeta{
		RequestID: middleware.GetReqID(r.Context()),
		Source:    models.SourceAPI,
	})
	if err != nil {
		h.logPredictionError(err, models.SourceAPI)

		var vErr *logic.ValidationError
		var pErr *logic.PredictionError
		switch {
		case errors.As(err, &vErr):
			h.jsonResponse(w, http.StatusUnprocessableEntity, models.ErrorResponse{
				Error: logic.UserMessage(err),
				Field: vErr.Field,
			})
		case errors.As(err, &pErr):
			h.errorResponse(w, http.StatusBadGateway, logic.UserMessage(err))
		default:
			h.errorResponse(w, http.StatusInternalServerError, "Failed to predict score")
		}
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// GetCatalog lists the teams and cities the model was trained on
// @Summary List Teams and Cities
// @Tags Predictions
// @Produce json
// @Success 200 {object} models.Catalog
// @Router /catalog [get]
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.prediction.Catalog())
}

func (h *Handler) logPredictionError(err error, source string) {
	var vErr *logic.ValidationError
	if errors.As(err, &vErr) {
		h.logger.Warnw("Rejected prediction input", "source", source, "field", vErr.Field, "error", err)
		return
	}
	h.logger.Errorw("Prediction failed", "source", source, "model", h.prediction.ModelName(), "error", err)
}
