package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/wicketline/score-predictor/internal/logic"
	"github.com/wicketline/score-predictor/internal/models"
)

type pageData struct {
	Teams      []string
	Cities     []string
	Form       models.MatchForm
	Prediction string
	IsError    bool
}

// ShowForm renders the empty prediction form
func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, models.MatchForm{}, "", false)
}

// SubmitForm predicts the final score from a form post and re-renders the
// page with either the integer prediction or an error message.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := r.ParseForm(); err != nil {
		h.logger.Warnw("Failed to parse form", "error", err)
		h.renderPage(w, http.StatusBadRequest, models.MatchForm{}, logic.UserMessage(err), true)
		return
	}

	// Missing keys read as empty and surface as a missing-field error
	form := models.MatchForm{
		BattingTeam:  r.PostFormValue(models.FieldBattingTeam),
		BowlingTeam:  r.PostFormValue(models.FieldBowlingTeam),
		City:         r.PostFormValue(models.FieldCity),
		CurrentScore: r.PostFormValue(models.FieldCurrentScore),
		Overs:        r.PostFormValue(models.FieldOvers),
		Wickets:      r.PostFormValue(models.FieldWickets),
		LastFive:     r.PostFormValue(models.FieldLastFive),
	}

	result, err := h.prediction.Predict(r.Context(), form, models.RequestMeta{
		RequestID: middleware.GetReqID(r.Context()),
		Source:    models.SourceForm,
	})
	if err != nil {
		h.logPredictionError(err, models.SourceForm)
		h.renderPage(w, http.StatusOK, form, logic.UserMessage(err), true)
		return
	}

	h.renderPage(w, http.StatusOK, form, strconv.Itoa(result.Prediction), false)
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, form models.MatchForm, prediction string, isError bool) {
	catalog := h.prediction.Catalog()

	var buf bytes.Buffer
	err := h.page.Execute(&buf, pageData{
		Teams:      catalog.Teams,
		Cities:     catalog.Cities,
		Form:       form,
		Prediction: prediction,
		IsError:    isError,
	})
	if err != nil {
		h.logger.Errorw("Failed to render page", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
