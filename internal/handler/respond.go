package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"campus-complaints-api/internal/model"
)

// envelope mirrors the response shape the SPA expects.
type envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondPage(w http.ResponseWriter, data any, pagination any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Pagination: pagination})
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: true, Message: msg})
}

func respondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

// domainError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an infrastructure failure: logged, reported
// generically.
func (h *Handler) domainError(w http.ResponseWriter, err error) {
	var ve *model.ValidationError
	var nfe *model.NotFoundError
	var fe *model.ForbiddenError
	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, ve.Msg)
	case errors.As(err, &nfe):
		respondError(w, http.StatusNotFound, nfe.Msg)
	case errors.As(err, &fe):
		respondError(w, http.StatusForbidden, fe.Msg)
	default:
		h.log.Error("internal error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
