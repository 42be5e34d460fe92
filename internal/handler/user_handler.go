package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"campus-complaints-api/internal/auth"
	"campus-complaints-api/internal/model"
)

type createUserRequest struct {
	ComputerNumber string     `json:"computer_number"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Password       string     `json:"password"`
	Role           model.Role `json:"role"`
}

// CreateUser is admin-only: accounts are provisioned, not self-registered.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.ComputerNumber == "" || body.FirstName == "" || body.LastName == "" ||
		body.Email == "" || body.Password == "" {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if len(body.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Password too short")
		return
	}
	switch body.Role {
	case model.RoleStudent, model.RoleLecturer, model.RoleAdmin:
	default:
		respondError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	err = h.store.CreateUser(r.Context(), &model.User{
		ComputerNumber: body.ComputerNumber,
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		Email:          body.Email,
		PasswordHash:   hash,
		Role:           body.Role,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "User already exists")
			return
		}
		h.domainError(w, err)
		return
	}

	respondData(w, http.StatusCreated, map[string]any{"computer_number": body.ComputerNumber})
}

// SearchUsers backs the participant picker on the meeting form.
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		respondError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	users, err := h.store.SearchUsers(r.Context(), q, 20)
	if err != nil {
		h.domainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]any{
			"computer_number": u.ComputerNumber,
			"first_name":      u.FirstName,
			"last_name":       u.LastName,
			"email":           u.Email,
			"role":            u.Role,
		})
	}
	respondData(w, http.StatusOK, out)
}
