package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"campus-complaints-api/internal/middleware"
	"campus-complaints-api/internal/model"
)

var validComplaintStatuses = map[string]bool{
	"pending":     true,
	"in_progress": true,
	"resolved":    true,
	"rejected":    true,
}

type createComplaintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h *Handler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())

	var body createComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Title == "" || body.Description == "" {
		respondError(w, http.StatusBadRequest, "Title and description are required")
		return
	}

	id, err := h.store.InsertComplaint(r.Context(), &model.Complaint{
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
		OwnerID:     u.ComputerNumber,
		Status:      "pending",
	})
	if err != nil {
		h.domainError(w, err)
		return
	}
	respondData(w, http.StatusCreated, map[string]any{"complaint_id": id})
}

type complaintRow struct {
	ComplaintID   int64      `json:"complaint_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	OwnerID       string     `json:"computer_number"`
	AssignedTo    *string    `json:"assigned_to"`
	Status        string     `json:"status"`
	AdminResponse *string    `json:"admin_response"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

func toComplaintRows(complaints []model.Complaint) []complaintRow {
	rows := make([]complaintRow, 0, len(complaints))
	for _, c := range complaints {
		rows = append(rows, complaintRow{
			ComplaintID:   c.ID,
			Title:         c.Title,
			Description:   c.Description,
			Category:      c.Category,
			OwnerID:       c.OwnerID,
			AssignedTo:    c.AssignedTo,
			Status:        c.Status,
			AdminResponse: c.AdminResponse,
			CreatedAt:     c.CreatedAt,
			UpdatedAt:     c.UpdatedAt,
		})
	}
	return rows
}

func (h *Handler) ListMyComplaints(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())

	complaints, err := h.store.ListComplaints(r.Context(), u.ComputerNumber)
	if err != nil {
		h.domainError(w, err)
		return
	}
	respondData(w, http.StatusOK, toComplaintRows(complaints))
}

func (h *Handler) ListAllComplaints(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.store.ListComplaints(r.Context(), "")
	if err != nil {
		h.domainError(w, err)
		return
	}
	respondData(w, http.StatusOK, toComplaintRows(complaints))
}

type updateComplaintRequest struct {
	Status        *string `json:"status"`
	AssignedTo    *string `json:"assigned_to"`
	AdminResponse *string `json:"admin_response"`
}

// UpdateComplaint is the admin triage action: status, assignee, response.
// A status change fans out through the dispatcher, best-effort.
func (h *Handler) UpdateComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	var body updateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// existence first, matching the meeting routes
	if _, err := h.store.GetComplaint(r.Context(), id); err != nil {
		h.domainError(w, err)
		return
	}

	changes := make(map[string]any)
	if body.Status != nil {
		if !validComplaintStatuses[*body.Status] {
			respondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		changes["status"] = *body.Status
	}
	if body.AssignedTo != nil {
		changes["assigned_to"] = *body.AssignedTo
	}
	if body.AdminResponse != nil {
		changes["admin_response"] = *body.AdminResponse
	}
	if len(changes) == 0 {
		respondError(w, http.StatusBadRequest, "No valid fields provided for update")
		return
	}

	if err := h.store.UpdateComplaint(r.Context(), id, changes); err != nil {
		h.domainError(w, err)
		return
	}

	if body.Status != nil {
		response := ""
		if body.AdminResponse != nil {
			response = *body.AdminResponse
		}
		h.notifier.ComplaintUpdated(context.WithoutCancel(r.Context()), id, *body.Status, response)
	}
	respondMessage(w, http.StatusOK, "Complaint updated successfully")
}
