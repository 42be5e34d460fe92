package handler

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"campus-complaints-api/internal/meeting"
	"campus-complaints-api/internal/metrics"
	"campus-complaints-api/internal/middleware"
	"campus-complaints-api/internal/model"
)

func requester(r *http.Request) meeting.Requester {
	u, _ := middleware.UserFrom(r.Context())
	return meeting.Requester{ID: u.ComputerNumber, Role: u.Role}
}

func meetingID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func pageParams(r *http.Request, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

type createMeetingRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	ParticipantID string     `json:"participant_computer_number"`
	ScheduledAt   *time.Time `json:"scheduled_at"`
}

func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	req := requester(r)

	var body createMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var scheduledAt time.Time
	if body.ScheduledAt != nil {
		scheduledAt = *body.ScheduledAt
	}

	// the requester is always the organizer
	id, events, err := h.meetings.Create(r.Context(), meeting.CreateRequest{
		Title:         body.Title,
		Description:   body.Description,
		OrganizerID:   req.ID,
		ParticipantID: body.ParticipantID,
		ScheduledAt:   scheduledAt,
	})
	if err != nil {
		h.domainError(w, err)
		return
	}
	metrics.MeetingsCreatedCounter.Inc()

	// dispatch must not be cut short by the client hanging up
	h.notifier.Dispatch(context.WithoutCancel(r.Context()), events)

	participantName := ""
	if p, err := h.store.UserByComputerNumber(r.Context(), body.ParticipantID); err == nil {
		participantName = p.FirstName + " " + p.LastName
	}

	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Meeting scheduled successfully",
		Data: map[string]any{
			"meeting_id":   id,
			"title":        body.Title,
			"scheduled_at": scheduledAt,
			"status":       model.MeetingPending,
			"participant": map[string]any{
				"computer_number": body.ParticipantID,
				"name":            participantName,
			},
		},
	})
}

type meetingListRow struct {
	MeetingID            int64               `json:"meeting_id"`
	Title                string              `json:"title"`
	Description          string              `json:"description"`
	ScheduledAt          time.Time           `json:"scheduled_at"`
	Status               model.MeetingStatus `json:"status"`
	CreatedAt            time.Time           `json:"created_at"`
	OrganizerID          string              `json:"organizer_computer_number"`
	OrganizerFirstName   string              `json:"organizer_first_name"`
	OrganizerLastName    string              `json:"organizer_last_name"`
	ParticipantID        string              `json:"participant_computer_number"`
	ParticipantFirstName string              `json:"participant_first_name"`
	ParticipantLastName  string              `json:"participant_last_name"`
}

type meetingPagination struct {
	CurrentPage   int `json:"current_page"`
	TotalPages    int `json:"total_pages"`
	TotalMeetings int `json:"total_meetings"`
	Limit         int `json:"limit"`
}

func toListRows(meetings []model.MeetingSummary) []meetingListRow {
	rows := make([]meetingListRow, 0, len(meetings))
	for _, m := range meetings {
		rows = append(rows, meetingListRow{
			MeetingID:            m.ID,
			Title:                m.Title,
			Description:          m.Description,
			ScheduledAt:          m.ScheduledAt,
			Status:               m.Status,
			CreatedAt:            m.CreatedAt,
			OrganizerID:          m.OrganizerID,
			OrganizerFirstName:   m.OrganizerFirstName,
			OrganizerLastName:    m.OrganizerLastName,
			ParticipantID:        m.ParticipantID,
			ParticipantFirstName: m.ParticipantFirstName,
			ParticipantLastName:  m.ParticipantLastName,
		})
	}
	return rows
}

func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	req := requester(r)
	page, limit := pageParams(r, 10)
	status := model.MeetingStatus(r.URL.Query().Get("status"))

	meetings, total, err := h.meetings.List(r.Context(), req, status, page, limit)
	if err != nil {
		h.domainError(w, err)
		return
	}

	respondPage(w, toListRows(meetings), meetingPagination{
		CurrentPage:   page,
		TotalPages:    int(math.Ceil(float64(total) / float64(limit))),
		TotalMeetings: total,
		Limit:         limit,
	})
}

func (h *Handler) ListAllMeetings(w http.ResponseWriter, r *http.Request) {
	req := requester(r)
	page, limit := pageParams(r, 10)
	status := model.MeetingStatus(r.URL.Query().Get("status"))

	meetings, total, err := h.meetings.ListAll(r.Context(), req, status, page, limit)
	if err != nil {
		h.domainError(w, err)
		return
	}

	respondPage(w, toListRows(meetings), meetingPagination{
		CurrentPage:   page,
		TotalPages:    int(math.Ceil(float64(total) / float64(limit))),
		TotalMeetings: total,
		Limit:         limit,
	})
}

func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid meeting id")
		return
	}

	d, err := h.meetings.Get(r.Context(), id, requester(r))
	if err != nil {
		h.domainError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"meeting_id":                  d.ID,
		"title":                       d.Title,
		"description":                 d.Description,
		"organizer_computer_number":   d.OrganizerID,
		"participant_computer_number": d.ParticipantID,
		"scheduled_at":                d.ScheduledAt,
		"status":                      d.Status,
		"created_at":                  d.CreatedAt,
		"updated_at":                  d.UpdatedAt,
		"organizer_first_name":        d.OrganizerFirstName,
		"organizer_last_name":         d.OrganizerLastName,
		"organizer_email":             d.OrganizerEmail,
		"participant_first_name":      d.ParticipantFirstName,
		"participant_last_name":       d.ParticipantLastName,
		"participant_email":           d.ParticipantEmail,
	})
}

type updateMeetingRequest struct {
	Status      *model.MeetingStatus `json:"status"`
	ScheduledAt *time.Time           `json:"scheduled_at"`
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
}

func (h *Handler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid meeting id")
		return
	}

	var body updateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	events, err := h.meetings.Update(r.Context(), id, requester(r), meeting.UpdateRequest{
		Status:      body.Status,
		ScheduledAt: body.ScheduledAt,
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		h.domainError(w, err)
		return
	}

	metrics.MeetingsUpdatedCounter.Inc()
	h.notifier.Dispatch(context.WithoutCancel(r.Context()), events)
	respondMessage(w, http.StatusOK, "Meeting updated successfully")
}

func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid meeting id")
		return
	}

	if err := h.meetings.Delete(r.Context(), id, requester(r)); err != nil {
		h.domainError(w, err)
		return
	}
	metrics.MeetingsDeletedCounter.Inc()
	respondMessage(w, http.StatusOK, "Meeting deleted successfully")
}
