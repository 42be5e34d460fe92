package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"campus-complaints-api/internal/middleware"
	"campus-complaints-api/internal/model"
)

type notificationRow struct {
	NotificationID int64                    `json:"notification_id"`
	Message        string                   `json:"message"`
	Type           model.NotificationType   `json:"type"`
	Status         model.NotificationStatus `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	page, limit := pageParams(r, 20)
	unreadOnly := r.URL.Query().Get("unread_only") == "true"

	notifications, total, err := h.store.ListNotifications(r.Context(), u.ComputerNumber, unreadOnly, page, limit)
	if err != nil {
		h.domainError(w, err)
		return
	}

	rows := make([]notificationRow, 0, len(notifications))
	for _, n := range notifications {
		rows = append(rows, notificationRow{
			NotificationID: n.ID,
			Message:        n.Message,
			Type:           n.Type,
			Status:         n.Status,
			CreatedAt:      n.CreatedAt,
		})
	}

	respondPage(w, rows, map[string]any{
		"current_page":        page,
		"total_notifications": total,
	})
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())

	count, err := h.store.UnreadNotificationCount(r.Context(), u.ComputerNumber)
	if err != nil {
		h.domainError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"unread_count": count})
}

type markReadRequest struct {
	NotificationIDs []int64 `json:"notification_ids"`
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())

	var body markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NotificationIDs == nil {
		respondError(w, http.StatusBadRequest, "notification_ids array is required")
		return
	}
	if len(body.NotificationIDs) == 0 {
		respondMessage(w, http.StatusOK, "No notifications to update")
		return
	}

	if err := h.store.MarkNotificationsRead(r.Context(), u.ComputerNumber, body.NotificationIDs); err != nil {
		h.domainError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Notifications marked as read")
}
