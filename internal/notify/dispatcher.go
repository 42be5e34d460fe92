package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"campus-complaints-api/internal/meeting"
	"campus-complaints-api/internal/metrics"
	"campus-complaints-api/internal/model"
)

// Dispatcher fans lifecycle events out to recipients as feed rows. Every
// method is best-effort: failures are logged and counted, never returned.
// The actor who caused a change is excluded from its recipients.
type Dispatcher struct {
	store Store
	log   *zap.Logger
}

func New(store Store, log *zap.Logger) *Dispatcher {
	return &Dispatcher{store: store, log: log}
}

// Dispatch consumes events emitted by a committed mutation. It never fails;
// the triggering operation has already succeeded and stays successful.
func (d *Dispatcher) Dispatch(ctx context.Context, events []meeting.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case meeting.EventCreated:
			d.MeetingRequested(ctx, ev.MeetingID)
		case meeting.EventStatusChanged:
			d.MeetingStatusChanged(ctx, ev.MeetingID, ev.NewStatus, ev.ChangedBy)
		case meeting.EventRescheduled:
			d.MeetingRescheduled(ctx, ev.MeetingID, ev.ChangedBy)
		case meeting.EventDetailsChanged:
			d.MeetingDetailsChanged(ctx, ev.MeetingID, ev.ChangedBy)
		default:
			d.log.Warn("unknown lifecycle event", zap.String("kind", string(ev.Kind)))
		}
	}
}

// CreateNotification is the atomic primitive: one row, status "sent".
// Returns the new id, or 0 when the insert failed. This is the isolation
// boundary that makes the whole dispatcher best-effort.
func (d *Dispatcher) CreateNotification(ctx context.Context, recipient, message string, typ model.NotificationType) int64 {
	id, err := d.store.InsertNotification(ctx, recipient, message, typ)
	if err != nil {
		metrics.NotificationFailuresCounter.Inc()
		d.log.Error("failed to create notification",
			zap.String("recipient", recipient),
			zap.String("type", string(typ)),
			zap.Error(err))
		return 0
	}
	metrics.NotificationsSentCounter.Inc()
	return id
}

// MeetingRequested tells the participant about a new meeting and gives every
// admin a heads-up.
func (d *Dispatcher) MeetingRequested(ctx context.Context, meetingID int64) {
	h, err := d.store.GetMeetingHeader(ctx, meetingID)
	if err != nil {
		d.log.Error("meeting not found for request notification", zap.Int64("meeting_id", meetingID), zap.Error(err))
		return
	}
	when := displayTime(h.ScheduledAt)

	if h.ParticipantID != "" {
		msg := fmt.Sprintf("You have a new meeting request from %s: %q scheduled for %s",
			h.OrganizerFirstName, h.Title, when)
		d.CreateNotification(ctx, h.ParticipantID, msg, model.NotificationMeeting)
	}

	admins, err := d.store.AdminComputerNumbers(ctx)
	if err != nil {
		d.log.Error("failed to load admins for meeting notification", zap.Error(err))
		return
	}
	for _, admin := range admins {
		msg := fmt.Sprintf("New meeting scheduled: %q by %s with %s for %s",
			h.Title, h.OrganizerFirstName, h.ParticipantFirstName, when)
		d.CreateNotification(ctx, admin, msg, model.NotificationMeeting)
	}
}

// MeetingStatusChanged tells both parties, minus the actor, who did what.
func (d *Dispatcher) MeetingStatusChanged(ctx context.Context, meetingID int64, status model.MeetingStatus, changedBy string) {
	h, err := d.store.GetMeetingHeader(ctx, meetingID)
	if err != nil {
		d.log.Error("meeting not found for status notification", zap.Int64("meeting_id", meetingID), zap.Error(err))
		return
	}

	if h.OrganizerID != "" && changedBy != h.OrganizerID {
		by := "an administrator"
		if changedBy == h.ParticipantID {
			by = "the participant"
		}
		msg := fmt.Sprintf("Your meeting %q has been %s by %s.", h.Title, status, by)
		d.CreateNotification(ctx, h.OrganizerID, msg, model.NotificationMeeting)
	}

	if h.ParticipantID != "" && changedBy != h.ParticipantID {
		by := "an administrator"
		if changedBy == h.OrganizerID {
			by = h.OrganizerFirstName
		}
		msg := fmt.Sprintf("Meeting %q has been %s by %s.", h.Title, status, by)
		d.CreateNotification(ctx, h.ParticipantID, msg, model.NotificationMeeting)
	}
}

// MeetingRescheduled tells both parties, minus the actor, the new time.
func (d *Dispatcher) MeetingRescheduled(ctx context.Context, meetingID int64, changedBy string) {
	h, err := d.store.GetMeetingHeader(ctx, meetingID)
	if err != nil {
		d.log.Error("meeting not found for reschedule notification", zap.Int64("meeting_id", meetingID), zap.Error(err))
		return
	}
	when := displayTime(h.ScheduledAt)

	if h.OrganizerID != "" && h.OrganizerID != changedBy {
		msg := fmt.Sprintf("Your meeting %q has been rescheduled to %s", h.Title, when)
		d.CreateNotification(ctx, h.OrganizerID, msg, model.NotificationMeeting)
	}
	if h.ParticipantID != "" && h.ParticipantID != changedBy {
		msg := fmt.Sprintf("Meeting %q has been rescheduled to %s", h.Title, when)
		d.CreateNotification(ctx, h.ParticipantID, msg, model.NotificationMeeting)
	}
}

// MeetingDetailsChanged sends the generic "details updated" message, no diff.
func (d *Dispatcher) MeetingDetailsChanged(ctx context.Context, meetingID int64, changedBy string) {
	h, err := d.store.GetMeetingHeader(ctx, meetingID)
	if err != nil {
		d.log.Error("meeting not found for details notification", zap.Int64("meeting_id", meetingID), zap.Error(err))
		return
	}

	if h.OrganizerID != "" && h.OrganizerID != changedBy {
		msg := fmt.Sprintf("The details of your meeting %q have been updated", h.Title)
		d.CreateNotification(ctx, h.OrganizerID, msg, model.NotificationMeeting)
	}
	if h.ParticipantID != "" && h.ParticipantID != changedBy {
		msg := fmt.Sprintf("The details of meeting %q have been updated", h.Title)
		d.CreateNotification(ctx, h.ParticipantID, msg, model.NotificationMeeting)
	}
}

// ComplaintUpdated tells the owner, the assignee (when different), and every
// admin about a complaint status change.
func (d *Dispatcher) ComplaintUpdated(ctx context.Context, complaintID int64, status, adminResponse string) {
	c, err := d.store.GetComplaintHeader(ctx, complaintID)
	if err != nil {
		d.log.Error("complaint not found for update notification", zap.Int64("complaint_id", complaintID), zap.Error(err))
		return
	}
	statusText := strings.ReplaceAll(status, "_", " ")

	if c.OwnerID != "" {
		msg := fmt.Sprintf("Your complaint %q has been updated to %s.", c.Title, statusText)
		if adminResponse != "" {
			msg += " Admin response: " + adminResponse
		}
		d.CreateNotification(ctx, c.OwnerID, msg, model.NotificationComplaint)
	}

	if c.AssignedTo != "" && c.AssignedTo != c.OwnerID {
		msg := fmt.Sprintf("Complaint %q assigned to you has been updated to %s.", c.Title, statusText)
		if adminResponse != "" {
			msg += " Admin response: " + adminResponse
		}
		d.CreateNotification(ctx, c.AssignedTo, msg, model.NotificationComplaint)
	}

	admins, err := d.store.AdminComputerNumbers(ctx)
	if err != nil {
		d.log.Error("failed to load admins for complaint notification", zap.Error(err))
		return
	}
	for _, admin := range admins {
		msg := fmt.Sprintf("Complaint update: %q (%s) status changed to %s", c.Title, c.Category, statusText)
		if adminResponse != "" {
			msg += " - " + adminResponse
		}
		d.CreateNotification(ctx, admin, msg, model.NotificationComplaint)
	}
}

func displayTime(t time.Time) string {
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}
