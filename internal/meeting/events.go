package meeting

import "campus-complaints-api/internal/model"

type EventKind string

const (
	EventCreated        EventKind = "meeting_created"
	EventStatusChanged  EventKind = "meeting_status_changed"
	EventRescheduled    EventKind = "meeting_rescheduled"
	EventDetailsChanged EventKind = "meeting_details_changed"
)

// Event describes a committed lifecycle change. Mutations return events
// instead of notifying directly so that dispatch happens strictly after the
// write succeeded, and so that dispatch failures cannot reach the caller.
type Event struct {
	Kind      EventKind
	MeetingID int64
	NewStatus model.MeetingStatus // set for EventStatusChanged
	ChangedBy string              // empty for EventCreated
}
