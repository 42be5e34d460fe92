package meeting

import (
	"context"
	"time"

	"campus-complaints-api/internal/model"
)

// Manager is the single source of truth for whether a meeting change is
// allowed and well-formed. It owns validation and the role-aware permission
// matrix; persistence goes through the injected Store.
type Manager struct {
	store Store
	users Directory
	now   func() time.Time
}

func New(store Store, users Directory) *Manager {
	return &Manager{store: store, users: users, now: time.Now}
}

// Requester identifies the authenticated caller of a lifecycle operation.
type Requester struct {
	ID   string
	Role model.Role
}

// relation is the requester's standing toward one loaded meeting. Computed
// once per call, consulted per field.
type relation struct {
	isAdmin       bool
	isOrganizer   bool
	isParticipant bool
}

func relate(m *model.Meeting, req Requester) relation {
	return relation{
		isAdmin:       req.Role == model.RoleAdmin,
		isOrganizer:   m.OrganizerID == req.ID,
		isParticipant: m.ParticipantID == req.ID,
	}
}

type CreateRequest struct {
	Title         string
	Description   string
	OrganizerID   string
	ParticipantID string
	ScheduledAt   time.Time
}

func (mg *Manager) Create(ctx context.Context, req CreateRequest) (int64, []Event, error) {
	if req.Title == "" || req.ParticipantID == "" || req.ScheduledAt.IsZero() {
		return 0, nil, model.Validation("Title, participant, and scheduled time are required")
	}
	if !req.ScheduledAt.After(mg.now()) {
		return 0, nil, model.Validation("Meeting time must be in the future")
	}

	exists, err := mg.users.UserExists(ctx, req.ParticipantID)
	if err != nil {
		return 0, nil, err
	}
	if !exists {
		return 0, nil, model.NotFound("Participant not found")
	}

	id, err := mg.store.InsertMeeting(ctx, &model.Meeting{
		Title:         req.Title,
		Description:   req.Description,
		OrganizerID:   req.OrganizerID,
		ParticipantID: req.ParticipantID,
		ScheduledAt:   req.ScheduledAt,
		Status:        model.MeetingPending,
	})
	if err != nil {
		return 0, nil, err
	}

	return id, []Event{{Kind: EventCreated, MeetingID: id}}, nil
}

func (mg *Manager) Get(ctx context.Context, id int64, req Requester) (*model.MeetingDetails, error) {
	d, err := mg.store.GetMeetingDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	// existence is confirmed before the permission check
	canAccess := req.Role == model.RoleAdmin || d.OrganizerID == req.ID || d.ParticipantID == req.ID
	if !canAccess {
		return nil, model.Forbidden("Access denied")
	}
	return d, nil
}

// List returns the requester's meetings (as organizer or participant) plus
// the unpaged total.
func (mg *Manager) List(ctx context.Context, req Requester, status model.MeetingStatus, page, limit int) ([]model.MeetingSummary, int, error) {
	return mg.store.ListMeetings(ctx, req.ID, status, page, limit)
}

// ListAll is the admin view over every meeting.
func (mg *Manager) ListAll(ctx context.Context, req Requester, status model.MeetingStatus, page, limit int) ([]model.MeetingSummary, int, error) {
	if req.Role != model.RoleAdmin {
		return nil, 0, model.Forbidden("Access denied")
	}
	return mg.store.ListMeetings(ctx, "", status, page, limit)
}

// UpdateRequest carries only the fields present in the caller's request;
// nil means "not part of this update".
type UpdateRequest struct {
	Status      *model.MeetingStatus
	ScheduledAt *time.Time
	Title       *string
	Description *string
}

type changeKind int

const (
	changeStatus changeKind = iota
	changeSchedule
	changeDetails
)

// fieldRule is one row of the update permission matrix. Rules run in the
// order listed; the first validation or permission failure aborts the whole
// call before anything is written.
type fieldRule struct {
	name     string
	kind     changeKind
	present  func(UpdateRequest) bool
	validate func(*Manager, UpdateRequest) error
	allowed  func(relation) bool
	denied   string
	apply    func(UpdateRequest, map[string]any)
}

var updateRules = []fieldRule{
	{
		name:    "status",
		kind:    changeStatus,
		present: func(u UpdateRequest) bool { return u.Status != nil },
		validate: func(_ *Manager, u UpdateRequest) error {
			if !u.Status.Valid() {
				return model.Validation("Invalid status")
			}
			return nil
		},
		allowed: func(r relation) bool { return r.isAdmin || r.isParticipant },
		denied:  "Only the participant or admin can update meeting status",
		apply:   func(u UpdateRequest, c map[string]any) { c["status"] = *u.Status },
	},
	{
		name:    "scheduled_at",
		kind:    changeSchedule,
		present: func(u UpdateRequest) bool { return u.ScheduledAt != nil },
		validate: func(mg *Manager, u UpdateRequest) error {
			if !u.ScheduledAt.After(mg.now()) {
				return model.Validation("New meeting time must be in the future")
			}
			return nil
		},
		allowed: func(r relation) bool { return r.isAdmin || r.isOrganizer || r.isParticipant },
		denied:  "Only organizers, participants, or admins can reschedule meetings",
		apply:   func(u UpdateRequest, c map[string]any) { c["scheduled_at"] = *u.ScheduledAt },
	},
	{
		name:    "title",
		kind:    changeDetails,
		present: func(u UpdateRequest) bool { return u.Title != nil },
		allowed: func(r relation) bool { return r.isAdmin || r.isOrganizer },
		denied:  "Only the organizer or admin can update meeting details",
		apply:   func(u UpdateRequest, c map[string]any) { c["title"] = *u.Title },
	},
	{
		name:    "description",
		kind:    changeDetails,
		present: func(u UpdateRequest) bool { return u.Description != nil },
		allowed: func(r relation) bool { return r.isAdmin || r.isOrganizer },
		denied:  "Only the organizer or admin can update meeting details",
		apply:   func(u UpdateRequest, c map[string]any) { c["description"] = *u.Description },
	},
}

// Update applies a partial, per-field-authorized mutation. Each present
// field is validated and permission-checked against its own rule; the same
// requester can hold different effective permissions per field. All-or-
// nothing: one failing field fails the call and nothing is written.
func (mg *Manager) Update(ctx context.Context, id int64, req Requester, upd UpdateRequest) ([]Event, error) {
	cur, err := mg.store.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	rel := relate(cur, req)

	changes := make(map[string]any)
	seen := make(map[changeKind]bool)
	for _, rule := range updateRules {
		if !rule.present(upd) {
			continue
		}
		if rule.validate != nil {
			if err := rule.validate(mg, upd); err != nil {
				return nil, err
			}
		}
		if !rule.allowed(rel) {
			return nil, model.Forbidden(rule.denied)
		}
		rule.apply(upd, changes)
		seen[rule.kind] = true
	}

	if len(changes) == 0 {
		return nil, model.Validation("No valid fields provided for update")
	}

	if err := mg.store.UpdateMeeting(ctx, id, changes); err != nil {
		return nil, err
	}

	// one event per change kind, details deduplicated across title/description
	var events []Event
	if seen[changeStatus] {
		events = append(events, Event{Kind: EventStatusChanged, MeetingID: id, NewStatus: *upd.Status, ChangedBy: req.ID})
	}
	if seen[changeSchedule] {
		events = append(events, Event{Kind: EventRescheduled, MeetingID: id, ChangedBy: req.ID})
	}
	if seen[changeDetails] {
		events = append(events, Event{Kind: EventDetailsChanged, MeetingID: id, ChangedBy: req.ID})
	}
	return events, nil
}

func (mg *Manager) Delete(ctx context.Context, id int64, req Requester) error {
	cur, err := mg.store.GetMeeting(ctx, id)
	if err != nil {
		return err
	}

	canDelete := req.Role == model.RoleAdmin || cur.OrganizerID == req.ID
	if !canDelete {
		return model.Forbidden("Only the organizer or admin can delete this meeting")
	}
	return mg.store.DeleteMeeting(ctx, id)
}
