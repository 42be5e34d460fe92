package meeting

import (
	"context"

	"campus-complaints-api/internal/model"
)

type (
	// Store is the data access the lifecycle manager needs. *store.Store
	// satisfies it; tests use fakes.
	Store interface {
		InsertMeeting(ctx context.Context, m *model.Meeting) (int64, error)
		GetMeeting(ctx context.Context, id int64) (*model.Meeting, error)
		GetMeetingDetails(ctx context.Context, id int64) (*model.MeetingDetails, error)
		UpdateMeeting(ctx context.Context, id int64, changes map[string]any) error
		DeleteMeeting(ctx context.Context, id int64) error
		ListMeetings(ctx context.Context, userID string, status model.MeetingStatus, page, limit int) ([]model.MeetingSummary, int, error)
	}

	// Directory is the read-only user lookup.
	Directory interface {
		UserExists(ctx context.Context, computerNumber string) (bool, error)
	}
)
