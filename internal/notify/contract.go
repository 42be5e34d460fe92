package notify

import (
	"context"

	"campus-complaints-api/internal/model"
)

type (
	// Store is the sink plus the directory lookups the dispatcher needs.
	// *store.Store satisfies it; tests use fakes.
	Store interface {
		InsertNotification(ctx context.Context, recipient, message string, typ model.NotificationType) (int64, error)
		GetMeetingHeader(ctx context.Context, id int64) (*model.MeetingHeader, error)
		GetComplaintHeader(ctx context.Context, id int64) (*model.ComplaintHeader, error)
		AdminComputerNumbers(ctx context.Context) ([]string, error)
	}
)
