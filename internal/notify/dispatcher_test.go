package notify_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-complaints-api/internal/meeting"
	"campus-complaints-api/internal/model"
	"campus-complaints-api/internal/notify"
)

type sentRow struct {
	recipient string
	message   string
	typ       model.NotificationType
}

// fakeSink records inserts and can fail for selected recipients.
type fakeSink struct {
	sent            []sentRow
	failFor         map[string]bool
	meetingHeader   *model.MeetingHeader
	complaintHeader *model.ComplaintHeader
	admins          []string
}

func (f *fakeSink) InsertNotification(_ context.Context, recipient, message string, typ model.NotificationType) (int64, error) {
	if f.failFor[recipient] {
		return 0, errors.New("insert failed")
	}
	f.sent = append(f.sent, sentRow{recipient, message, typ})
	return int64(len(f.sent)), nil
}

func (f *fakeSink) GetMeetingHeader(_ context.Context, id int64) (*model.MeetingHeader, error) {
	if f.meetingHeader == nil || f.meetingHeader.ID != id {
		return nil, model.NotFound("Meeting not found")
	}
	return f.meetingHeader, nil
}

func (f *fakeSink) GetComplaintHeader(_ context.Context, id int64) (*model.ComplaintHeader, error) {
	if f.complaintHeader == nil || f.complaintHeader.ID != id {
		return nil, model.NotFound("Complaint not found")
	}
	return f.complaintHeader, nil
}

func (f *fakeSink) AdminComputerNumbers(_ context.Context) ([]string, error) {
	return f.admins, nil
}

func (f *fakeSink) recipients() []string {
	var out []string
	for _, r := range f.sent {
		out = append(out, r.recipient)
	}
	return out
}

var scheduled = time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)

func seededDispatcher(t *testing.T) (*notify.Dispatcher, *fakeSink) {
	t.Helper()
	sink := &fakeSink{
		failFor: map[string]bool{},
		meetingHeader: &model.MeetingHeader{
			ID:                   7,
			Title:                "Thesis review",
			ScheduledAt:          scheduled,
			OrganizerID:          "org1",
			OrganizerFirstName:   "Mary",
			ParticipantID:        "part1",
			ParticipantFirstName: "John",
		},
		complaintHeader: &model.ComplaintHeader{
			ID:       3,
			Title:    "Broken projector",
			Category: "facilities",
			OwnerID:  "stud1",
		},
	}
	return notify.New(sink, zap.NewNop()), sink
}

func displayTime(t time.Time) string {
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}

func TestMeetingRequested(t *testing.T) {
	d, sink := seededDispatcher(t)
	sink.admins = []string{"admin1", "admin2"}

	d.MeetingRequested(context.Background(), 7)

	if len(sink.sent) != 3 {
		t.Fatalf("want participant + 2 admins, got %v", sink.sent)
	}
	want := fmt.Sprintf("You have a new meeting request from Mary: %q scheduled for %s",
		"Thesis review", displayTime(scheduled))
	if sink.sent[0].recipient != "part1" || sink.sent[0].message != want {
		t.Fatalf("participant notification: %+v", sink.sent[0])
	}
	if sink.sent[0].typ != model.NotificationMeeting {
		t.Fatalf("want meeting type, got %s", sink.sent[0].typ)
	}
	adminWant := fmt.Sprintf("New meeting scheduled: %q by Mary with John for %s",
		"Thesis review", displayTime(scheduled))
	for _, row := range sink.sent[1:] {
		if row.message != adminWant {
			t.Fatalf("admin notification: %+v", row)
		}
	}
}

func TestStatusChangedActorExclusion(t *testing.T) {
	tests := []struct {
		name      string
		changedBy string
		wantTo    []string
		wantMsgs  []string
	}{
		{
			"participant confirms",
			"part1",
			[]string{"org1"},
			[]string{`Your meeting "Thesis review" has been confirmed by the participant.`},
		},
		{
			"organizer acts",
			"org1",
			[]string{"part1"},
			[]string{`Meeting "Thesis review" has been confirmed by Mary.`},
		},
		{
			"admin acts",
			"admin1",
			[]string{"org1", "part1"},
			[]string{
				`Your meeting "Thesis review" has been confirmed by an administrator.`,
				`Meeting "Thesis review" has been confirmed by an administrator.`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, sink := seededDispatcher(t)
			d.MeetingStatusChanged(context.Background(), 7, model.MeetingConfirmed, tt.changedBy)

			if len(sink.sent) != len(tt.wantTo) {
				t.Fatalf("want %v, got %v", tt.wantTo, sink.sent)
			}
			for i := range tt.wantTo {
				if sink.sent[i].recipient != tt.wantTo[i] || sink.sent[i].message != tt.wantMsgs[i] {
					t.Fatalf("row %d: %+v", i, sink.sent[i])
				}
			}
		})
	}
}

func TestRescheduledExcludesActor(t *testing.T) {
	d, sink := seededDispatcher(t)

	d.MeetingRescheduled(context.Background(), 7, "org1")

	want := fmt.Sprintf("Meeting %q has been rescheduled to %s", "Thesis review", displayTime(scheduled))
	if len(sink.sent) != 1 || sink.sent[0].recipient != "part1" || sink.sent[0].message != want {
		t.Fatalf("want only participant notified, got %v", sink.sent)
	}
}

func TestDetailsChangedMessages(t *testing.T) {
	tests := []struct {
		name      string
		changedBy string
		wantTo    []string
	}{
		{"admin acts", "admin1", []string{"org1", "part1"}},
		{"organizer acts", "org1", []string{"part1"}},
		{"participant acts", "part1", []string{"org1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, sink := seededDispatcher(t)
			d.MeetingDetailsChanged(context.Background(), 7, tt.changedBy)

			if got := sink.recipients(); !reflect.DeepEqual(got, tt.wantTo) {
				t.Fatalf("want %v, got %v", tt.wantTo, got)
			}
			for _, row := range sink.sent {
				want := `The details of meeting "Thesis review" have been updated`
				if row.recipient == "org1" {
					want = `The details of your meeting "Thesis review" have been updated`
				}
				if row.message != want {
					t.Fatalf("%s message: %q", row.recipient, row.message)
				}
			}
		})
	}
}

func TestComplaintUpdated(t *testing.T) {
	d, sink := seededDispatcher(t)
	sink.complaintHeader.AssignedTo = "lect1"
	sink.admins = []string{"admin1"}

	d.ComplaintUpdated(context.Background(), 3, "in_progress", "We are on it")

	if len(sink.sent) != 3 {
		t.Fatalf("want owner + assignee + admin, got %v", sink.sent)
	}
	if sink.sent[0].recipient != "stud1" ||
		sink.sent[0].message != `Your complaint "Broken projector" has been updated to in progress. Admin response: We are on it` {
		t.Fatalf("owner row: %+v", sink.sent[0])
	}
	if sink.sent[0].typ != model.NotificationComplaint {
		t.Fatalf("want complaint type, got %s", sink.sent[0].typ)
	}
	if sink.sent[1].recipient != "lect1" ||
		sink.sent[1].message != `Complaint "Broken projector" assigned to you has been updated to in progress. Admin response: We are on it` {
		t.Fatalf("assignee row: %+v", sink.sent[1])
	}
	if sink.sent[2].recipient != "admin1" ||
		sink.sent[2].message != `Complaint update: "Broken projector" (facilities) status changed to in progress - We are on it` {
		t.Fatalf("admin row: %+v", sink.sent[2])
	}
}

func TestComplaintUpdatedNoResponse(t *testing.T) {
	d, sink := seededDispatcher(t)

	d.ComplaintUpdated(context.Background(), 3, "resolved", "")

	if len(sink.sent) != 1 ||
		sink.sent[0].message != `Your complaint "Broken projector" has been updated to resolved.` {
		t.Fatalf("got %v", sink.sent)
	}
}

func TestFailureIsolation(t *testing.T) {
	d, sink := seededDispatcher(t)
	sink.failFor["org1"] = true

	// organizer insert fails; participant must still be attempted
	d.MeetingDetailsChanged(context.Background(), 7, "admin1")

	if len(sink.sent) != 1 || sink.sent[0].recipient != "part1" {
		t.Fatalf("want participant despite organizer failure, got %v", sink.sent)
	}
}

func TestCreateNotificationReturnsZeroOnFailure(t *testing.T) {
	d, sink := seededDispatcher(t)
	sink.failFor["stud1"] = true

	if id := d.CreateNotification(context.Background(), "stud1", "hi", model.NotificationSystem); id != 0 {
		t.Fatalf("want 0, got %d", id)
	}
	if id := d.CreateNotification(context.Background(), "stud2", "hi", model.NotificationSystem); id == 0 {
		t.Fatal("want nonzero id")
	}
}

func TestDispatchRoutesEvents(t *testing.T) {
	d, sink := seededDispatcher(t)

	d.Dispatch(context.Background(), []meeting.Event{
		{Kind: meeting.EventCreated, MeetingID: 7},
		{Kind: meeting.EventStatusChanged, MeetingID: 7, NewStatus: model.MeetingConfirmed, ChangedBy: "part1"},
		{Kind: meeting.EventKind("bogus"), MeetingID: 7},
	})

	// created: participant (no admins seeded); status change: organizer only
	if got := sink.recipients(); len(got) != 2 || got[0] != "part1" || got[1] != "org1" {
		t.Fatalf("got %v", got)
	}
}

func TestDispatchMissingMeeting(t *testing.T) {
	d, sink := seededDispatcher(t)

	// a vanished meeting must not panic or send anything
	d.Dispatch(context.Background(), []meeting.Event{{Kind: meeting.EventCreated, MeetingID: 999}})

	if len(sink.sent) != 0 {
		t.Fatalf("got %v", sink.sent)
	}
}
