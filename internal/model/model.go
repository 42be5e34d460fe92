package model

import "time"

type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

type MeetingStatus string

const (
	MeetingPending   MeetingStatus = "pending"
	MeetingConfirmed MeetingStatus = "confirmed"
	MeetingCancelled MeetingStatus = "cancelled"
)

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingPending, MeetingConfirmed, MeetingCancelled:
		return true
	}
	return false
}

type NotificationType string

const (
	NotificationMeeting   NotificationType = "meeting"
	NotificationComplaint NotificationType = "complaint"
	NotificationSystem    NotificationType = "system"
)

type NotificationStatus string

const (
	NotificationSent NotificationStatus = "sent"
	NotificationRead NotificationStatus = "read"
)

// User identity is the university computer number.
type User struct {
	ComputerNumber string
	FirstName      string
	LastName       string
	Email          string
	PasswordHash   string
	Role           Role
	CreatedAt      time.Time
}

type Meeting struct {
	ID            int64
	Title         string
	Description   string
	OrganizerID   string
	ParticipantID string
	ScheduledAt   time.Time
	Status        MeetingStatus
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// MeetingSummary is a list row joined with both parties' display names.
type MeetingSummary struct {
	ID                   int64
	Title                string
	Description          string
	ScheduledAt          time.Time
	Status               MeetingStatus
	CreatedAt            time.Time
	OrganizerID          string
	OrganizerFirstName   string
	OrganizerLastName    string
	ParticipantID        string
	ParticipantFirstName string
	ParticipantLastName  string
}

// MeetingDetails is the single-meeting view with names and emails.
type MeetingDetails struct {
	Meeting
	OrganizerFirstName   string
	OrganizerLastName    string
	OrganizerEmail       string
	ParticipantFirstName string
	ParticipantLastName  string
	ParticipantEmail     string
}

// MeetingHeader carries the fields the dispatcher needs to compose messages.
type MeetingHeader struct {
	ID                   int64
	Title                string
	ScheduledAt          time.Time
	OrganizerID          string
	OrganizerFirstName   string
	ParticipantID        string
	ParticipantFirstName string
}

type Notification struct {
	ID        int64
	Recipient string
	Message   string
	Type      NotificationType
	Status    NotificationStatus
	CreatedAt time.Time
}

type Complaint struct {
	ID            int64
	Title         string
	Description   string
	Category      string
	OwnerID       string
	AssignedTo    *string
	Status        string
	AdminResponse *string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// ComplaintHeader carries the fields the dispatcher needs for complaint fan-out.
type ComplaintHeader struct {
	ID         int64
	Title      string
	Category   string
	OwnerID    string
	AssignedTo string
}
