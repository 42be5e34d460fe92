package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"campus-complaints-api/internal/model"
)

func (s *Store) InsertMeeting(ctx context.Context, m *model.Meeting) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO meetings (title, description, organizer_computer_number, participant_computer_number, scheduled_at, status)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING meeting_id`,
		m.Title, m.Description, m.OrganizerID, m.ParticipantID, m.ScheduledAt, m.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create meeting: %w", err)
	}
	return id, nil
}

func (s *Store) GetMeeting(ctx context.Context, id int64) (*model.Meeting, error) {
	m := &model.Meeting{}
	err := s.pool.QueryRow(ctx,
		`SELECT meeting_id, title, description, organizer_computer_number, participant_computer_number,
		        scheduled_at, status, created_at, updated_at
		 FROM meetings WHERE meeting_id = $1`, id,
	).Scan(&m.ID, &m.Title, &m.Description, &m.OrganizerID, &m.ParticipantID,
		&m.ScheduledAt, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NotFound("Meeting not found")
		}
		return nil, fmt.Errorf("failed to get meeting %d: %w", id, err)
	}
	return m, nil
}

func (s *Store) GetMeetingDetails(ctx context.Context, id int64) (*model.MeetingDetails, error) {
	d := &model.MeetingDetails{}
	err := s.pool.QueryRow(ctx,
		`SELECT m.meeting_id, m.title, m.description, m.organizer_computer_number, m.participant_computer_number,
		        m.scheduled_at, m.status, m.created_at, m.updated_at,
		        organizer.first_name, organizer.last_name, organizer.email,
		        participant.first_name, participant.last_name, participant.email
		 FROM meetings m
		 LEFT JOIN users organizer ON m.organizer_computer_number = organizer.computer_number
		 LEFT JOIN users participant ON m.participant_computer_number = participant.computer_number
		 WHERE m.meeting_id = $1`, id,
	).Scan(&d.ID, &d.Title, &d.Description, &d.OrganizerID, &d.ParticipantID,
		&d.ScheduledAt, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.OrganizerFirstName, &d.OrganizerLastName, &d.OrganizerEmail,
		&d.ParticipantFirstName, &d.ParticipantLastName, &d.ParticipantEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NotFound("Meeting not found")
		}
		return nil, fmt.Errorf("failed to get meeting %d details: %w", id, err)
	}
	return d, nil
}

func (s *Store) GetMeetingHeader(ctx context.Context, id int64) (*model.MeetingHeader, error) {
	h := &model.MeetingHeader{}
	err := s.pool.QueryRow(ctx,
		`SELECT m.meeting_id, m.title, m.scheduled_at,
		        m.organizer_computer_number, COALESCE(organizer.first_name, ''),
		        m.participant_computer_number, COALESCE(participant.first_name, '')
		 FROM meetings m
		 LEFT JOIN users organizer ON m.organizer_computer_number = organizer.computer_number
		 LEFT JOIN users participant ON m.participant_computer_number = participant.computer_number
		 WHERE m.meeting_id = $1`, id,
	).Scan(&h.ID, &h.Title, &h.ScheduledAt,
		&h.OrganizerID, &h.OrganizerFirstName,
		&h.ParticipantID, &h.ParticipantFirstName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NotFound("Meeting not found")
		}
		return nil, fmt.Errorf("failed to get meeting %d header: %w", id, err)
	}
	return h, nil
}

// UpdateMeeting applies only the columns present in changes.
func (s *Store) UpdateMeeting(ctx context.Context, id int64, changes map[string]any) error {
	builder := psql.
		Update("meetings").
		SetMap(changes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"meeting_id": id})

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build meeting update: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update meeting %d: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteMeeting(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM meetings WHERE meeting_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete meeting %d: %w", id, err)
	}
	return nil
}

// ListMeetings returns one page plus the unpaged total. An empty userID
// lists all meetings (admin view); an empty status means any status.
func (s *Store) ListMeetings(ctx context.Context, userID string, status model.MeetingStatus, page, limit int) ([]model.MeetingSummary, int, error) {
	var conds []squirrel.Sqlizer
	if userID != "" {
		conds = append(conds, squirrel.Or{
			squirrel.Eq{"m.organizer_computer_number": userID},
			squirrel.Eq{"m.participant_computer_number": userID},
		})
	}
	if status != "" {
		conds = append(conds, squirrel.Eq{"m.status": status})
	}

	countBuilder := psql.Select("COUNT(*)").From("meetings m")
	listBuilder := psql.
		Select("m.meeting_id", "m.title", "m.description", "m.scheduled_at", "m.status", "m.created_at",
			"m.organizer_computer_number", "COALESCE(organizer.first_name, '')", "COALESCE(organizer.last_name, '')",
			"m.participant_computer_number", "COALESCE(participant.first_name, '')", "COALESCE(participant.last_name, '')").
		From("meetings m").
		LeftJoin("users organizer ON m.organizer_computer_number = organizer.computer_number").
		LeftJoin("users participant ON m.participant_computer_number = participant.computer_number")

	for _, c := range conds {
		countBuilder = countBuilder.Where(c)
		listBuilder = listBuilder.Where(c)
	}

	query, args, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build meeting count query: %w", err)
	}
	var total int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count meetings: %w", err)
	}

	offset := (page - 1) * limit
	query, args, err = listBuilder.
		OrderBy("m.scheduled_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build meeting list query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query meetings: %w", err)
	}
	defer rows.Close()

	var out []model.MeetingSummary
	for rows.Next() {
		var m model.MeetingSummary
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.ScheduledAt, &m.Status, &m.CreatedAt,
			&m.OrganizerID, &m.OrganizerFirstName, &m.OrganizerLastName,
			&m.ParticipantID, &m.ParticipantFirstName, &m.ParticipantLastName); err != nil {
			return nil, 0, fmt.Errorf("failed to scan meeting: %w", err)
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}
