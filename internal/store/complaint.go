package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"campus-complaints-api/internal/model"
)

func (s *Store) InsertComplaint(ctx context.Context, c *model.Complaint) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO complaints (title, description, category, computer_number, status)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING complaint_id`,
		c.Title, c.Description, c.Category, c.OwnerID, c.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create complaint: %w", err)
	}
	return id, nil
}

func (s *Store) GetComplaint(ctx context.Context, id int64) (*model.Complaint, error) {
	c := &model.Complaint{}
	err := s.pool.QueryRow(ctx,
		`SELECT complaint_id, title, description, category, computer_number, assigned_to,
		        status, admin_response, created_at, updated_at
		 FROM complaints WHERE complaint_id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.OwnerID, &c.AssignedTo,
		&c.Status, &c.AdminResponse, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NotFound("Complaint not found")
		}
		return nil, fmt.Errorf("failed to get complaint %d: %w", id, err)
	}
	return c, nil
}

func (s *Store) GetComplaintHeader(ctx context.Context, id int64) (*model.ComplaintHeader, error) {
	h := &model.ComplaintHeader{}
	err := s.pool.QueryRow(ctx,
		`SELECT complaint_id, title, category, computer_number, COALESCE(assigned_to, '')
		 FROM complaints WHERE complaint_id = $1`, id,
	).Scan(&h.ID, &h.Title, &h.Category, &h.OwnerID, &h.AssignedTo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NotFound("Complaint not found")
		}
		return nil, fmt.Errorf("failed to get complaint %d header: %w", id, err)
	}
	return h, nil
}

// ListComplaints scopes to an owner when ownerID is non-empty; admins pass "".
func (s *Store) ListComplaints(ctx context.Context, ownerID string) ([]model.Complaint, error) {
	builder := psql.
		Select("complaint_id", "title", "description", "category", "computer_number", "assigned_to",
			"status", "admin_response", "created_at", "updated_at").
		From("complaints").
		OrderBy("created_at DESC")
	if ownerID != "" {
		builder = builder.Where(squirrel.Eq{"computer_number": ownerID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build complaint list query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	var out []model.Complaint
	for rows.Next() {
		var c model.Complaint
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.OwnerID, &c.AssignedTo,
			&c.Status, &c.AdminResponse, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateComplaint applies only the columns present in changes.
func (s *Store) UpdateComplaint(ctx context.Context, id int64, changes map[string]any) error {
	builder := psql.
		Update("complaints").
		SetMap(changes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"complaint_id": id})

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build complaint update: %w", err)
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update complaint %d: %w", id, err)
	}
	return nil
}
