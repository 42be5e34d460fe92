package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"campus-complaints-api/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (computer_number, first_name, last_name, email, password_hash, role)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ComputerNumber, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) UserByComputerNumber(ctx context.Context, computerNumber string) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT computer_number, first_name, last_name, email, password_hash, role, created_at
		 FROM users WHERE computer_number = $1`, computerNumber,
	).Scan(&u.ComputerNumber, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to get user %q: %w", computerNumber, err)
	}
	return u, nil
}

func (s *Store) UserExists(ctx context.Context, computerNumber string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE computer_number = $1)`, computerNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user %q exists: %w", computerNumber, err)
	}
	return exists, nil
}

func (s *Store) AdminComputerNumbers(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT computer_number FROM users WHERE role = $1`, model.RoleAdmin,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var cn string
		if err := rows.Scan(&cn); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		out = append(out, cn)
	}
	return out, rows.Err()
}

// SearchUsers matches names or computer numbers for the participant picker.
func (s *Store) SearchUsers(ctx context.Context, q string, limit int) ([]model.User, error) {
	pattern := "%" + q + "%"
	builder := psql.
		Select("computer_number", "first_name", "last_name", "email", "role", "created_at").
		From("users").
		Where(squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"computer_number": pattern},
		}).
		OrderBy("last_name", "first_name").
		Limit(uint64(limit))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user search query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ComputerNumber, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
