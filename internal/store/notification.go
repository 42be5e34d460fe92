package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"campus-complaints-api/internal/model"
)

func (s *Store) InsertNotification(ctx context.Context, recipient, message string, typ model.NotificationType) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO notifications (computer_number, message, type, status)
		 VALUES ($1,$2,$3,$4)
		 RETURNING notification_id`,
		recipient, message, typ, model.NotificationSent,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create notification: %w", err)
	}
	return id, nil
}

func (s *Store) ListNotifications(ctx context.Context, recipient string, unreadOnly bool, page, limit int) ([]model.Notification, int, error) {
	conds := []squirrel.Sqlizer{squirrel.Eq{"computer_number": recipient}}
	if unreadOnly {
		conds = append(conds, squirrel.Eq{"status": model.NotificationSent})
	}

	countBuilder := psql.Select("COUNT(*)").From("notifications")
	listBuilder := psql.
		Select("notification_id", "computer_number", "message", "type", "status", "created_at").
		From("notifications")
	for _, c := range conds {
		countBuilder = countBuilder.Where(c)
		listBuilder = listBuilder.Where(c)
	}

	query, args, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build notification count query: %w", err)
	}
	var total int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	offset := (page - 1) * limit
	query, args, err = listBuilder.
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build notification list query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Message, &n.Type, &n.Status, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

func (s *Store) UnreadNotificationCount(ctx context.Context, recipient string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE computer_number = $1 AND status = $2`,
		recipient, model.NotificationSent,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationsRead flips the given ids to read, scoped to the recipient
// so one user cannot touch another's feed.
func (s *Store) MarkNotificationsRead(ctx context.Context, recipient string, ids []int64) error {
	builder := psql.
		Update("notifications").
		Set("status", model.NotificationRead).
		Where(squirrel.Eq{"notification_id": ids}).
		Where(squirrel.Eq{"computer_number": recipient})

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark-read query: %w", err)
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
