package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// CreateNotification сохраняет уведомление
func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO notifications (id, user_id, type, title, message, data, entity_ref, action_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, n.ID, n.UserID, n.Type, n.Title, n.Message, n.Data, n.EntityRef, n.ActionURL, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения уведомления: %w", err)
	}
	return nil
}

// ListNotifications возвращает уведомления пользователя, свежие первыми
func (s *Store) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := `
        SELECT id, user_id, type, title, message, data, entity_ref, action_url, is_read, created_at
        FROM notifications
        WHERE user_id = $1
    `
	if unreadOnly {
		query += ` AND is_read = false`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса уведомлений: %w", err)
	}
	defer rows.Close()

	var list []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.Data, &n.EntityRef, &n.ActionURL, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// MarkNotificationRead помечает уведомление пользователя прочитанным
func (s *Store) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2
    `, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления уведомления: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead помечает все уведомления пользователя прочитанными
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
        UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false
    `, userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления уведомлений: %w", err)
	}
	return nil
}

// CountUnreadNotifications возвращает число непрочитанных уведомлений
func (s *Store) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false
    `, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета уведомлений: %w", err)
	}
	return count, nil
}
