package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// CreateTransaction добавляет запись в журнал операций. Журнал только
// дописывается: записи никогда не обновляются и не удаляются.
func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO transactions (id, user_id, type, amount, description, source_type, source_id, balance, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, t.ID, t.UserID, t.Type, t.Amount, t.Description, t.SourceType, t.SourceID, t.Balance, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}
	return nil
}

// TransactionTotals возвращает суммарные начисления и списания пользователя
// за все время, независимо от глубины выборки истории
func (s *Store) TransactionTotals(ctx context.Context, userID uuid.UUID) (earned, spent int, err error) {
	err = s.pool.QueryRow(ctx, `
        SELECT
            COALESCE(SUM(amount) FILTER (WHERE type <> 'spend'), 0),
            COALESCE(SUM(amount) FILTER (WHERE type = 'spend'), 0)
        FROM transactions
        WHERE user_id = $1
    `, userID).Scan(&earned, &spent)
	if err != nil {
		return 0, 0, fmt.Errorf("ошибка подсчета итогов по транзакциям: %w", err)
	}
	return earned, spent, nil
}

// ListUserTransactions возвращает последние операции пользователя
func (s *Store) ListUserTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, user_id, type, amount, description, source_type, source_id, balance, created_at
        FROM transactions
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса транзакций: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description,
			&t.SourceType, &t.SourceID, &t.Balance, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
