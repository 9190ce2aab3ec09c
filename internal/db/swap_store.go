package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

const swapColumns = `id, requester_id, recipient_id, skill_offered, skill_requested, description,
	status, scheduled_date, start_time, end_time, auto_expire_at, completed_at, duration,
	skillcoins_earned, bonus_multiplier, skillcoins_awarded, created_at, updated_at`

func scanSwap(row pgx.Row) (*models.Swap, error) {
	var sw models.Swap
	err := row.Scan(
		&sw.ID, &sw.RequesterID, &sw.RecipientID, &sw.SkillOffered, &sw.SkillRequested, &sw.Description,
		&sw.Status, &sw.ScheduledDate, &sw.StartTime, &sw.EndTime, &sw.AutoExpireAt, &sw.CompletedAt, &sw.Duration,
		&sw.SkillcoinsEarned, &sw.BonusMultiplier, &sw.SkillcoinsAwarded, &sw.CreatedAt, &sw.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения обмена: %w", err)
	}
	return &sw, nil
}

// CreateSwap создает новый обмен
func (s *Store) CreateSwap(ctx context.Context, sw *models.Swap) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO swaps (id, requester_id, recipient_id, skill_offered, skill_requested,
            description, status, duration, skillcoins_earned, bonus_multiplier)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, sw.ID, sw.RequesterID, sw.RecipientID, sw.SkillOffered, sw.SkillRequested,
		sw.Description, sw.Status, sw.Duration, sw.SkillcoinsEarned, sw.BonusMultiplier)
	if err != nil {
		return fmt.Errorf("ошибка создания обмена: %w", err)
	}
	return nil
}

// GetSwap возвращает обмен по ID
func (s *Store) GetSwap(ctx context.Context, id uuid.UUID) (*models.Swap, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+swapColumns+` FROM swaps WHERE id = $1`, id)
	return scanSwap(row)
}

// UpdateSwap сохраняет статус, расписание и описательные поля обмена.
// Флаг skillcoins_awarded этим путем не меняется: его выставляет только
// ClaimCompletion.
func (s *Store) UpdateSwap(ctx context.Context, sw *models.Swap) error {
	_, err := s.pool.Exec(ctx, `
        UPDATE swaps
        SET status = $2, description = $3, duration = $4,
            scheduled_date = $5, start_time = $6, end_time = $7,
            auto_expire_at = $8, completed_at = $9, updated_at = NOW()
        WHERE id = $1
    `, sw.ID, sw.Status, sw.Description, sw.Duration,
		sw.ScheduledDate, sw.StartTime, sw.EndTime, sw.AutoExpireAt, sw.CompletedAt)
	if err != nil {
		return fmt.Errorf("ошибка обновления обмена: %w", err)
	}
	return nil
}

// ClaimCompletion атомарно переводит обмен в completed и выставляет флаг
// начисления. Условие skillcoins_awarded = false гарантирует, что из двух
// конкурентных завершений (интерактивного и фонового) награду начислит
// ровно одно.
func (s *Store) ClaimCompletion(ctx context.Context, id uuid.UUID, completedAt time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
        UPDATE swaps
        SET status = $2, skillcoins_awarded = true, completed_at = $3, updated_at = NOW()
        WHERE id = $1 AND skillcoins_awarded = false
    `, id, models.SwapCompleted, completedAt)
	if err != nil {
		return false, fmt.Errorf("ошибка захвата завершения: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// FindExpired возвращает обмены, подлежащие автозавершению
func (s *Store) FindExpired(ctx context.Context, now time.Time, limit int) ([]models.Swap, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+swapColumns+`
        FROM swaps
        WHERE status IN ($1, $2) AND auto_expire_at <= $3 AND skillcoins_awarded = false
        ORDER BY auto_expire_at ASC
        LIMIT $4
    `, models.SwapActive, models.SwapScheduled, now, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска истекших обменов: %w", err)
	}
	defer rows.Close()

	return collectSwaps(rows)
}

// ListUserSwaps возвращает обмены пользователя, опционально фильтруя по
// статусу
func (s *Store) ListUserSwaps(ctx context.Context, userID uuid.UUID, status models.SwapStatus) ([]models.Swap, error) {
	var rows pgx.Rows
	var err error

	if status == "" {
		rows, err = s.pool.Query(ctx, `
            SELECT `+swapColumns+`
            FROM swaps
            WHERE requester_id = $1 OR recipient_id = $1
            ORDER BY created_at DESC
        `, userID)
	} else {
		rows, err = s.pool.Query(ctx, `
            SELECT `+swapColumns+`
            FROM swaps
            WHERE (requester_id = $1 OR recipient_id = $1) AND status = $2
            ORDER BY created_at DESC
        `, userID, status)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса обменов: %w", err)
	}
	defer rows.Close()

	return collectSwaps(rows)
}

func collectSwaps(rows pgx.Rows) ([]models.Swap, error) {
	var swaps []models.Swap
	for rows.Next() {
		sw, err := scanSwap(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, *sw)
	}
	return swaps, rows.Err()
}
