package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, avatar_url, bio, location,
	skillcoins, xp, level, login_streak, last_login_at, total_swaps, completed_swaps,
	referral_code, referred_by, referral_count, skills_to_teach, skills_to_learn,
	is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var teachData, learnData []byte

	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.AvatarURL, &u.Bio, &u.Location,
		&u.Skillcoins, &u.XP, &u.Level, &u.LoginStreak, &u.LastLoginAt, &u.TotalSwaps, &u.CompletedSwaps,
		&u.ReferralCode, &u.ReferredBy, &u.ReferralCount, &teachData, &learnData,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя: %w", err)
	}

	// Навыки хранятся в JSONB
	if len(teachData) > 0 {
		if err := json.Unmarshal(teachData, &u.SkillsToTeach); err != nil {
			u.SkillsToTeach = []models.Skill{}
		}
	}
	if len(learnData) > 0 {
		if err := json.Unmarshal(learnData, &u.SkillsToLearn); err != nil {
			u.SkillsToLearn = []models.Skill{}
		}
	}

	return &u, nil
}

// CreateUser создает нового пользователя
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	teachData, err := json.Marshal(u.SkillsToTeach)
	if err != nil {
		return fmt.Errorf("ошибка сериализации навыков: %w", err)
	}
	learnData, err := json.Marshal(u.SkillsToLearn)
	if err != nil {
		return fmt.Errorf("ошибка сериализации навыков: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
        INSERT INTO users (id, email, password_hash, first_name, last_name, avatar_url,
            skillcoins, referral_code, referred_by, skills_to_teach, skills_to_learn)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.AvatarURL,
		u.Skillcoins, u.ReferralCode, u.ReferredBy, teachData, learnData)
	if err != nil {
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return nil
}

// GetUser возвращает пользователя по ID
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetUserByEmail возвращает пользователя по email (включая хеш пароля)
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// EmailExists проверяет, занят ли email
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки email: %w", err)
	}
	return exists, nil
}

// FindUserByReferralCode ищет пользователя по реферальному коду
func (s *Store) FindUserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code)
	return scanUser(row)
}

// AddSkillcoins атомарно увеличивает баланс и возвращает новое значение
func (s *Store) AddSkillcoins(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	var balance int
	err := s.pool.QueryRow(ctx, `
        UPDATE users SET skillcoins = skillcoins + $2, updated_at = NOW()
        WHERE id = $1
        RETURNING skillcoins
    `, id, amount).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("ошибка начисления скиллкоинов: %w", err)
	}
	return balance, nil
}

// SpendSkillcoins атомарно списывает скиллкоины одним условным обновлением:
// списание, уводящее баланс в минус, не проходит
func (s *Store) SpendSkillcoins(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	var balance int
	err := s.pool.QueryRow(ctx, `
        UPDATE users SET skillcoins = skillcoins - $2, updated_at = NOW()
        WHERE id = $1 AND skillcoins >= $2
        RETURNING skillcoins
    `, id, amount).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Либо пользователя нет, либо не хватает средств
			if _, getErr := s.GetUser(ctx, id); getErr != nil {
				return 0, getErr
			}
			return 0, models.ErrInsufficientFunds
		}
		return 0, fmt.Errorf("ошибка списания скиллкоинов: %w", err)
	}
	return balance, nil
}

// AddXP атомарно увеличивает XP и возвращает новое значение
func (s *Store) AddXP(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	var xp int
	err := s.pool.QueryRow(ctx, `
        UPDATE users SET xp = xp + $2, updated_at = NOW()
        WHERE id = $1
        RETURNING xp
    `, id, amount).Scan(&xp)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("ошибка начисления XP: %w", err)
	}
	return xp, nil
}

// SetLevel поднимает уровень до указанного, никогда не снижая его
func (s *Store) SetLevel(ctx context.Context, id uuid.UUID, level int) error {
	_, err := s.pool.Exec(ctx, `
        UPDATE users SET level = GREATEST(level, $2), updated_at = NOW()
        WHERE id = $1
    `, id, level)
	if err != nil {
		return fmt.Errorf("ошибка обновления уровня: %w", err)
	}
	return nil
}

// IncrementSwapCounters увеличивает счетчики обменов и возвращает новое
// значение completed_swaps (для проверки вехи)
func (s *Store) IncrementSwapCounters(ctx context.Context, id uuid.UUID) (int, error) {
	var completed int
	err := s.pool.QueryRow(ctx, `
        UPDATE users SET total_swaps = total_swaps + 1, completed_swaps = completed_swaps + 1, updated_at = NOW()
        WHERE id = $1
        RETURNING completed_swaps
    `, id).Scan(&completed)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("ошибка обновления счетчиков обменов: %w", err)
	}
	return completed, nil
}

// IncrementReferralCount атомарно увеличивает счетчик приглашений
func (s *Store) IncrementReferralCount(ctx context.Context, referrerID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
        UPDATE users SET referral_count = referral_count + 1, updated_at = NOW()
        WHERE id = $1
    `, referrerID)
	if err != nil {
		return fmt.Errorf("ошибка обновления счетчика приглашений: %w", err)
	}
	return nil
}

// UpdateLoginActivity сохраняет серию входов и время последнего входа
func (s *Store) UpdateLoginActivity(ctx context.Context, id uuid.UUID, streak int, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
        UPDATE users SET login_streak = $2, last_login_at = $3, updated_at = NOW()
        WHERE id = $1
    `, id, streak, at)
	if err != nil {
		return fmt.Errorf("ошибка обновления активности: %w", err)
	}
	return nil
}

// GetPublicUser возвращает краткую информацию о пользователе для вложения в
// ответы API
func (s *Store) GetPublicUser(ctx context.Context, id uuid.UUID) (*models.PublicUser, error) {
	var u models.PublicUser
	err := s.pool.QueryRow(ctx, `
        SELECT id, first_name, last_name, avatar_url, level FROM users WHERE id = $1
    `, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.AvatarURL, &u.Level)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя: %w", err)
	}
	return &u, nil
}

// LeaderboardEntry представляет строку таблицы лидеров
type LeaderboardEntry struct {
	User           models.PublicUser `json:"user"`
	Level          int               `json:"level"`
	XP             int               `json:"xp"`
	Skillcoins     int               `json:"skillcoins"`
	CompletedSwaps int               `json:"completed_swaps"`
}

// ListLeaderboard возвращает топ активных пользователей по выбранной метрике
func (s *Store) ListLeaderboard(ctx context.Context, sortBy string, limit int) ([]LeaderboardEntry, error) {
	var orderBy string
	switch sortBy {
	case "skillcoins":
		orderBy = "skillcoins DESC"
	case "swaps":
		orderBy = "completed_swaps DESC"
	default:
		orderBy = "level DESC, xp DESC"
	}

	rows, err := s.pool.Query(ctx, `
        SELECT id, first_name, last_name, avatar_url, level, xp, skillcoins, completed_swaps
        FROM users
        WHERE is_active = true
        ORDER BY `+orderBy+`
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса таблицы лидеров: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.User.ID, &e.User.FirstName, &e.User.LastName, &e.User.AvatarURL,
			&e.Level, &e.XP, &e.Skillcoins, &e.CompletedSwaps); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		e.User.Level = e.Level
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReferredUser представляет приглашенного пользователя в статистике рефералов
type ReferredUser struct {
	Name           string    `json:"name"`
	JoinedAt       time.Time `json:"joined_at"`
	CompletedSwaps int       `json:"completed_swaps"`
}

// ListReferredUsers возвращает пользователей, приглашенных данным пользователем
func (s *Store) ListReferredUsers(ctx context.Context, referrerID uuid.UUID) ([]ReferredUser, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT first_name || ' ' || last_name, created_at, completed_swaps
        FROM users
        WHERE referred_by = $1
        ORDER BY created_at DESC
    `, referrerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса приглашенных: %w", err)
	}
	defer rows.Close()

	var referred []ReferredUser
	for rows.Next() {
		var r ReferredUser
		if err := rows.Scan(&r.Name, &r.JoinedAt, &r.CompletedSwaps); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		referred = append(referred, r)
	}
	return referred, rows.Err()
}
