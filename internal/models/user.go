package models

import (
	"time"

	"github.com/google/uuid"
)

// User представляет пользователя платформы обмена навыками
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Никогда не сериализуется в ответах API
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Location     string    `json:"location,omitempty"`

	// Экономика: скиллкоины зарабатываются только активностью
	Skillcoins int `json:"skillcoins"`

	// Прогрессия
	XP    int `json:"xp"`
	Level int `json:"level"`

	// Активность
	LoginStreak int        `json:"login_streak"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// Счетчики обменов
	TotalSwaps     int `json:"total_swaps"`
	CompletedSwaps int `json:"completed_swaps"`

	// Реферальная система
	ReferralCode  string     `json:"referral_code"`
	ReferredBy    *uuid.UUID `json:"referred_by,omitempty"`
	ReferralCount int        `json:"referral_count"`

	// Навыки
	SkillsToTeach []Skill `json:"skills_to_teach"`
	SkillsToLearn []Skill `json:"skills_to_learn"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Skill представляет навык пользователя (преподаваемый или изучаемый)
type Skill struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Category        string `json:"category"`
	ExperienceLevel string `json:"experience_level"` // beginner, intermediate, advanced, expert
}

// PublicUser представляет минимальную информацию о пользователе для API
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Level     int       `json:"level,omitempty"`
}
