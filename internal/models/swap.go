package models

import (
	"time"

	"github.com/google/uuid"
)

// SwapStatus представляет статус обмена в его жизненном цикле
type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapScheduled SwapStatus = "scheduled"
	SwapActive    SwapStatus = "active"
	SwapCompleted SwapStatus = "completed"
	SwapCancelled SwapStatus = "cancelled"
)

// IsTerminal сообщает, является ли статус конечным
func (s SwapStatus) IsTerminal() bool {
	return s == SwapCompleted || s == SwapRejected || s == SwapCancelled
}

// IsValid проверяет, что статус входит в множество допустимых
func (s SwapStatus) IsValid() bool {
	switch s {
	case SwapPending, SwapAccepted, SwapRejected, SwapScheduled, SwapActive, SwapCompleted, SwapCancelled:
		return true
	}
	return false
}

// Swap представляет соглашение об обмене навыками между двумя пользователями
type Swap struct {
	ID             uuid.UUID  `json:"id"`
	RequesterID    uuid.UUID  `json:"requester_id"`
	RecipientID    uuid.UUID  `json:"recipient_id"`
	SkillOffered   string     `json:"skill_offered"`
	SkillRequested string     `json:"skill_requested"`
	Description    string     `json:"description,omitempty"`
	Status         SwapStatus `json:"status"`

	// Планирование с автозавершением
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	AutoExpireAt  *time.Time `json:"auto_expire_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	Duration string `json:"duration"` // Например "1 hour", "45 minutes"

	// Награды в скиллкоинах
	SkillcoinsEarned  int     `json:"skillcoins_earned"`
	BonusMultiplier   float64 `json:"bonus_multiplier"`
	SkillcoinsAwarded bool    `json:"skillcoins_awarded"` // Защита от повторного начисления

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Дополнительные поля для API
	Requester *PublicUser `json:"requester,omitempty"`
	Recipient *PublicUser `json:"recipient,omitempty"`
}

// OtherParticipant возвращает ID второго участника обмена
func (s *Swap) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if s.RequesterID == userID {
		return s.RecipientID
	}
	return s.RequesterID
}

// IsParticipant проверяет, что пользователь является участником обмена
func (s *Swap) IsParticipant(userID uuid.UUID) bool {
	return s.RequesterID == userID || s.RecipientID == userID
}

// TotalReward вычисляет итоговую награду за обмен с учетом множителя
func (s *Swap) TotalReward() int {
	base := s.SkillcoinsEarned
	if base <= 0 {
		base = 50
	}
	bonus := int(float64(base) * (s.BonusMultiplier - 1))
	if bonus < 0 {
		bonus = 0
	}
	return base + bonus
}
