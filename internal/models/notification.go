package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Типы уведомлений
const (
	NotifySwapRequest   = "swap_request"
	NotifySwapAccepted  = "swap_accepted"
	NotifySwapRejected  = "swap_rejected"
	NotifySwapScheduled = "swap_scheduled"
	NotifySwapCancelled = "swap_cancelled"
	NotifySwapCompleted = "swap_completed"
	NotifyReferralBonus = "referral_bonus"
	NotifyLevelUp       = "level_up"
)

// Notification представляет уведомление пользователя
type Notification struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	EntityRef string          `json:"entity_ref,omitempty"` // Например "swap:<uuid>"
	ActionURL string          `json:"action_url,omitempty"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}
