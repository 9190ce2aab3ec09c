package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType представляет тип операции со скиллкоинами
type TransactionType string

const (
	TransactionEarn     TransactionType = "earn"
	TransactionSpend    TransactionType = "spend"
	TransactionBonus    TransactionType = "bonus"
	TransactionReferral TransactionType = "referral"
)

// Источники транзакций
const (
	SourceSwap      = "swap"
	SourceActivity  = "activity"
	SourceReferral  = "referral"
	SourceBonus     = "bonus"
	SourceMilestone = "milestone"
)

// Transaction представляет запись в журнале операций со скиллкоинами.
// Записи неизменяемы: после создания никогда не обновляются и не удаляются.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Type        TransactionType `json:"type"`
	Amount      int             `json:"amount"`
	Description string          `json:"description"`
	SourceType  string          `json:"source_type,omitempty"`
	SourceID    *uuid.UUID      `json:"source_id,omitempty"`
	Balance     int             `json:"balance"` // Баланс сразу после применения операции
	CreatedAt   time.Time       `json:"created_at"`
}
