package db

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store реализует интерфейсы хранилища для доменных пакетов
// (rewards, swaps, notifications) поверх пула pgx
type Store struct {
	pool *pgxpool.Pool
}

// NewStore создает новый экземпляр Store поверх глобального пула
func NewStore() *Store {
	return &Store{pool: Pool}
}
