package models

import "errors"

// Общие доменные ошибки, возвращаемые хранилищем и бизнес-логикой
var (
	ErrNotFound          = errors.New("запись не найдена")
	ErrInsufficientFunds = errors.New("недостаточно скиллкоинов")
)
