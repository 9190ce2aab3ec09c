package swaps

import "errors"

// Ошибки жизненного цикла обмена
var (
	ErrSelfSwap          = errors.New("нельзя предложить обмен самому себе")
	ErrNotParticipant    = errors.New("пользователь не является участником обмена")
	ErrInvalidSchedule   = errors.New("дата сессии должна быть в будущем")
	ErrInvalidStatus     = errors.New("недопустимый статус обмена")
	ErrInvalidTransition = errors.New("недопустимый переход статуса")
	ErrMissingSkills     = errors.New("необходимо указать предлагаемый и запрашиваемый навыки")
)
