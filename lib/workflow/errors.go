package workflow

import "github.com/pkg/errors"

// Ошибки процесса согласования. Проверяются через errors.Is,
// текст показывается пользователю как есть.
var (
	ErrInvalidTransition      = errors.New("переход недопустим из текущего статуса")
	ErrAlreadySigned          = errors.New("подпись этой стороны уже поставлена")
	ErrWrongStatus            = errors.New("подписание недоступно в текущем статусе")
	ErrUnauthorized           = errors.New("недостаточно прав для выполнения операции")
	ErrConcurrentModification = errors.New("запись изменена параллельной операцией, обновите данные и повторите")
	ErrValidationFailure      = errors.New("данные не прошли проверку")
)
