package engine

import "errors"

var (
	// ErrReentrantTick - Advance вызван, пока предыдущий тик не закончился.
	// Это ошибка драйвера, повторять вызов бессмысленно.
	ErrReentrantTick = errors.New("reentrant tick")

	// ErrTickInProgress - чтение снимка или изменение реестра во время тика.
	ErrTickInProgress = errors.New("tick in progress")
)
