package engine

import "time"

// Config хранит параметры запуска драйвера симуляции.
type Config struct {
	// TickRate - период фиксированного шага. Детерминизм от него не зависит:
	// он определяет только, как часто вызывается Advance.
	TickRate time.Duration

	// MaxTicks - остановиться после N тиков (0 - без ограничения).
	MaxTicks uint64

	// StopWhenDone - остановиться, когда волны закончились и ходячих не осталось.
	StopWhenDone bool
}

// NewConfig создает конфиг по умолчанию (10 тиков в секунду).
func NewConfig() Config {
	return Config{
		TickRate: 100 * time.Millisecond,
	}
}
