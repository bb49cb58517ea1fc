package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock подменяет источник времени; nil возвращает системные часы
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now возвращает текущее время источника в UTC
func Now() time.Time {
	return clock.Now().UTC()
}
