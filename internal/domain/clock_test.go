package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestSetClock(t *testing.T) {
	t.Run("fixed clock drives Now", func(t *testing.T) {
		fixed := time.Date(2017, 11, 15, 12, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(fixed))
		defer SetClock(nil)

		assert.Equal(t, fixed, Now())
	})

	t.Run("Now reports UTC", func(t *testing.T) {
		zone := time.FixedZone("MSK", 3*3600)
		fixed := time.Date(2017, 11, 15, 15, 0, 0, 0, zone)
		SetClock(clockwork.NewFakeClockAt(fixed))
		defer SetClock(nil)

		assert.Equal(t, time.UTC, Now().Location())
		assert.True(t, Now().Equal(fixed))
	})

	t.Run("reset to real clock", func(t *testing.T) {
		SetClock(clockwork.NewFakeClockAt(time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)))
		SetClock(nil)

		assert.True(t, time.Since(Now()) < time.Second)
	})
}
