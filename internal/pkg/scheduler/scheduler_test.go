package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextFire(t *testing.T) {
	job := NewDailyJob("test", 2, 30, nil)
	loc := time.UTC

	t.Run("Before todays slot fires today", func(t *testing.T) {
		now := time.Date(2026, 3, 10, 1, 0, 0, 0, loc)
		next := job.nextFire(now)
		assert.Equal(t, time.Date(2026, 3, 10, 2, 30, 0, 0, loc), next)
	})

	t.Run("After todays slot fires tomorrow", func(t *testing.T) {
		now := time.Date(2026, 3, 10, 3, 0, 0, 0, loc)
		next := job.nextFire(now)
		assert.Equal(t, time.Date(2026, 3, 11, 2, 30, 0, 0, loc), next)
	})

	t.Run("Exactly at slot fires tomorrow", func(t *testing.T) {
		now := time.Date(2026, 3, 10, 2, 30, 0, 0, loc)
		next := job.nextFire(now)
		assert.Equal(t, time.Date(2026, 3, 11, 2, 30, 0, 0, loc), next)
	})
}
