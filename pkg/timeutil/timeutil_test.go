package timeutil

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.UTC)

	assert.Equal(t, "2024-03-05", FormatDateStr(ts))
	assert.Equal(t, "2024-03-05 07:08:09", FormatDateTimeStr(ts))
}

func TestLoadLocation_FallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation(""))
	assert.Equal(t, time.UTC, LoadLocation("Not/AZone"))
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC)
	clock := NewFixedClock(start)
	assert.Equal(t, start, clock.Now())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, "2024-03-06", FormatDateStr(clock.Now()))
}

func TestSystemClock_UsesZone(t *testing.T) {
	clock := NewSystemClock("Asia/Tokyo")
	assert.Equal(t, "Asia/Tokyo", clock.Now().Location().String())
}
