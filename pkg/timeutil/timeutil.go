// Package timeutil provides the calendar the bot uses to decide what "today" is,
// plus the date and timestamp layouts persisted in user records.
package timeutil

import (
	"sync"
	"time"
)

// Persisted layouts. They match the historical data file.
const (
	// FormatDate is the calendar date layout (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatDateTimeSeconds is the message timestamp layout.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
)

// Clock returns the current time in the bot's calendar location.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock and converts it into Location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock creates a clock for the named IANA zone. Unknown zones fall back to UTC.
func NewSystemClock(zone string) SystemClock {
	return SystemClock{Location: LoadLocation(zone)}
}

// Now returns the current time in the clock's location.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant until moved. Safe for concurrent use.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock creates a FixedClock at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now returns the clock's current instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// LoadLocation resolves an IANA zone name, falling back to UTC.
func LoadLocation(zone string) *time.Location {
	if zone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatDateStr formats t as YYYY-MM-DD in t's own location.
func FormatDateStr(t time.Time) string {
	return t.Format(FormatDate)
}

// FormatDateTimeStr formats t as YYYY-MM-DD HH:MM:SS in t's own location.
func FormatDateTimeStr(t time.Time) string {
	return t.Format(FormatDateTimeSeconds)
}
