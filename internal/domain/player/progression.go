package player

import (
	"time"

	"github.com/alem-hub/petquest/pkg/timeutil"
)

// DailyBonus is the extra XP granted on the first activity of a day.
func DailyBonus(lvl int) int {
	return lvl * 2
}

// ActivityXP is the XP earned by one activity event before any day bonus.
func ActivityXP(petCount int) int {
	return 1 + petCount
}

// Accrual describes what one activity event did to a record.
type Accrual struct {
	// XPGained is the total XP added, day bonus included.
	XPGained int

	// NewDay is true when this was the first activity of the calendar day
	// and the day bonus was granted.
	NewDay bool

	// LevelUps is the number of levels gained.
	LevelUps int

	// Level is the level after resolution.
	Level int
}

// LeveledUp reports whether at least one level was gained.
func (a Accrual) LeveledUp() bool {
	return a.LevelUps > 0
}

// Accrue applies one activity event at now. The calendar day of now, in its
// own location, decides whether the day bonus is due.
func (r *Record) Accrue(now time.Time) Accrual {
	today := timeutil.FormatDateStr(now)

	gain := ActivityXP(len(r.Pets))
	newDay := r.DailyGreetedDate != today
	if newDay {
		r.DailyGreetedDate = today
		gain += DailyBonus(r.Level)
	}

	r.XP += gain
	r.LastActive = today
	r.LastMessageTime = timeutil.FormatDateTimeStr(now)

	ups := r.ResolveLevelUps()

	return Accrual{
		XPGained: gain,
		NewDay:   newDay,
		LevelUps: ups,
		Level:    r.Level,
	}
}

// ResolveLevelUps converts carried-over XP into levels until xp is below the
// current threshold and returns the number of levels gained.
func (r *Record) ResolveLevelUps() int {
	if r.Level < 1 {
		r.Level = 1
	}
	if r.XP < 0 {
		r.XP = 0
	}

	ups := 0
	for r.XP >= LevelThreshold(r.Level) {
		r.XP -= LevelThreshold(r.Level)
		r.Level++
		ups++
	}
	return ups
}
