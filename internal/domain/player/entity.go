// Package player contains the user progression record and the rules that
// mutate it: XP accrual, level-up resolution, pet purchase, pet rename and
// legacy data migration. Nothing here performs I/O.
package player

import (
	"time"

	"github.com/alem-hub/petquest/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE RULES
// ══════════════════════════════════════════════════════════════════════════════

// LevelThreshold is the XP needed to advance from level lvl.
func LevelThreshold(lvl int) int {
	return lvl * 10
}

// Capacity is the maximum number of pets a user may own at level lvl.
func Capacity(lvl int) int {
	return 2 + lvl/10
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// The JSON keys are the historical on-disk names and must not change.
// ══════════════════════════════════════════════════════════════════════════════

// PetEntry is one owned pet.
type PetEntry struct {
	// Kind is the species key. Legacy records may hold a species name instead
	// until Normalize rewrites it.
	Kind string `json:"art"`

	// Name is the display name chosen by the user.
	Name string `json:"name"`
}

// Record is the persisted progression state of one user.
type Record struct {
	XP               int        `json:"xp"`
	Level            int        `json:"lvl"`
	LastActive       string     `json:"last_active"`
	Pets             []PetEntry `json:"tiere"`
	LastMessageTime  string     `json:"last_message_time"`
	DailyGreetedDate string     `json:"daily_greeted_date"`
}

// NewRecord returns the default record for a first-time user.
func NewRecord() *Record {
	return &Record{
		XP:    0,
		Level: 1,
		Pets:  []PetEntry{},
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Pets = make([]PetEntry, len(r.Pets))
	copy(c.Pets, r.Pets)
	return &c
}

// Capacity returns how many pets the record may hold at its current level.
func (r *Record) Capacity() int {
	return Capacity(r.Level)
}

// HasRoom reports whether another pet fits into the inventory.
func (r *Record) HasRoom() bool {
	return len(r.Pets) < r.Capacity()
}

// GreetedOn reports whether the daily bonus was already granted on the date of now.
func (r *Record) GreetedOn(now time.Time) bool {
	return r.DailyGreetedDate == timeutil.FormatDateStr(now)
}

// Valid checks the record invariants that hold after every engine operation.
func (r *Record) Valid() bool {
	return r.Level >= 1 &&
		r.XP >= 0 &&
		r.XP < LevelThreshold(r.Level) &&
		len(r.Pets) <= r.Capacity()
}

// ══════════════════════════════════════════════════════════════════════════════
// COLLECTION
// ══════════════════════════════════════════════════════════════════════════════

// Records is the full persisted collection keyed by user identifier.
type Records map[string]*Record

// GetOrNew returns the record for userID, or a default record that is not yet
// part of the collection.
func (rs Records) GetOrNew(userID string) (*Record, bool) {
	if r, ok := rs[userID]; ok && r != nil {
		return r, true
	}
	return NewRecord(), false
}

// Clone deep-copies the collection.
func (rs Records) Clone() Records {
	out := make(Records, len(rs))
	for id, r := range rs {
		out[id] = r.Clone()
	}
	return out
}
