package player

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/petquest/internal/domain/pet"
	"github.com/alem-hub/petquest/internal/domain/shared"
)

var (
	day1 = time.Date(2024, time.May, 1, 9, 15, 0, 0, time.UTC)
	day2 = day1.Add(24 * time.Hour)
)

func TestRules(t *testing.T) {
	assert.Equal(t, 10, LevelThreshold(1))
	assert.Equal(t, 2, Capacity(1))
	assert.Equal(t, 2, Capacity(9))
	assert.Equal(t, 3, Capacity(10))
	assert.Equal(t, 4, Capacity(25))
	assert.Equal(t, 6, DailyBonus(3))
	assert.Equal(t, 3, ActivityXP(2))
}

func TestNewRecord_Defaults(t *testing.T) {
	r := NewRecord()
	assert.Equal(t, 0, r.XP)
	assert.Equal(t, 1, r.Level)
	assert.Empty(t, r.Pets)
	assert.NotNil(t, r.Pets)
	assert.True(t, r.Valid())
}

func TestRecord_LegacyJSONShape(t *testing.T) {
	raw := `{"xp":4,"lvl":2,"last_active":"2024-05-01","last_message_time":"2024-05-01 09:15:00",
		"daily_greeted_date":"2024-05-01","tiere":[{"art":"🐍","name":"Sir Hiss"}]}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, 4, r.XP)
	assert.Equal(t, 2, r.Level)
	assert.Equal(t, []PetEntry{{Kind: "🐍", Name: "Sir Hiss"}}, r.Pets)

	out, err := json.Marshal(NewRecord())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"tiere":[]`)
	assert.Contains(t, string(out), `"lvl":1`)
}

func TestRecord_Clone_IsDeep(t *testing.T) {
	r := NewRecord()
	r.Pets = append(r.Pets, PetEntry{Kind: "🐺", Name: "Wolf"})

	c := r.Clone()
	c.Pets[0].Name = "Changed"
	c.XP = 99

	assert.Equal(t, "Wolf", r.Pets[0].Name)
	assert.Equal(t, 0, r.XP)
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION
// ══════════════════════════════════════════════════════════════════════════════

func TestNormalize_RewritesLegacyNames(t *testing.T) {
	catalog := pet.DefaultCatalog()
	r := &Record{Level: 2, Pets: []PetEntry{
		{Kind: "schlange", Name: "Kaa"},
		{Kind: "🐺", Name: "Wolf"},
		{Kind: "HUND", Name: "Rex"},
	}}

	assert.True(t, Normalize(r, catalog))
	assert.Equal(t, "🐍", r.Pets[0].Kind)
	assert.Equal(t, "🐺", r.Pets[1].Kind)
	assert.Equal(t, "🐶", r.Pets[2].Kind)
	assert.Equal(t, "Kaa", r.Pets[0].Name)

	snapshot := r.Clone()
	assert.False(t, Normalize(r, catalog), "second pass must be a no-op")
	assert.Equal(t, snapshot, r)
}

func TestNormalize_LeavesUnknownKinds(t *testing.T) {
	r := &Record{Level: 1, Pets: []PetEntry{{Kind: "dragon", Name: "Smaug"}}}

	assert.False(t, Normalize(r, pet.DefaultCatalog()))
	assert.Equal(t, "dragon", r.Pets[0].Kind)
}

func TestNormalize_LiftsMissingLevel(t *testing.T) {
	r := &Record{}

	assert.True(t, Normalize(r, pet.DefaultCatalog()))
	assert.Equal(t, 1, r.Level)
	assert.NotNil(t, r.Pets)
	assert.False(t, Normalize(r, pet.DefaultCatalog()))
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESSION
// ══════════════════════════════════════════════════════════════════════════════

func TestAccrue_FirstActivityOfDay(t *testing.T) {
	r := NewRecord()

	a := r.Accrue(day1)

	assert.True(t, a.NewDay)
	assert.Equal(t, 3, a.XPGained) // 1 base + 2 day bonus
	assert.Equal(t, 3, r.XP)
	assert.Equal(t, "2024-05-01", r.DailyGreetedDate)
	assert.Equal(t, "2024-05-01", r.LastActive)
	assert.Equal(t, "2024-05-01 09:15:00", r.LastMessageTime)
	assert.False(t, a.LeveledUp())
}

func TestAccrue_BonusOncePerDay(t *testing.T) {
	r := NewRecord()

	first := r.Accrue(day1)
	second := r.Accrue(day1.Add(time.Hour))
	third := r.Accrue(day1.Add(2 * time.Hour))

	assert.True(t, first.NewDay)
	assert.False(t, second.NewDay)
	assert.False(t, third.NewDay)
	assert.Equal(t, 1, second.XPGained)
	assert.Equal(t, "2024-05-01", r.DailyGreetedDate)

	next := r.Accrue(day2)
	assert.True(t, next.NewDay)
	assert.Equal(t, "2024-05-02", r.DailyGreetedDate)
}

func TestAccrue_PetsIncreaseBaseXP(t *testing.T) {
	r := NewRecord()
	r.DailyGreetedDate = "2024-05-01"
	r.Pets = []PetEntry{{Kind: "🐍", Name: "a"}, {Kind: "🐺", Name: "b"}}

	a := r.Accrue(day1)
	assert.Equal(t, 3, a.XPGained)
}

func TestAccrue_LevelUpCarriesRemainder(t *testing.T) {
	r := &Record{XP: 28, Level: 3, Pets: []PetEntry{{Kind: "🐶", Name: "Hund"}}}

	a := r.Accrue(day1)

	assert.Equal(t, 8, a.XPGained) // 1 base + 1 pet + 6 day bonus
	assert.Equal(t, 1, a.LevelUps)
	assert.Equal(t, 4, r.Level)
	assert.Equal(t, 6, r.XP)
	assert.True(t, r.Valid())
}

func TestAccrue_ResolvesSeveralLevels(t *testing.T) {
	// A legacy record holding more XP than its threshold crosses 10 then 20.
	r := &Record{XP: 33, Level: 1, Pets: []PetEntry{}}

	a := r.Accrue(day1)

	assert.Equal(t, 2, a.LevelUps)
	assert.Equal(t, 3, a.Level)
	assert.Equal(t, 3, r.Level)
	assert.Equal(t, 6, r.XP) // 33 + 3 - 10 - 20
	assert.True(t, r.Valid())
}

func TestAccrue_InvariantHoldsOverManyEvents(t *testing.T) {
	r := NewRecord()
	now := day1
	for i := 0; i < 500; i++ {
		r.Accrue(now)
		require.True(t, r.XP >= 0 && r.XP < LevelThreshold(r.Level), "iteration %d: %+v", i, r)
		now = now.Add(5 * time.Hour)
	}
	assert.Greater(t, r.Level, 1)
}

func TestResolveLevelUps_GuardsZeroLevel(t *testing.T) {
	r := &Record{XP: 15}
	assert.Equal(t, 1, r.ResolveLevelUps())
	assert.Equal(t, 2, r.Level)
	assert.Equal(t, 5, r.XP)
}

// ══════════════════════════════════════════════════════════════════════════════
// ECONOMY
// ══════════════════════════════════════════════════════════════════════════════

func TestPurchase(t *testing.T) {
	catalog := pet.DefaultCatalog()

	tests := []struct {
		name     string
		record   *Record
		selector string
		wantErr  error
		wantKey  pet.Key
		wantXP   int
		wantPets int
	}{
		{
			name:     "exact balance by key",
			record:   &Record{XP: 30, Level: 1, Pets: []PetEntry{}},
			selector: "🐍",
			wantKey:  "🐍",
			wantXP:   0,
			wantPets: 1,
		},
		{
			name:     "name is case-insensitive",
			record:   &Record{XP: 45, Level: 5, Pets: []PetEntry{}},
			selector: "kAtZe",
			wantKey:  "🐱",
			wantXP:   15,
			wantPets: 1,
		},
		{
			name:     "one short",
			record:   &Record{XP: 29, Level: 3, Pets: []PetEntry{}},
			selector: "Wolf",
			wantErr:  shared.ErrInsufficientXP,
			wantXP:   29,
		},
		{
			name:     "unknown species",
			record:   &Record{XP: 99, Level: 10, Pets: []PetEntry{}},
			selector: "dragon",
			wantErr:  shared.ErrUnknownPet,
			wantXP:   99,
		},
		{
			name:     "unknown wins over balance",
			record:   &Record{XP: 0, Level: 1, Pets: []PetEntry{}},
			selector: "dragon",
			wantErr:  shared.ErrUnknownPet,
		},
		{
			name: "inventory full",
			record: &Record{XP: 50, Level: 9, Pets: []PetEntry{
				{Kind: "🐍", Name: "a"}, {Kind: "🐺", Name: "b"},
			}},
			selector: "Hund",
			wantErr:  shared.ErrInventoryFull,
			wantXP:   50,
			wantPets: 2,
		},
		{
			name:     "empty selector",
			record:   &Record{XP: 50, Level: 1, Pets: []PetEntry{}},
			selector: "  ",
			wantErr:  shared.ErrInvalidInput,
			wantXP:   50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			species, err := tt.record.Purchase(catalog, tt.selector)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, shared.IsRejection(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantKey, species.Key)
				last := tt.record.Pets[len(tt.record.Pets)-1]
				assert.Equal(t, tt.wantKey.String(), last.Kind)
				assert.Equal(t, species.Name, last.Name)
			}
			assert.Equal(t, tt.wantXP, tt.record.XP)
			assert.Len(t, tt.record.Pets, tt.wantPets)
		})
	}
}

func TestPurchase_NeverExceedsCapacity(t *testing.T) {
	catalog := pet.DefaultCatalog()
	r := &Record{XP: 0, Level: 1, Pets: []PetEntry{}}

	for i := 0; i < 10; i++ {
		r.XP += 30
		_, _ = r.Purchase(catalog, "Wolf")
		require.LessOrEqual(t, len(r.Pets), r.Capacity())
	}
	assert.Len(t, r.Pets, 2)
}

// ══════════════════════════════════════════════════════════════════════════════
// NAMING
// ══════════════════════════════════════════════════════════════════════════════

func TestRenamePet_FirstMatchOnly(t *testing.T) {
	r := &Record{Level: 20, Pets: []PetEntry{
		{Kind: "🐺", Name: "Wolf"},
		{Kind: "🐍", Name: "Schlange"},
		{Kind: "🐍", Name: "Schlange"},
	}}

	entry, err := r.RenamePet("🐍", "Lady Kaa")

	require.NoError(t, err)
	assert.Equal(t, PetEntry{Kind: "🐍", Name: "Lady Kaa"}, entry)
	assert.Equal(t, "Lady Kaa", r.Pets[1].Name)
	assert.Equal(t, "Schlange", r.Pets[2].Name)
}

func TestRenamePet_NotOwned(t *testing.T) {
	r := &Record{Level: 1, Pets: []PetEntry{{Kind: "🐺", Name: "Wolf"}}}
	before := r.Clone()

	_, err := r.RenamePet("🐱", "Tom")

	assert.ErrorIs(t, err, shared.ErrPetNotOwned)
	assert.Equal(t, before, r)
}

func TestRenamePet_NameIsNotASelector(t *testing.T) {
	r := &Record{Level: 1, Pets: []PetEntry{{Kind: "🐺", Name: "Wolf"}}}

	_, err := r.RenamePet("Wolf", "Fenrir")
	assert.ErrorIs(t, err, shared.ErrPetNotOwned)
}

func TestRenamePet_EmptyName(t *testing.T) {
	r := &Record{Level: 1, Pets: []PetEntry{{Kind: "🐺", Name: "Wolf"}}}

	_, err := r.RenamePet("🐺", "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, "Wolf", r.Pets[0].Name)
}

func TestRecords_GetOrNew(t *testing.T) {
	rs := Records{"42": {XP: 5, Level: 2, Pets: []PetEntry{}}}

	r, found := rs.GetOrNew("42")
	assert.True(t, found)
	assert.Equal(t, 5, r.XP)

	r, found = rs.GetOrNew("7")
	assert.False(t, found)
	assert.Equal(t, 1, r.Level)
	assert.NotContains(t, rs, "7")
}
