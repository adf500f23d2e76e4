package presenter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/petquest/internal/application/command"
	"github.com/alem-hub/petquest/internal/application/query"
	"github.com/alem-hub/petquest/internal/domain/pet"
	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/internal/domain/shared"
)

func german() *Presenter {
	return New(pet.DefaultCatalog(), German(), "!")
}

func english() *Presenter {
	return New(pet.DefaultCatalog(), English(), "")
}

func TestHelp_German(t *testing.T) {
	want := "📜 *Befehlsübersicht*\n" +
		"!hilfe – Zeigt diese Hilfe\n" +
		"!xp – Zeigt dein Level und XP\n" +
		"!shop – Zeigt verfügbare Tiere\n" +
		"!kauf [Emoji|Name] – Kauft ein Tier\n" +
		"!benenne [Emoji] [NeuerName] – Benennt ein Haustier um"
	assert.Equal(t, want, german().Help())
}

func TestHelp_UsesConfiguredPrefix(t *testing.T) {
	p := New(pet.DefaultCatalog(), English(), "/")
	assert.Contains(t, p.Help(), "/buy [emoji|name] – Buys a pet")
	assert.Equal(t, "❌ Format: /rename 🐍 NewName", p.RenameUsage())
}

func TestBuyUsage_ExampleResolvesInCatalog(t *testing.T) {
	catalog := pet.DefaultCatalog()

	tests := []struct {
		name string
		p    *Presenter
		want string
	}{
		{"german", german(), "❌ Bitte gib ein Tier-Emoji oder Namen an. Beispiel: !kauf 🐍 oder !kauf schlange"},
		{"english", english(), "❌ Please name a pet emoji or name. Example: !buy 🐍 or !buy schlange"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.BuyUsage())

			_, ok := catalog.Resolve("schlange")
			assert.True(t, ok)
		})
	}
}

func TestBuyUsage_FollowsCustomCatalog(t *testing.T) {
	catalog, err := pet.NewCatalog([]pet.Species{
		{Key: "🦊", Name: "Fox"},
	})
	require.NoError(t, err)

	p := New(catalog, English(), "!")
	assert.Equal(t, "❌ Please name a pet emoji or name. Example: !buy 🦊 or !buy fox", p.BuyUsage())
	assert.Equal(t, "❌ Format: !rename 🦊 NewName", p.RenameUsage())

	_, ok := catalog.Resolve("fox")
	assert.True(t, ok)
}

func TestStats_ResolvesIcons(t *testing.T) {
	stats := &query.StatsDTO{
		Level: 3,
		XP:    12,
		Pets: []player.PetEntry{
			{Kind: "🐍", Name: "Kaa"},
			{Kind: "wolf", Name: "Grey"},
			{Kind: "dragon", Name: "Smaug"},
		},
	}

	got := german().Stats("Ada", stats)
	assert.Equal(t, "Ada ist Level 3 mit 12 XP.\nTiere: 🐍 Kaa, 🐺 Grey, ❓ Smaug", got)
}

func TestStats_EmptyInventory(t *testing.T) {
	stats := &query.StatsDTO{Level: 1}
	assert.Equal(t, "Ada is level 1 with 0 XP.\nPets: -", english().Stats("Ada", stats))
}

func TestShop_ListsCatalogWithPrice(t *testing.T) {
	got := german().Shop()
	want := "🛒 *Shop – Haustiere kaufen*\n" +
		"🐍 Schlange – 30 XP\n" +
		"🐺 Wolf – 30 XP\n" +
		"🐱 Katze – 30 XP\n" +
		"🐶 Hund – 30 XP"
	assert.Equal(t, want, got)
}

func TestActivity(t *testing.T) {
	p := english()

	t.Run("silent", func(t *testing.T) {
		_, ok := p.Activity("Ada", &command.AccrueActivityResult{
			Accrual: player.Accrual{XPGained: 1, Level: 1},
		})
		assert.False(t, ok)
	})

	t.Run("greeting and level up", func(t *testing.T) {
		text, ok := p.Activity("Ada", &command.AccrueActivityResult{
			Accrual:  player.Accrual{XPGained: 8, NewDay: true, LevelUps: 1, Level: 4},
			Greeting: "🌞 Ada starts the day in style! (+8 XP)",
		})
		require.True(t, ok)
		assert.Equal(t, "🌞 Ada starts the day in style! (+8 XP)\n✨ Ada: level up to level 4!", text)
	})

	t.Run("level up only", func(t *testing.T) {
		text, ok := german().Activity("Ada", &command.AccrueActivityResult{
			Accrual: player.Accrual{XPGained: 2, LevelUps: 1, Level: 2},
		})
		require.True(t, ok)
		assert.Equal(t, "✨ LEVEL UP! Ada ist jetzt Level 2!", text)
	})

	t.Run("nil result", func(t *testing.T) {
		_, ok := p.Activity("Ada", nil)
		assert.False(t, ok)
	})
}

func TestPurchase(t *testing.T) {
	snake, _ := pet.DefaultCatalog().Get("🐍")

	assert.Equal(t, "✅ 🐍 wurde zu deinem Inventar hinzugefügt!",
		german().Purchase(&command.PurchasePetResult{Species: snake}))
	assert.Equal(t, "✅ 🐍 Schlange was added to your inventory!",
		english().Purchase(&command.PurchasePetResult{Species: snake}))
	assert.Equal(t, "❌ Du hast nicht genug XP.",
		german().Purchase(&command.PurchasePetResult{Rejection: shared.ErrNotEnoughXP}))
}

func TestRename(t *testing.T) {
	ok := &command.RenamePetResult{Pet: player.PetEntry{Kind: "🐱", Name: "Mimi"}}
	assert.Equal(t, "✅ Dein 🐱 heißt jetzt *Mimi*.", german().Rename(ok))

	rejected := &command.RenamePetResult{Rejection: shared.ErrRenameNotOwned}
	assert.Equal(t, "❌ Du besitzt dieses Tier nicht.", german().Rename(rejected))
}

func TestRejection(t *testing.T) {
	p := german()
	tests := []struct {
		err  error
		want string
	}{
		{shared.ErrPetUnknown, "❌ Dieses Tier gibt es nicht."},
		{shared.ErrNotEnoughXP, "❌ Du hast nicht genug XP."},
		{shared.ErrNoRoomForPet, "❌ Du kannst aktuell nicht mehr Tiere halten."},
		{shared.ErrRenameNotOwned, "❌ Du besitzt dieses Tier nicht."},
		{shared.ErrPurchaseSelector, "❌ Bitte gib ein Tier-Emoji oder Namen an. Beispiel: !kauf 🐍 oder !kauf schlange"},
		{shared.ErrRenameEmptyName, "❌ Format: !benenne 🐍 NeuerName"},
		{errors.New("odd"), German().Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Rejection(tt.err), tt.err.Error())
	}
}

func TestLocaleFor(t *testing.T) {
	l, err := LocaleFor("")
	require.NoError(t, err)
	assert.Equal(t, "en", l.Tag)

	l, err = LocaleFor(" DE ")
	require.NoError(t, err)
	assert.Equal(t, "de", l.Tag)
	assert.Equal(t, command.DefaultGreetings, l.Greetings)

	_, err = LocaleFor("fr")
	assert.Error(t, err)
}
