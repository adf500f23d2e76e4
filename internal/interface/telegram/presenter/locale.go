package presenter

import (
	"fmt"
	"strings"

	"github.com/alem-hub/petquest/internal/application/command"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOCALES
// Every reply the bot sends comes from a Locale table. German carries the
// historical texts of the bot; English is the default.
// ══════════════════════════════════════════════════════════════════════════════

// Locale holds the reply texts for one language. Fields ending in Fmt are
// fmt templates; the argument order is documented per field.
type Locale struct {
	// Tag is the short language code ("en", "de").
	Tag string

	// HelpTitle is the first line of the command reference.
	HelpTitle string

	// HelpLines describe help, xp, shop, buy and rename in that order.
	HelpLines [5]HelpLine

	// StatsFmt: name, level, xp.
	StatsFmt string
	// PetsLabel prefixes the inventory line.
	PetsLabel string
	// NoPets is shown when the inventory is empty.
	NoPets string

	ShopTitle string
	// ShopLineFmt: emoji, name, price.
	ShopLineFmt string

	// LevelUpFmt: name, level.
	LevelUpFmt string

	// PurchasedFmt: emoji, species name.
	PurchasedFmt string
	// RenamedFmt: emoji, new name.
	RenamedFmt string

	UnknownPet    string
	NotEnoughXP   string
	InventoryFull string
	NotOwned      string

	// Usage texts take {p} (command prefix) and {emoji}/{name}, which are
	// filled from the first catalog species.
	BuyUsage    string
	RenameUsage string

	UnknownCommand string
	StorageFailure string
	RateLimited    string
	Internal       string

	// Greetings are the daily templates with {name} and {xp} placeholders.
	Greetings []string
}

// HelpLine is one entry of the command reference.
type HelpLine struct {
	Command     string
	Args        string
	Description string
}

// English returns the default locale.
func English() Locale {
	return Locale{
		Tag:       "en",
		HelpTitle: "📜 *Commands*",
		HelpLines: [5]HelpLine{
			{Command: "help", Description: "Shows this help"},
			{Command: "xp", Description: "Shows your level and XP"},
			{Command: "shop", Description: "Lists the pets for sale"},
			{Command: "buy", Args: "[emoji|name]", Description: "Buys a pet"},
			{Command: "rename", Args: "[emoji] [new name]", Description: "Renames one of your pets"},
		},
		StatsFmt:       "%s is level %d with %d XP.",
		PetsLabel:      "Pets",
		NoPets:         "-",
		ShopTitle:      "🛒 *Shop – buy a pet*",
		ShopLineFmt:    "%s %s – %d XP",
		LevelUpFmt:     "✨ %s: level up to level %d!",
		PurchasedFmt:   "✅ %s %s was added to your inventory!",
		RenamedFmt:     "✅ Your %s is now called *%s*.",
		UnknownPet:     "❌ There is no such pet.",
		NotEnoughXP:    "❌ Not enough XP for that pet.",
		InventoryFull:  "❌ You cannot keep any more pets right now.",
		NotOwned:       "❌ You do not own this pet.",
		BuyUsage:       "❌ Please name a pet emoji or name. Example: {p}buy {emoji} or {p}buy {name}",
		RenameUsage:    "❌ Format: {p}rename {emoji} NewName",
		UnknownCommand: "❓ Unknown command.",
		StorageFailure: "⚠️ Your data could not be saved right now. Please try again later.",
		RateLimited:    "⏳ Slow down a little and try again in a moment.",
		Internal:       "😔 Something went wrong. Please try again.",
		Greetings: []string{
			"🌞 {name} starts the day in style! (+{xp} XP)",
			"🎉 {name} sneaks in first, like a real pro! (+{xp} XP)",
			"🦸 {name} is the hero of the day! (+{xp} XP)",
			"💡 {name} is the first to bring light into the dark! (+{xp} XP)",
			"🥐 {name} beats the croissant to the bakery! (+{xp} XP)",
		},
	}
}

// German returns the locale with the bot's historical texts.
func German() Locale {
	return Locale{
		Tag:       "de",
		HelpTitle: "📜 *Befehlsübersicht*",
		HelpLines: [5]HelpLine{
			{Command: "hilfe", Description: "Zeigt diese Hilfe"},
			{Command: "xp", Description: "Zeigt dein Level und XP"},
			{Command: "shop", Description: "Zeigt verfügbare Tiere"},
			{Command: "kauf", Args: "[Emoji|Name]", Description: "Kauft ein Tier"},
			{Command: "benenne", Args: "[Emoji] [NeuerName]", Description: "Benennt ein Haustier um"},
		},
		StatsFmt:       "%s ist Level %d mit %d XP.",
		PetsLabel:      "Tiere",
		NoPets:         "-",
		ShopTitle:      "🛒 *Shop – Haustiere kaufen*",
		ShopLineFmt:    "%s %s – %d XP",
		LevelUpFmt:     "✨ LEVEL UP! %s ist jetzt Level %d!",
		PurchasedFmt:   "✅ %[1]s wurde zu deinem Inventar hinzugefügt!",
		RenamedFmt:     "✅ Dein %s heißt jetzt *%s*.",
		UnknownPet:     "❌ Dieses Tier gibt es nicht.",
		NotEnoughXP:    "❌ Du hast nicht genug XP.",
		InventoryFull:  "❌ Du kannst aktuell nicht mehr Tiere halten.",
		NotOwned:       "❌ Du besitzt dieses Tier nicht.",
		BuyUsage:       "❌ Bitte gib ein Tier-Emoji oder Namen an. Beispiel: {p}kauf {emoji} oder {p}kauf {name}",
		RenameUsage:    "❌ Format: {p}benenne {emoji} NeuerName",
		UnknownCommand: "❓ Unbekannter Befehl.",
		StorageFailure: "⚠️ Deine Daten konnten gerade nicht gespeichert werden. Bitte versuche es später erneut.",
		RateLimited:    "⏳ Nicht so schnell! Versuche es gleich noch einmal.",
		Internal:       "😔 Da ist etwas schiefgelaufen. Bitte versuche es erneut.",
		Greetings:      append([]string(nil), command.DefaultGreetings...),
	}
}

// LocaleFor returns the locale for a language tag. An empty tag means English.
func LocaleFor(tag string) (Locale, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "", "en":
		return English(), nil
	case "de":
		return German(), nil
	default:
		return Locale{}, fmt.Errorf("presenter: unsupported locale %q", tag)
	}
}
