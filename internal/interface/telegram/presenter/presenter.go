// Package presenter formats engine results for Telegram display.
// Presenters are pure: they turn already-loaded state and handler results
// into reply text and never touch the store.
package presenter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alem-hub/petquest/internal/application/command"
	"github.com/alem-hub/petquest/internal/application/query"
	"github.com/alem-hub/petquest/internal/domain/pet"
	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/internal/domain/shared"
)

// DefaultPrefix is the marker that turns a chat message into a command.
const DefaultPrefix = "!"

// ══════════════════════════════════════════════════════════════════════════════
// PRESENTER
// ══════════════════════════════════════════════════════════════════════════════

// Presenter renders replies in one locale.
type Presenter struct {
	catalog *pet.Catalog
	locale  Locale
	prefix  string
}

// New creates a Presenter. An empty prefix falls back to DefaultPrefix.
func New(catalog *pet.Catalog, locale Locale, prefix string) *Presenter {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Presenter{
		catalog: catalog,
		locale:  locale,
		prefix:  prefix,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// STATIC TEXTS
// ─────────────────────────────────────────────────────────────────────────────

// Help renders the command reference.
func (p *Presenter) Help() string {
	var sb strings.Builder
	sb.WriteString(p.locale.HelpTitle)
	for _, line := range p.locale.HelpLines {
		sb.WriteString("\n")
		sb.WriteString(p.prefix)
		sb.WriteString(line.Command)
		if line.Args != "" {
			sb.WriteString(" ")
			sb.WriteString(line.Args)
		}
		sb.WriteString(" – ")
		sb.WriteString(line.Description)
	}
	return sb.String()
}

// BuyUsage is the reply to a buy command without a selector.
func (p *Presenter) BuyUsage() string {
	return p.usage(p.locale.BuyUsage)
}

// RenameUsage is the reply to a rename command with fewer than two arguments.
func (p *Presenter) RenameUsage() string {
	return p.usage(p.locale.RenameUsage)
}

// Unknown is the reply to an unrecognized command.
func (p *Presenter) Unknown() string {
	return p.locale.UnknownCommand
}

// StorageFailure is the reply when the record store is unavailable.
func (p *Presenter) StorageFailure() string {
	return p.locale.StorageFailure
}

// RateLimited is the reply to a throttled command.
func (p *Presenter) RateLimited() string {
	return p.locale.RateLimited
}

// Internal is the reply after a recovered panic.
func (p *Presenter) Internal() string {
	return p.locale.Internal
}

// usage fills {p} with the command prefix and {emoji}/{name} with the first
// catalog species, so the example always resolves in the shop.
func (p *Presenter) usage(s string) string {
	example := p.catalog.All()[0]
	return strings.NewReplacer(
		"{p}", p.prefix,
		"{emoji}", string(example.Key),
		"{name}", strings.ToLower(example.Name),
	).Replace(s)
}

// ─────────────────────────────────────────────────────────────────────────────
// STATS & SHOP
// ─────────────────────────────────────────────────────────────────────────────

// Stats renders level, XP and inventory for name.
func (p *Presenter) Stats(name string, stats *query.StatsDTO) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(p.locale.StatsFmt, name, stats.Level, stats.XP))
	sb.WriteString("\n")
	sb.WriteString(p.locale.PetsLabel)
	sb.WriteString(": ")
	sb.WriteString(p.Inventory(stats.Pets))
	return sb.String()
}

// Inventory renders pets as "emoji name" pairs in acquisition order.
func (p *Presenter) Inventory(pets []player.PetEntry) string {
	if len(pets) == 0 {
		return p.locale.NoPets
	}
	parts := make([]string, 0, len(pets))
	for _, entry := range pets {
		parts = append(parts, p.catalog.Icon(entry.Kind)+" "+entry.Name)
	}
	return strings.Join(parts, ", ")
}

// Shop lists the catalog with the fixed price.
func (p *Presenter) Shop() string {
	var sb strings.Builder
	sb.WriteString(p.locale.ShopTitle)
	for _, s := range p.catalog.All() {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf(p.locale.ShopLineFmt, s.Emoji, s.Name, pet.Price))
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// ENGINE RESULTS
// ─────────────────────────────────────────────────────────────────────────────

// Activity renders the notification for an activity event. The bool is false
// when the event earned XP silently and nothing should be sent.
func (p *Presenter) Activity(name string, result *command.AccrueActivityResult) (string, bool) {
	if result == nil || !result.HasNotification() {
		return "", false
	}

	lines := make([]string, 0, 2)
	if result.Greeting != "" {
		lines = append(lines, result.Greeting)
	}
	if result.Accrual.LeveledUp() {
		lines = append(lines, fmt.Sprintf(p.locale.LevelUpFmt, name, result.Accrual.Level))
	}
	return strings.Join(lines, "\n"), true
}

// Purchase renders a purchase confirmation or its rejection.
func (p *Presenter) Purchase(result *command.PurchasePetResult) string {
	if !result.Succeeded() {
		return p.Rejection(result.Rejection)
	}
	return fmt.Sprintf(p.locale.PurchasedFmt, result.Species.Emoji, result.Species.Name)
}

// Rename renders a rename confirmation or its rejection.
func (p *Presenter) Rename(result *command.RenamePetResult) string {
	if !result.Succeeded() {
		return p.Rejection(result.Rejection)
	}
	return fmt.Sprintf(p.locale.RenamedFmt, p.catalog.Icon(result.Pet.Kind), result.Pet.Name)
}

// Rejection maps a business rejection to its reply text.
func (p *Presenter) Rejection(err error) string {
	switch {
	case errors.Is(err, shared.ErrPurchaseSelector):
		return p.BuyUsage()
	case errors.Is(err, shared.ErrRenameEmptyName):
		return p.RenameUsage()
	case errors.Is(err, shared.ErrUnknownPet):
		return p.locale.UnknownPet
	case errors.Is(err, shared.ErrInsufficientXP):
		return p.locale.NotEnoughXP
	case errors.Is(err, shared.ErrInventoryFull):
		return p.locale.InventoryFull
	case errors.Is(err, shared.ErrPetNotOwned):
		return p.locale.NotOwned
	default:
		return p.locale.Internal
	}
}
