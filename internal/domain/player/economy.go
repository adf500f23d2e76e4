package player

import (
	"strings"

	"github.com/alem-hub/petquest/internal/domain/pet"
	"github.com/alem-hub/petquest/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SHOP
// ══════════════════════════════════════════════════════════════════════════════

// Purchase buys the species named by selector. The selector may be a catalog
// key or a case-insensitive species name. Checks run in order: selector,
// balance, capacity. On rejection the record is left untouched.
func (r *Record) Purchase(catalog *pet.Catalog, selector string) (pet.Species, error) {
	if strings.TrimSpace(selector) == "" {
		return pet.Species{}, shared.ErrPurchaseSelector
	}

	key, ok := catalog.Resolve(selector)
	if !ok {
		return pet.Species{}, shared.ErrPetUnknown
	}
	species, _ := catalog.Get(key)

	if r.XP < pet.Price {
		return pet.Species{}, shared.ErrNotEnoughXP
	}
	if !r.HasRoom() {
		return pet.Species{}, shared.ErrNoRoomForPet
	}

	r.XP -= pet.Price
	r.Pets = append(r.Pets, PetEntry{
		Kind: species.Key.String(),
		Name: species.Name,
	})

	return species, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// NAMING
// ══════════════════════════════════════════════════════════════════════════════

// RenamePet gives the first owned pet of the given kind a new display name.
// kind must be a canonical key; names are not resolved here.
func (r *Record) RenamePet(kind, newName string) (PetEntry, error) {
	idx := r.petIndex(kind)
	if idx < 0 {
		return PetEntry{}, shared.ErrRenameNotOwned
	}
	if newName == "" {
		return PetEntry{}, shared.ErrRenameEmptyName
	}

	r.Pets[idx].Name = newName
	return r.Pets[idx], nil
}

func (r *Record) petIndex(kind string) int {
	for i, p := range r.Pets {
		if p.Kind == kind {
			return i
		}
	}
	return -1
}
