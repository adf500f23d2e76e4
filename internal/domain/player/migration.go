package player

import "github.com/alem-hub/petquest/internal/domain/pet"

// Normalize rewrites legacy pet entries into canonical form and reports whether
// anything changed. An entry whose kind is not a catalog key but matches a
// species name (case-insensitive) gets that species' key. Older records
// without a level are lifted to level 1. Applying Normalize twice is a no-op
// the second time.
func Normalize(r *Record, catalog *pet.Catalog) bool {
	changed := false

	if r.Level < 1 {
		r.Level = 1
		changed = true
	}
	if r.Pets == nil {
		r.Pets = []PetEntry{}
	}

	for i := range r.Pets {
		kind := r.Pets[i].Kind
		if catalog.Has(pet.Key(kind)) {
			continue
		}
		if key, ok := catalog.KeyForName(kind); ok {
			r.Pets[i].Kind = key.String()
			changed = true
		}
	}

	return changed
}
