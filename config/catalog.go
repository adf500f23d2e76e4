package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alem-hub/petquest/internal/domain/pet"
)

// catalogFile is the YAML layout of a shop override:
//
//	species:
//	  - key: "🐍"
//	    name: Schlange
//	    emoji: "🐍"
type catalogFile struct {
	Species []struct {
		Key   string `yaml:"key"`
		Name  string `yaml:"name"`
		Emoji string `yaml:"emoji"`
	} `yaml:"species"`
}

// LoadCatalog builds the shop catalog. An empty path returns the built-in one.
func LoadCatalog(path string) (*pet.Catalog, error) {
	if path == "" {
		return pet.DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (*pet.Catalog, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	species := make([]pet.Species, 0, len(doc.Species))
	for _, s := range doc.Species {
		species = append(species, pet.Species{
			Key:   pet.Key(s.Key),
			Name:  s.Name,
			Emoji: s.Emoji,
		})
	}
	return pet.NewCatalog(species)
}
