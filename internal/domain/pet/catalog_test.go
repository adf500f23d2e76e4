package pet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	require.Equal(t, 4, c.Len())
	all := c.All()
	assert.Equal(t, Key("🐍"), all[0].Key)
	assert.Equal(t, "Hund", all[3].Name)
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c := DefaultCatalog()
	all := c.All()
	all[0].Name = "mutated"

	s, ok := c.Get("🐍")
	require.True(t, ok)
	assert.Equal(t, "Schlange", s.Name)
}

func TestCatalog_Resolve(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		selector string
		want     Key
		ok       bool
	}{
		{"🐺", "🐺", true},
		{"wolf", "🐺", true},
		{"KATZE", "🐱", true},
		{"  hund ", "🐶", true},
		{"🦄", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, ok := c.Resolve(tt.selector)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_Icon(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, "🐍", c.Icon("🐍"))
	assert.Equal(t, "🐶", c.Icon("Hund"))
	assert.Equal(t, UnknownIcon, c.Icon("drache"))
}

func TestNewCatalog_Validation(t *testing.T) {
	_, err := NewCatalog(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = NewCatalog([]Species{{Key: "🐍", Name: ""}})
	assert.ErrorIs(t, err, ErrInvalidSpecies)

	_, err = NewCatalog([]Species{{Key: "🐍", Name: "A"}, {Key: "🐍", Name: "B"}})
	assert.ErrorIs(t, err, ErrDuplicateSpecies)

	_, err = NewCatalog([]Species{{Key: "🐍", Name: "Snake"}, {Key: "🐢", Name: "snake"}})
	assert.ErrorIs(t, err, ErrDuplicateSpecies)

	c, err := NewCatalog([]Species{{Key: "🐢", Name: "Turtle"}})
	require.NoError(t, err)
	s, _ := c.Get("🐢")
	assert.Equal(t, "🐢", s.Emoji)
}
