package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParser_Parse(t *testing.T) {
	p := NewParser("!")

	tests := []struct {
		name string
		text string
		want Command
	}{
		{"plain text", "hallo zusammen", Command{Kind: KindActivity}},
		{"empty", "   ", Command{Kind: KindActivity}},
		{"prefix inside", "wow!xp", Command{Kind: KindActivity}},
		{"help", "!help", Command{Kind: KindHelp, Word: "help"}},
		{"help alias upper", "!HILFE", Command{Kind: KindHelp, Word: "hilfe"}},
		{"help ignores args", "!hilfe bitte", Command{Kind: KindHelp, Word: "hilfe"}},
		{"stats", "  !Xp ", Command{Kind: KindStats, Word: "xp"}},
		{"shop", "!shop", Command{Kind: KindShop, Word: "shop"}},
		{"buy by name", "!kauf Schlange", Command{Kind: KindBuy, Word: "kauf", Selector: "Schlange"}},
		{"buy by key", "!buy 🐍", Command{Kind: KindBuy, Word: "buy", Selector: "🐍"}},
		{"buy takes first token", "!kauf wolf bitte", Command{Kind: KindBuy, Word: "kauf", Selector: "wolf"}},
		{"buy missing", "!kauf", Command{Kind: KindBuy, Word: "kauf", Usage: true}},
		{"buy missing spaces", "!buy    ", Command{Kind: KindBuy, Word: "buy", Usage: true}},
		{"rename", "!benenne 🐍 Kaa", Command{Kind: KindRename, Word: "benenne", Selector: "🐍", Name: "Kaa"}},
		{"rename with spaces", "!rename 🐱 Frau  Mimi von Katz", Command{Kind: KindRename, Word: "rename", Selector: "🐱", Name: "Frau  Mimi von Katz"}},
		{"rename missing name", "!benenne 🐍", Command{Kind: KindRename, Word: "benenne", Selector: "🐍", Usage: true}},
		{"rename missing all", "!benenne", Command{Kind: KindRename, Word: "benenne", Usage: true}},
		{"unknown", "!tanz", Command{Kind: KindUnknown, Word: "tanz"}},
		{"bare prefix", "!", Command{Kind: KindUnknown}},
		{"no prefix match on substring", "!kaufen 🐍", Command{Kind: KindUnknown, Word: "kaufen"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.text))
		})
	}
}

func TestParser_CustomPrefix(t *testing.T) {
	p := NewParser("/")
	assert.Equal(t, "/", p.Prefix())
	assert.Equal(t, KindShop, p.Parse("/shop").Kind)
	assert.Equal(t, KindActivity, p.Parse("!shop").Kind)

	assert.Equal(t, "!", NewParser("").Prefix())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "activity", KindActivity.String())
	assert.Equal(t, "xp", KindStats.String())
	assert.Equal(t, "rename", KindRename.String())
	assert.Equal(t, "invalid", Kind(99).String())
}
