package telegram

import (
	"strings"
	"unicode"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMMAND PARSING
// Chat text becomes a closed set of command kinds. The first token after the
// prefix is looked up in a table; everything that does not start with the
// prefix is plain activity.
// ══════════════════════════════════════════════════════════════════════════════

// Kind enumerates the operations the chat surface can trigger.
type Kind int

const (
	// KindActivity is any non-command message; it earns XP.
	KindActivity Kind = iota
	KindHelp
	KindStats
	KindShop
	KindBuy
	KindRename
	// KindUnknown is a prefixed message whose command is not in the table.
	KindUnknown
)

var kindNames = [...]string{
	KindActivity: "activity",
	KindHelp:     "help",
	KindStats:    "xp",
	KindShop:     "shop",
	KindBuy:      "buy",
	KindRename:   "rename",
	KindUnknown:  "unknown",
}

// String returns the metric and log label of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// commandTable maps lowercased command words to kinds. German aliases are the
// bot's historical command names.
var commandTable = map[string]Kind{
	"help":    KindHelp,
	"hilfe":   KindHelp,
	"xp":      KindStats,
	"shop":    KindShop,
	"buy":     KindBuy,
	"kauf":    KindBuy,
	"rename":  KindRename,
	"benenne": KindRename,
}

// Command is one parsed chat message.
type Command struct {
	Kind Kind

	// Word is the lowercased command word as typed ("kauf", "buy").
	Word string

	// Selector is the first argument of buy and rename.
	Selector string

	// Name is the new pet name of rename. Inner spacing is kept.
	Name string

	// Usage is true when a buy or rename lacks required arguments.
	Usage bool
}

// Parser turns chat text into commands.
type Parser struct {
	prefix string
}

// NewParser creates a parser for the given command prefix. An empty prefix
// falls back to "!".
func NewParser(prefix string) *Parser {
	if prefix == "" {
		prefix = "!"
	}
	return &Parser{prefix: prefix}
}

// Prefix returns the command marker.
func (p *Parser) Prefix() string {
	return p.prefix
}

// Parse classifies text. Matching of the command word is case-insensitive;
// arguments keep their case.
func (p *Parser) Parse(text string) Command {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, p.prefix) {
		return Command{Kind: KindActivity}
	}

	body := strings.TrimPrefix(text, p.prefix)
	word, rest := cutToken(body)
	word = strings.ToLower(word)

	kind, ok := commandTable[word]
	if !ok {
		return Command{Kind: KindUnknown, Word: word}
	}

	cmd := Command{Kind: kind, Word: word}
	switch kind {
	case KindBuy:
		cmd.Selector, _ = cutToken(rest)
		cmd.Usage = cmd.Selector == ""
	case KindRename:
		cmd.Selector, rest = cutToken(rest)
		cmd.Name = strings.TrimSpace(rest)
		cmd.Usage = cmd.Selector == "" || cmd.Name == ""
	}
	return cmd
}

// cutToken splits s at the first run of whitespace after its leading token.
func cutToken(s string) (token, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}
