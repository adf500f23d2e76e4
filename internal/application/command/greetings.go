package command

import (
	"strconv"
	"strings"

	"github.com/alem-hub/petquest/pkg/random"
)

// DefaultGreetings are the daily flavor lines. {name} is the user's display
// name and {xp} the total XP gained by the event, day bonus included.
var DefaultGreetings = []string{
	"🌞 {name} startet in den Tag mit Stil! (+{xp} XP)",
	"🎉 {name} schleicht sich als erster rein – wie ein echter Profi! (+{xp} XP)",
	"🦸‍♂️ {name} ist der Held des Tages! (+{xp} XP)",
	"💡 {name} bringt als erster Licht ins Dunkel! (+{xp} XP)",
	"🥐 {name} ist vor dem Croissant beim Bäcker da! (+{xp} XP)",
}

// Greeter picks and renders a daily greeting.
type Greeter struct {
	templates []string
	picker    random.Picker
}

// NewGreeter creates a Greeter. An empty template list falls back to
// DefaultGreetings.
func NewGreeter(picker random.Picker, templates ...string) *Greeter {
	if len(templates) == 0 {
		templates = DefaultGreetings
	}
	return &Greeter{
		templates: append([]string(nil), templates...),
		picker:    picker,
	}
}

// Greet renders a uniformly chosen template for name and xp.
func (g *Greeter) Greet(name string, xp int) string {
	tpl := g.templates[g.picker.Intn(len(g.templates))]
	return strings.NewReplacer(
		"{name}", name,
		"{xp}", strconv.Itoa(xp),
	).Replace(tpl)
}
