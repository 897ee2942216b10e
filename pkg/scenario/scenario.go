// Package scenario provides the immutable catalog of practice scenarios:
// their card metadata, the system instruction sent to the model, and the
// opening trigger used to make the assistant speak first.
package scenario

import (
	"fmt"
	"math/rand/v2"
)

// FreeID is the id of the free conversation scenario. Its system prompt is
// the fallback for unknown scenario ids.
const FreeID = "free"

// OpeningKind tags the variant held by an Opening.
type OpeningKind int

const (
	// OpeningStatic sends Text verbatim.
	OpeningStatic OpeningKind = iota

	// OpeningRandomTopic picks one of Topics and renders it into Template.
	OpeningRandomTopic
)

// Opening is the synthetic first user turn that elicits the opening line.
type Opening struct {
	Kind     OpeningKind
	Text     string
	Topics   []string
	Template string
}

// Render returns the trigger text. r picks the topic for OpeningRandomTopic;
// a nil r uses the package-level source.
func (o Opening) Render(r *rand.Rand) string {
	switch o.Kind {
	case OpeningRandomTopic:
		if len(o.Topics) == 0 {
			return o.Text
		}
		var i int
		if r != nil {
			i = r.IntN(len(o.Topics))
		} else {
			i = rand.IntN(len(o.Topics))
		}
		return fmt.Sprintf(o.Template, o.Topics[i])
	default:
		return o.Text
	}
}

// Empty reports whether the opening produces no trigger at all.
func (o Opening) Empty() bool {
	return o.Kind == OpeningStatic && o.Text == ""
}

// Scenario is one entry of the catalog.
type Scenario struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Emoji        string  `json:"emoji"`
	Description  string  `json:"description"`
	Color        string  `json:"color"`
	AccentColor  string  `json:"accent_color"`
	SystemPrompt string  `json:"-"`
	Opening      Opening `json:"-"`
}

// Definition is the declarative form of a roleplay scenario. The system
// prompt is composed from it once, when the catalog is built.
type Definition struct {
	ID                 string   `toml:"id"`
	Label              string   `toml:"label"`
	Emoji              string   `toml:"emoji"`
	Description        string   `toml:"description"`
	Color              string   `toml:"color"`
	AccentColor        string   `toml:"accent_color"`
	Role               string   `toml:"role"`
	Situations         []string `toml:"situations"`
	OpeningInstruction string   `toml:"opening_instruction"`
}

// Scenario builds the catalog entry for d.
func (d Definition) Scenario() Scenario {
	return Scenario{
		ID:           d.ID,
		Label:        d.Label,
		Emoji:        d.Emoji,
		Description:  d.Description,
		Color:        d.Color,
		AccentColor:  d.AccentColor,
		SystemPrompt: roleplayPrompt(d.Role, d.Situations, d.OpeningInstruction),
		Opening:      Opening{Kind: OpeningStatic, Text: roleplayTrigger},
	}
}

// Catalog is an immutable, ordered set of scenarios keyed by id.
type Catalog struct {
	order []string
	byID  map[string]Scenario
}

// NewCatalog builds a catalog. Later entries with a duplicate id replace
// earlier ones in place.
func NewCatalog(scenarios ...Scenario) *Catalog {
	c := &Catalog{byID: make(map[string]Scenario, len(scenarios))}
	for _, s := range scenarios {
		if _, ok := c.byID[s.ID]; !ok {
			c.order = append(c.order, s.ID)
		}
		c.byID[s.ID] = s
	}
	return c
}

// Get looks a scenario up by id.
func (c *Catalog) Get(id string) (Scenario, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Resolve returns the scenario for id, or the first catalog entry when id
// is unknown.
func (c *Catalog) Resolve(id string) Scenario {
	if s, ok := c.byID[id]; ok {
		return s
	}
	if len(c.order) == 0 {
		return Scenario{}
	}
	return c.byID[c.order[0]]
}

// SystemPrompt returns the system instruction for id, falling back to the
// free conversation prompt.
func (c *Catalog) SystemPrompt(id string) string {
	if s, ok := c.byID[id]; ok {
		return s.SystemPrompt
	}
	if s, ok := c.byID[FreeID]; ok {
		return s.SystemPrompt
	}
	return freeSystemPrompt
}

// All returns the scenarios in catalog order.
func (c *Catalog) All() []Scenario {
	out := make([]Scenario, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len returns the number of scenarios.
func (c *Catalog) Len() int {
	return len(c.order)
}
