package data

import "fmt"

// CostType is the currency an interactable charges.
type CostType int

const (
	CostNone CostType = iota
	CostMoney
	CostPercentHealth
	CostLunarCoin
)

func (c CostType) String() string {
	switch c {
	case CostNone:
		return "None"
	case CostMoney:
		return "Money"
	case CostPercentHealth:
		return "PercentHealth"
	case CostLunarCoin:
		return "LunarCoin"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// UnmarshalText lets YAML tables name cost types ("money", "lunar_coin").
func (c *CostType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "none":
		*c = CostNone
	case "money":
		*c = CostMoney
	case "percent_health":
		*c = CostPercentHealth
	case "lunar_coin":
		*c = CostLunarCoin
	default:
		return fmt.Errorf("unknown cost type %q", text)
	}
	return nil
}

// SpawnCard is the static template an interactable is built from.
// Shared by every DirectorCard that references it.
type SpawnCard struct {
	Name      string   `yaml:"name"`
	Category  string   `yaml:"category"` // chests, shrines, drones, misc...
	CostType  CostType `yaml:"cost_type"`
	BaseCost  int      `yaml:"base_cost"` // purchase price before difficulty scaling
	HullSize  int      `yaml:"hull_size"`
	Directive string   `yaml:"directive,omitempty"`
}

// DirectorCard is one spawn candidate of a stage's interactable selection.
type DirectorCard struct {
	Spawn                   *SpawnCard
	Cost                    int // director credit spent on placement
	SelectionWeight         int
	MinimumStageCompletions int
	RequiredUnlockable      string
	ForbiddenUnlockable     string
	PreventOverhead         bool
	SpawnDistance           int
}

// Name returns the spawn card name, or "" for an empty card.
func (c *DirectorCard) Name() string {
	if c == nil || c.Spawn == nil {
		return ""
	}
	return c.Spawn.Name
}

// Clone copies every field. The spawn card template stays shared.
func (c *DirectorCard) Clone() *DirectorCard {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Equal reports field-wise equality; spawn cards compare by identity.
func (c *DirectorCard) Equal(o *DirectorCard) bool {
	if c == nil || o == nil {
		return c == o
	}
	return *c == *o
}
