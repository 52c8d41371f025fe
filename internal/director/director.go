package director

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/l1jgo/stagespawn/internal/data"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// spawnAttempts bounds placement tries per budgeted card.
const spawnAttempts = 10

// PlacementMode selects how TrySpawn picks an anchor.
type PlacementMode int

const (
	PlacementRandom PlacementMode = iota // any free anchor
	PlacementDirect                      // exactly Rule.Anchor
)

func (m PlacementMode) String() string {
	switch m {
	case PlacementRandom:
		return "Random"
	case PlacementDirect:
		return "Direct"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// PlacementRule describes where a spawn should land.
type PlacementRule struct {
	Mode   PlacementMode
	Anchor data.Anchor // PlacementDirect only
}

// Hooks are the interception points fired during Populate, in order.
type Hooks interface {
	OnPrePopulate(d *SceneDirector)
	OnAfterPlayerPlacement(d *SceneDirector)
	OnBeforeLateCredit(d *SceneDirector)
	OnPostPopulate(d *SceneDirector)
}

// NopHooks ignores every interception point.
type NopHooks struct{}

func (NopHooks) OnPrePopulate(*SceneDirector)          {}
func (NopHooks) OnAfterPlayerPlacement(*SceneDirector) {}
func (NopHooks) OnBeforeLateCredit(*SceneDirector)     {}
func (NopHooks) OnPostPopulate(*SceneDirector)         {}

// Options tune a SceneDirector.
type Options struct {
	Seed                  int64
	DifficultyCoefficient float64
}

// PopulationResult summarizes one Populate call.
type PopulationResult struct {
	Budgeted    int // interactables placed by the budgeted pass
	CreditSpent int
	PlayerSpawn data.Anchor
	Placed      []*Interactable // every placed interactable, in placement order
}

// SceneDirector owns one stage's population: anchors, occupancy,
// spend credit and the random stream. Single-goroutine access only.
type SceneDirector struct {
	stage      *StageInfo
	rng        *rand.Rand
	difficulty float64
	occupied   map[data.Anchor]*Interactable // nil value = reserved
	placed     []*Interactable
	log        *zap.Logger
}

// New creates a director for the given stage.
func New(stage *StageInfo, opts Options, log *zap.Logger) *SceneDirector {
	coeff := opts.DifficultyCoefficient
	if coeff <= 0 {
		coeff = 1
	}
	return &SceneDirector{
		stage:      stage,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		difficulty: coeff,
		occupied:   make(map[data.Anchor]*Interactable, len(stage.Def.Anchors)),
		log:        log.With(zap.String("stage", stage.Name())),
	}
}

// Stage returns the stage context being populated.
func (d *SceneDirector) Stage() *StageInfo { return d.stage }

// Rng returns the director's random stream.
func (d *SceneDirector) Rng() *rand.Rand { return d.rng }

// Placed returns every interactable placed so far.
func (d *SceneDirector) Placed() []*Interactable { return d.placed }

// FreeAnchors returns the number of anchors neither occupied nor reserved.
func (d *SceneDirector) FreeAnchors() int {
	return len(d.stage.Def.Anchors) - len(d.occupied)
}

// CurrentSelection returns the stage's installed interactable selection.
func (d *SceneDirector) CurrentSelection(stage *StageInfo) *Selection {
	return stage.InteractableSelection
}

// SetCurrentSelection installs sel as the stage's interactable selection.
func (d *SceneDirector) SetCurrentSelection(stage *StageInfo, sel *Selection) {
	stage.InteractableSelection = sel
}

// CardIsValid reports whether card may spawn under the current run state.
func (d *SceneDirector) CardIsValid(card *data.DirectorCard) bool {
	if card == nil || card.Spawn == nil {
		return false
	}
	if d.stage.StageClearCount < card.MinimumStageCompletions {
		return false
	}
	if card.RequiredUnlockable != "" && !d.stage.Unlocks[card.RequiredUnlockable] {
		return false
	}
	if card.ForbiddenUnlockable != "" && d.stage.Unlocks[card.ForbiddenUnlockable] {
		return false
	}
	return true
}

// ScaleCost applies the difficulty curve: floor(base × coefficient^1.25).
func (d *SceneDirector) ScaleCost(base int) int {
	factor := decimal.NewFromFloat(math.Pow(d.difficulty, 1.25))
	return int(decimal.NewFromInt(int64(base)).Mul(factor).Floor().IntPart())
}

// TrySpawn attempts one placement of card. Returns nil when no suitable
// anchor was found.
func (d *SceneDirector) TrySpawn(card *data.DirectorCard, rule PlacementRule, rng *rand.Rand) Placed {
	if card == nil || card.Spawn == nil {
		return nil
	}
	anchors := d.stage.Def.Anchors
	if len(anchors) == 0 {
		return nil
	}

	var at data.Anchor
	switch rule.Mode {
	case PlacementRandom:
		at = anchors[rng.Intn(len(anchors))]
	case PlacementDirect:
		at = rule.Anchor
		if !d.hasAnchor(at) {
			return nil
		}
	default:
		return nil
	}
	if _, taken := d.occupied[at]; taken {
		return nil
	}

	obj := &Interactable{
		ID:     NextInteractableID(),
		Card:   card,
		Anchor: at,
	}
	if card.Spawn.CostType != data.CostNone {
		obj.Purchase = &PurchaseInteraction{
			CostType:    card.Spawn.CostType,
			Cost:        card.Spawn.BaseCost,
			NetworkCost: card.Spawn.BaseCost,
		}
	}
	d.occupied[at] = obj
	d.placed = append(d.placed, obj)
	d.log.Debug("interactable placed",
		zap.String("card", card.Name()),
		zap.Int32("id", obj.ID),
		zap.Int32("x", at.X),
		zap.Int32("y", at.Y),
	)
	return obj
}

func (d *SceneDirector) hasAnchor(a data.Anchor) bool {
	for _, x := range d.stage.Def.Anchors {
		if x == a {
			return true
		}
	}
	return false
}

// Populate runs one population cycle, firing hooks at their interception
// points. A nil hooks behaves like NopHooks.
func (d *SceneDirector) Populate(hooks Hooks) PopulationResult {
	if hooks == nil {
		hooks = NopHooks{}
	}
	var res PopulationResult

	hooks.OnPrePopulate(d)

	res.PlayerSpawn = d.placePlayerSpawn()
	hooks.OnAfterPlayerPlacement(d)

	res.Budgeted, res.CreditSpent = d.populateInteractables()

	// monster credit is consumed by the combat director, not here
	d.stage.MonsterCredit = 0
	hooks.OnBeforeLateCredit(d)

	hooks.OnPostPopulate(d)

	res.Placed = d.placed
	d.log.Info("stage populated",
		zap.Int("budgeted", res.Budgeted),
		zap.Int("credit_spent", res.CreditSpent),
		zap.Int("total", len(d.placed)),
	)
	return res
}

// placePlayerSpawn reserves one random anchor for the player spawn point.
func (d *SceneDirector) placePlayerSpawn() data.Anchor {
	anchors := d.stage.Def.Anchors
	if len(anchors) == 0 {
		return data.Anchor{}
	}
	at := anchors[d.rng.Intn(len(anchors))]
	d.occupied[at] = nil
	return at
}

// populateInteractables spends the stage's interactable credit on cards
// drawn from the installed selection. Credit is spent whether or not
// the placement succeeds, so the loop always terminates.
func (d *SceneDirector) populateInteractables() (placed, spent int) {
	credit := d.stage.InteractableCredit
	for credit > 0 {
		card := d.selectCard(d.stage.InteractableSelection, credit)
		if card == nil {
			break
		}
		credit -= card.Cost
		spent += card.Cost
		for i := 0; i < spawnAttempts; i++ {
			obj := d.TrySpawn(card, PlacementRule{Mode: PlacementRandom}, d.rng)
			if obj == nil {
				continue
			}
			inter := obj.(*Interactable)
			if inter.CostType() == data.CostMoney {
				inter.SetNetworkCost(d.ScaleCost(inter.BaseCost()))
			}
			placed++
			break
		}
	}
	d.stage.InteractableCredit = credit
	return placed, spent
}

// selectCard draws among valid cards whose positive cost fits maxCost.
func (d *SceneDirector) selectCard(sel *Selection, maxCost int) *data.DirectorCard {
	if sel == nil {
		return nil
	}
	affordable := sel.Filter(func(c *data.DirectorCard) bool {
		return c != nil && c.Cost > 0 && c.Cost <= maxCost && d.CardIsValid(c)
	})
	card, ok := affordable.Draw(d.rng)
	if !ok {
		return nil
	}
	return card
}
