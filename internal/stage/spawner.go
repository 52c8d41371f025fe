package stage

import (
	"math/rand"

	"github.com/l1jgo/stagespawn/internal/core/event"
	"github.com/l1jgo/stagespawn/internal/data"
	"github.com/l1jgo/stagespawn/internal/director"
	"go.uber.org/zap"
)

// MaxPlacementAttempts bounds the tries spent on one desired placement.
const MaxPlacementAttempts = 10

// Phase names an unbudgeted spawn pass.
type Phase string

const (
	PhaseEarly Phase = "early"
	PhaseLate  Phase = "late"
)

// Placer is the host placement facility the spawner drives.
type Placer interface {
	TrySpawn(card *data.DirectorCard, rule director.PlacementRule, rng *rand.Rand) director.Placed
	CardIsValid(card *data.DirectorCard) bool
	ScaleCost(base int) int
}

// Purchasable is implemented by placed objects that carry a price tag.
type Purchasable interface {
	CostType() data.CostType
	BaseCost() int
	SetNetworkCost(cost int)
}

// UnbudgetedMarker is implemented by placed objects that record whether
// they were spawned outside the credit budget.
type UnbudgetedMarker interface {
	MarkUnbudgeted()
}

// PhaseReport counts what one RunPhase call did.
type PhaseReport struct {
	Phase     Phase
	Requested int // desired placements of valid entries
	Placed    int
	Abandoned int // desired placements that exhausted every attempt
	Skipped   int // entries with no card or an invalid card
	Attempts  int // TrySpawn calls issued
}

// Summary converts the report into its event form.
func (r PhaseReport) Summary() event.PhaseSummary {
	return event.PhaseSummary{
		Phase:     string(r.Phase),
		Requested: r.Requested,
		Placed:    r.Placed,
		Abandoned: r.Abandoned,
		Skipped:   r.Skipped,
		Attempts:  r.Attempts,
	}
}

// Spawner places Early/Late entries outside the stage's credit budget.
type Spawner struct {
	log *zap.Logger
}

func NewSpawner(log *zap.Logger) *Spawner {
	return &Spawner{log: log}
}

// RunPhase places every entry Limit times, best effort, in order.
func (sp *Spawner) RunPhase(phase Phase, entries []CardSpawnEntry, placer Placer, rng *rand.Rand) PhaseReport {
	rep := PhaseReport{Phase: phase}
	if len(entries) == 0 {
		return rep
	}
	sp.log.Info("populating unbudgeted cards",
		zap.String("phase", string(phase)),
		zap.Int("entries", len(entries)),
	)

	rule := director.PlacementRule{Mode: director.PlacementRandom}
	for _, entry := range entries {
		if entry.Card == nil || !placer.CardIsValid(entry.Card) {
			rep.Skipped++
			continue
		}
		for n := 0; n < entry.Limit; n++ {
			rep.Requested++
			if sp.place(entry.Card, rule, placer, rng, &rep) {
				rep.Placed++
			} else {
				rep.Abandoned++
				sp.log.Debug("no location found for unbudgeted card",
					zap.String("phase", string(phase)),
					zap.String("card", entry.Card.Name()),
				)
			}
		}
	}
	return rep
}

func (sp *Spawner) place(card *data.DirectorCard, rule director.PlacementRule, placer Placer, rng *rand.Rand, rep *PhaseReport) bool {
	for i := 0; i < MaxPlacementAttempts; i++ {
		rep.Attempts++
		obj := placer.TrySpawn(card, rule, rng)
		if obj == nil {
			continue
		}
		if p, ok := obj.(Purchasable); ok && p.CostType() == data.CostMoney {
			p.SetNetworkCost(placer.ScaleCost(p.BaseCost()))
		}
		if m, ok := obj.(UnbudgetedMarker); ok {
			m.MarkUnbudgeted()
		}
		return true
	}
	return false
}
