package stage

import (
	"math/rand"
	"testing"

	"github.com/l1jgo/stagespawn/internal/data"
	"github.com/l1jgo/stagespawn/internal/director"
	"go.uber.org/zap/zaptest"
)

func TestRunPhaseRetryBound(t *testing.T) {
	tbl, _ := loadTestStage(t)
	card := &data.DirectorCard{Spawn: tbl.Card("Chest1"), Cost: 15}
	p := &scriptedPlacer{alwaysFail: true}

	rep := NewSpawner(zaptest.NewLogger(t)).RunPhase(PhaseEarly, []CardSpawnEntry{{Card: card, Limit: 3}}, p, rand.New(rand.NewSource(1)))

	if p.calls != 3*MaxPlacementAttempts {
		t.Fatalf("TrySpawn calls = %d, want %d", p.calls, 3*MaxPlacementAttempts)
	}
	if rep.Requested != 3 || rep.Abandoned != 3 || rep.Placed != 0 || rep.Attempts != p.calls {
		t.Fatalf("report = %+v", rep)
	}
}

func TestRunPhaseStopsAtFirstSuccess(t *testing.T) {
	tbl, _ := loadTestStage(t)
	card := &data.DirectorCard{Spawn: tbl.Card("Chest1"), Cost: 15}
	p := &scriptedPlacer{failFirst: 4}

	rep := NewSpawner(zaptest.NewLogger(t)).RunPhase(PhaseLate, []CardSpawnEntry{{Card: card, Limit: 2}}, p, rand.New(rand.NewSource(1)))

	// 4 failures + success for the first placement, immediate success for the second
	if p.calls != 6 || rep.Placed != 2 || rep.Abandoned != 0 {
		t.Fatalf("calls=%d report=%+v", p.calls, rep)
	}
}

func TestRunPhaseSkipsMissingAndInvalidCards(t *testing.T) {
	tbl, _ := loadTestStage(t)
	p := &scriptedPlacer{invalid: map[string]bool{"Chest2": true}}
	entries := []CardSpawnEntry{
		{Card: nil, Limit: 5},
		{Card: &data.DirectorCard{}, Limit: 5},
		{Card: &data.DirectorCard{Spawn: tbl.Card("Chest2")}, Limit: 5},
		{Card: &data.DirectorCard{Spawn: tbl.Card("Chest1")}, Limit: 1},
		{Card: &data.DirectorCard{Spawn: tbl.Card("Chest1")}, Limit: 0},
	}

	rep := NewSpawner(zaptest.NewLogger(t)).RunPhase(PhaseEarly, entries, p, rand.New(rand.NewSource(1)))

	if rep.Skipped != 3 || rep.Requested != 1 || rep.Placed != 1 || p.calls != 1 {
		t.Fatalf("calls=%d report=%+v", p.calls, rep)
	}
}

func TestRunPhaseScalesMoneyCostOnly(t *testing.T) {
	tbl, _ := loadTestStage(t)
	p := &scriptedPlacer{}
	entries := []CardSpawnEntry{
		{Card: &data.DirectorCard{Spawn: tbl.Card("Chest1")}, Limit: 1},
		{Card: &data.DirectorCard{Spawn: tbl.Card("Barrel1")}, Limit: 1},
	}

	NewSpawner(zaptest.NewLogger(t)).RunPhase(PhaseEarly, entries, p, rand.New(rand.NewSource(1)))

	if len(p.placed) != 2 {
		t.Fatalf("placed %d, want 2", len(p.placed))
	}
	chest, barrel := p.placed[0], p.placed[1]
	if chest.Purchase.NetworkCost != 75 {
		t.Errorf("chest network cost = %d, want 75", chest.Purchase.NetworkCost)
	}
	if !chest.Unbudgeted || !barrel.Unbudgeted {
		t.Error("unbudgeted spawns not flagged")
	}
	if barrel.Purchase != nil {
		t.Error("free interactable got a price tag")
	}
}

func TestRunPhaseEmpty(t *testing.T) {
	p := &scriptedPlacer{}
	rep := NewSpawner(zaptest.NewLogger(t)).RunPhase(PhaseLate, nil, p, rand.New(rand.NewSource(1)))
	if rep != (PhaseReport{Phase: PhaseLate}) || p.calls != 0 {
		t.Fatalf("report = %+v calls=%d", rep, p.calls)
	}
}

// crate is a placed object that is not a director interactable.
type crate struct {
	id         int32
	unbudgeted bool
}

func (c *crate) PlacedID() int32 { return c.id }
func (c *crate) MarkUnbudgeted() { c.unbudgeted = true }

type cratePlacer struct {
	scriptedPlacer
	crates []*crate
}

func (p *cratePlacer) TrySpawn(*data.DirectorCard, director.PlacementRule, *rand.Rand) director.Placed {
	c := &crate{id: int32(len(p.crates) + 1)}
	p.crates = append(p.crates, c)
	return c
}

func TestRunPhaseMarksAnyUnbudgetedMarker(t *testing.T) {
	tbl, _ := loadTestStage(t)
	p := &cratePlacer{}
	entries := []CardSpawnEntry{{Card: &data.DirectorCard{Spawn: tbl.Card("Chest1")}, Limit: 2}}

	rep := NewSpawner(zaptest.NewLogger(t)).RunPhase(PhaseEarly, entries, p, rand.New(rand.NewSource(1)))

	if rep.Placed != 2 || len(p.crates) != 2 {
		t.Fatalf("report = %+v crates=%d", rep, len(p.crates))
	}
	for _, c := range p.crates {
		if !c.unbudgeted {
			t.Fatalf("crate %d not marked unbudgeted", c.id)
		}
	}
}
