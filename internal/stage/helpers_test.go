package stage

import (
	"math/rand"
	"testing"

	"github.com/l1jgo/stagespawn/internal/data"
	"github.com/l1jgo/stagespawn/internal/director"
	"go.uber.org/zap/zaptest"
)

const stageYAML = `
spawn_cards:
  - {name: Chest1, category: chests, cost_type: money, base_cost: 25}
  - {name: Chest2, category: chests, cost_type: money, base_cost: 50}
  - {name: ShrineChance, category: shrines, cost_type: money, base_cost: 17}
  - {name: Barrel1, category: misc}
stages:
  - name: golemplains
    interactable_credit: 60
    anchors:
      - {x: 0, y: 0}
      - {x: 1, y: 0}
      - {x: 2, y: 0}
      - {x: 3, y: 0}
      - {x: 4, y: 0}
      - {x: 5, y: 0}
      - {x: 6, y: 0}
      - {x: 7, y: 0}
    interactables:
      - {card: Chest1, cost: 15, weight: 24}
      - {card: Chest2, cost: 30, weight: 4}
      - {card: ShrineChance, cost: 20, weight: 6}
      - {card: Barrel1, cost: 1, weight: 10}
`

func loadTestStage(t *testing.T) (*data.StageTable, *director.StageInfo) {
	t.Helper()
	tbl, err := data.ParseStageTable([]byte(stageYAML))
	if err != nil {
		t.Fatalf("parse stage table: %v", err)
	}
	info, err := director.NewStageInfo(tbl, tbl.Stage("golemplains"), 0, nil)
	if err != nil {
		t.Fatalf("stage info: %v", err)
	}
	return tbl, info
}

func newTestDirector(t *testing.T, info *director.StageInfo) *director.SceneDirector {
	t.Helper()
	return director.New(info, director.Options{Seed: 7, DifficultyCoefficient: 2}, zaptest.NewLogger(t))
}

func sameCard(a, b *data.DirectorCard) bool { return a.Equal(b) }

// selectionHost is a Host that stores the selection in the stage context.
type selectionHost struct{}

func (selectionHost) CurrentSelection(stage *director.StageInfo) *director.Selection {
	return stage.InteractableSelection
}

func (selectionHost) SetCurrentSelection(stage *director.StageInfo, sel *director.Selection) {
	stage.InteractableSelection = sel
}

// scriptedPlacer fails a fixed number of TrySpawn calls before succeeding.
type scriptedPlacer struct {
	failFirst  int
	alwaysFail bool
	invalid    map[string]bool
	calls      int
	placed     []*director.Interactable
}

func (p *scriptedPlacer) TrySpawn(card *data.DirectorCard, rule director.PlacementRule, _ *rand.Rand) director.Placed {
	p.calls++
	if rule.Mode != director.PlacementRandom {
		return nil
	}
	if p.alwaysFail || p.calls <= p.failFirst {
		return nil
	}
	obj := &director.Interactable{ID: int32(p.calls), Card: card}
	if card.Spawn.CostType != data.CostNone {
		obj.Purchase = &director.PurchaseInteraction{
			CostType:    card.Spawn.CostType,
			Cost:        card.Spawn.BaseCost,
			NetworkCost: card.Spawn.BaseCost,
		}
	}
	p.placed = append(p.placed, obj)
	return obj
}

func (p *scriptedPlacer) CardIsValid(card *data.DirectorCard) bool {
	return card.Spawn != nil && !p.invalid[card.Name()]
}

func (p *scriptedPlacer) ScaleCost(base int) int { return base * 3 }
