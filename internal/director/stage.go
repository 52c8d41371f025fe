package director

import (
	"fmt"

	"github.com/l1jgo/stagespawn/internal/data"
	"github.com/l1jgo/stagespawn/internal/selection"
)

// Selection is the weighted interactable pool a stage populates from.
type Selection = selection.Weighted[*data.DirectorCard]

// StageInfo is the per-stage context the director populates against.
// Accessed only from the population goroutine.
type StageInfo struct {
	Def                   *data.StageDef
	InteractableSelection *Selection
	InteractableCredit    int
	MonsterCredit         int
	StageClearCount       int
	Unlocks               map[string]bool
}

// Name returns the stage name.
func (s *StageInfo) Name() string {
	return s.Def.Name
}

// NewStageInfo builds a stage context from its definition. Cards are
// weighted by their selection weight.
func NewStageInfo(tbl *data.StageTable, def *data.StageDef, stageClearCount int, unlocks []string) (*StageInfo, error) {
	sel := selection.New[*data.DirectorCard](len(def.Interactables))
	for _, cd := range def.Interactables {
		card := tbl.NewDirectorCard(cd)
		if err := sel.AddChoice(card, float64(card.SelectionWeight)); err != nil {
			return nil, fmt.Errorf("stage %s card %s: %w", def.Name, cd.Card, err)
		}
	}
	u := make(map[string]bool, len(unlocks))
	for _, name := range unlocks {
		u[name] = true
	}
	return &StageInfo{
		Def:                   def,
		InteractableSelection: sel,
		InteractableCredit:    def.InteractableCredit,
		MonsterCredit:         def.MonsterCredit,
		StageClearCount:       stageClearCount,
		Unlocks:               u,
	}, nil
}

// NewSelection returns an empty interactable selection.
func NewSelection(capacity int) *Selection {
	return selection.New[*data.DirectorCard](capacity)
}
