package data

import (
	"strings"
	"testing"
)

const testStageYAML = `
spawn_cards:
  - name: Chest1
    category: chests
    cost_type: money
    base_cost: 25
  - name: ShrineBlood
    category: shrines
    cost_type: percent_health
    base_cost: 50
stages:
  - name: golemplains
    scene: Titanic Plains
    interactable_credit: 220
    anchors:
      - {x: 1, y: 1}
      - {x: 4, y: 2}
    interactables:
      - {card: Chest1, cost: 15, weight: 24}
      - {card: ShrineBlood, cost: 20, weight: 2, min_stage_completions: 1}
`

func TestParseStageTable(t *testing.T) {
	tbl, err := ParseStageTable([]byte(testStageYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tbl.Count() != 1 || tbl.CardCount() != 2 {
		t.Fatalf("stages=%d cards=%d, want 1/2", tbl.Count(), tbl.CardCount())
	}
	chest := tbl.Card("Chest1")
	if chest == nil || chest.CostType != CostMoney || chest.BaseCost != 25 {
		t.Fatalf("Chest1 = %+v", chest)
	}
	if tbl.Card("ShrineBlood").CostType != CostPercentHealth {
		t.Errorf("ShrineBlood cost type = %v", tbl.Card("ShrineBlood").CostType)
	}
	st := tbl.Stage("golemplains")
	if st == nil || len(st.Anchors) != 2 || st.InteractableCredit != 220 {
		t.Fatalf("stage = %+v", st)
	}
	dc := tbl.NewDirectorCard(st.Interactables[1])
	if dc.Spawn != tbl.Card("ShrineBlood") || dc.MinimumStageCompletions != 1 || dc.Cost != 20 {
		t.Errorf("director card = %+v", dc)
	}
}

func TestParseStageTableUnknownCard(t *testing.T) {
	bad := strings.Replace(testStageYAML, "card: Chest1", "card: Chest9", 1)
	if _, err := ParseStageTable([]byte(bad)); err == nil {
		t.Fatal("expected error for unknown spawn card")
	}
}

func TestDirectorCardCloneIsIndependent(t *testing.T) {
	sc := &SpawnCard{Name: "Chest1"}
	orig := &DirectorCard{Spawn: sc, Cost: 15, SelectionWeight: 24}
	cp := orig.Clone()
	if !cp.Equal(orig) {
		t.Fatal("clone not equal to original")
	}
	cp.Cost = 7
	if orig.Cost != 15 {
		t.Fatal("mutating clone changed original")
	}
	if cp.Spawn != sc {
		t.Fatal("spawn card template should stay shared")
	}
}

func TestParseModifierRules(t *testing.T) {
	tbl, err := ParseStageTable([]byte(testStageYAML))
	if err != nil {
		t.Fatal(err)
	}
	rules, err := ParseModifierRules([]byte(`
rules:
  - name: cheap_chests
    priority: -1000
    category: chests
    cost_multiplier: 0.5
  - name: extra_shrines
    stages: [golemplains]
    early:
      - {card: ShrineBlood, limit: 3}
`), tbl)
	if err != nil {
		t.Fatalf("parse rules: %v", err)
	}
	if len(rules) != 2 || rules[0].Priority != -1000 || rules[0].CostMultiplier != 0.5 {
		t.Fatalf("rules = %+v", rules)
	}
	if !rules[1].AppliesTo("golemplains") || rules[1].AppliesTo("blackbeach") {
		t.Error("stage filter not applied")
	}
	if !rules[0].AppliesTo("blackbeach") {
		t.Error("rule without stages should apply everywhere")
	}

	if _, err := ParseModifierRules([]byte(`
rules:
  - name: broken
    late:
      - {card: Nope, limit: 1}
`), tbl); err == nil {
		t.Fatal("expected unknown card error")
	}
}
