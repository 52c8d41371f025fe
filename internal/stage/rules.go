package stage

import (
	"fmt"
	"slices"

	"github.com/l1jgo/stagespawn/internal/data"
	"github.com/l1jgo/stagespawn/internal/director"
)

// RuleModifier turns a declarative rule into a modifier.
func RuleModifier(rule data.ModifierRule, cards *data.StageTable) *Modifier {
	return NewModifier("rule:"+rule.Name, func(stage *director.StageInfo, sel *InteractableSelections) error {
		if !rule.AppliesTo(stage.Name()) {
			return nil
		}
		if sel.Regular != nil {
			if err := applyRegular(rule, sel.Regular); err != nil {
				return err
			}
		}
		for _, s := range rule.Early {
			sel.AddEarly(ruleCard(cards, s), s.Limit)
		}
		for _, s := range rule.Late {
			sel.AddLate(ruleCard(cards, s), s.Limit)
		}
		return nil
	})
}

func applyRegular(rule data.ModifierRule, regular *director.Selection) error {
	for i := regular.Len() - 1; i >= 0; i-- {
		if slices.Contains(rule.Remove, regular.Choice(i).Value.Name()) {
			regular.RemoveChoice(i)
		}
	}
	for i, c := range regular.Choices() {
		card := c.Value
		if card == nil || card.Spawn == nil {
			continue
		}
		if rule.Category != "" && card.Spawn.Category != rule.Category {
			continue
		}
		if rule.CostMultiplier > 0 {
			card.Cost = int(float64(card.Cost) * rule.CostMultiplier)
		}
		if rule.WeightMultiplier > 0 {
			if err := regular.SetWeight(i, c.Weight*rule.WeightMultiplier); err != nil {
				return fmt.Errorf("reweight %s: %w", card.Name(), err)
			}
		}
	}
	return nil
}

func ruleCard(cards *data.StageTable, s data.RuleSpawn) *data.DirectorCard {
	return &data.DirectorCard{
		Spawn:           cards.Card(s.Card),
		Cost:            s.Cost,
		SelectionWeight: 1,
	}
}

// RegisterRules registers every rule at its own priority and returns the
// registered modifiers in rule order.
func RegisterRules(reg *Registry, rules []data.ModifierRule, cards *data.StageTable) []*Modifier {
	mods := make([]*Modifier, 0, len(rules))
	for _, r := range rules {
		m := RuleModifier(r, cards)
		reg.Register(m, r.Priority)
		mods = append(mods, m)
	}
	return mods
}
