package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleSpawn asks for Limit unbudgeted placements of a spawn card.
type RuleSpawn struct {
	Card  string `yaml:"card"`
	Cost  int    `yaml:"cost"`
	Limit int    `yaml:"limit"`
}

// ModifierRule is a declarative interactable modifier. Multipliers of 0
// mean "leave unchanged".
type ModifierRule struct {
	Name             string      `yaml:"name"`
	Priority         int         `yaml:"priority"`
	Stages           []string    `yaml:"stages"`   // empty = every stage
	Category         string      `yaml:"category"` // empty = every category
	CostMultiplier   float64     `yaml:"cost_multiplier"`
	WeightMultiplier float64     `yaml:"weight_multiplier"`
	Remove           []string    `yaml:"remove"`
	Early            []RuleSpawn `yaml:"early"`
	Late             []RuleSpawn `yaml:"late"`
}

// AppliesTo reports whether the rule targets the named stage.
func (r *ModifierRule) AppliesTo(stage string) bool {
	if len(r.Stages) == 0 {
		return true
	}
	for _, s := range r.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

type ruleListFile struct {
	Rules []ModifierRule `yaml:"rules"`
}

// LoadModifierRules loads declarative modifier rules from a YAML file.
// A missing file yields no rules.
func LoadModifierRules(path string, cards *StageTable) ([]ModifierRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read modifier_rules: %w", err)
	}
	return ParseModifierRules(raw, cards)
}

// ParseModifierRules decodes rules and checks every spawn card they name.
func ParseModifierRules(raw []byte, cards *StageTable) ([]ModifierRule, error) {
	var f ruleListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse modifier_rules: %w", err)
	}
	for _, r := range f.Rules {
		if r.CostMultiplier < 0 || r.WeightMultiplier < 0 {
			return nil, fmt.Errorf("rule %s: negative multiplier", r.Name)
		}
		for _, s := range append(append([]RuleSpawn{}, r.Early...), r.Late...) {
			if cards.Card(s.Card) == nil {
				return nil, fmt.Errorf("rule %s: unknown spawn card %q", r.Name, s.Card)
			}
			if s.Limit < 0 {
				return nil, fmt.Errorf("rule %s: card %s has negative limit", r.Name, s.Card)
			}
		}
	}
	return f.Rules, nil
}
