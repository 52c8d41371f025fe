package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Anchor is a placement node interactables can occupy.
type Anchor struct {
	X int32 `yaml:"x"`
	Y int32 `yaml:"y"`
}

// CardDef references a spawn card from a stage's interactable pool.
type CardDef struct {
	Card                    string `yaml:"card"`
	Cost                    int    `yaml:"cost"`
	Weight                  int    `yaml:"weight"`
	MinimumStageCompletions int    `yaml:"min_stage_completions"`
	RequiredUnlockable      string `yaml:"required_unlockable,omitempty"`
	ForbiddenUnlockable     string `yaml:"forbidden_unlockable,omitempty"`
	PreventOverhead         bool   `yaml:"prevent_overhead"`
}

// StageDef holds the population parameters of one stage.
type StageDef struct {
	Name               string    `yaml:"name"`
	Scene              string    `yaml:"scene"`
	InteractableCredit int       `yaml:"interactable_credit"`
	MonsterCredit      int       `yaml:"monster_credit"`
	Anchors            []Anchor  `yaml:"anchors"`
	Interactables      []CardDef `yaml:"interactables"`
}

type stageListFile struct {
	SpawnCards []SpawnCard `yaml:"spawn_cards"`
	Stages     []StageDef  `yaml:"stages"`
}

// StageTable holds spawn card templates and stage definitions.
type StageTable struct {
	cards  map[string]*SpawnCard
	stages map[string]*StageDef
}

// LoadStageTable loads spawn cards and stages from a YAML file.
func LoadStageTable(path string) (*StageTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stage_list: %w", err)
	}
	return ParseStageTable(raw)
}

// ParseStageTable builds a StageTable from YAML bytes. Every card an
// interactable pool references must be declared under spawn_cards.
func ParseStageTable(raw []byte) (*StageTable, error) {
	var f stageListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse stage_list: %w", err)
	}
	t := &StageTable{
		cards:  make(map[string]*SpawnCard, len(f.SpawnCards)),
		stages: make(map[string]*StageDef, len(f.Stages)),
	}
	for i := range f.SpawnCards {
		sc := &f.SpawnCards[i]
		if _, dup := t.cards[sc.Name]; dup {
			return nil, fmt.Errorf("duplicate spawn card %q", sc.Name)
		}
		t.cards[sc.Name] = sc
	}
	for i := range f.Stages {
		st := &f.Stages[i]
		for _, cd := range st.Interactables {
			if _, ok := t.cards[cd.Card]; !ok {
				return nil, fmt.Errorf("stage %s: unknown spawn card %q", st.Name, cd.Card)
			}
			if cd.Weight < 0 {
				return nil, fmt.Errorf("stage %s: card %s has negative weight", st.Name, cd.Card)
			}
		}
		t.stages[st.Name] = st
	}
	return t, nil
}

// Card returns a spawn card template by name, or nil if not found.
func (t *StageTable) Card(name string) *SpawnCard {
	return t.cards[name]
}

// Stage returns a stage definition by name, or nil if not found.
func (t *StageTable) Stage(name string) *StageDef {
	return t.stages[name]
}

// StageNames returns every stage name in sorted order.
func (t *StageTable) StageNames() []string {
	names := make([]string, 0, len(t.stages))
	for n := range t.stages {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of loaded stages.
func (t *StageTable) Count() int {
	return len(t.stages)
}

// CardCount returns the number of loaded spawn cards.
func (t *StageTable) CardCount() int {
	return len(t.cards)
}

// NewDirectorCard builds a director card from a pool entry.
func (t *StageTable) NewDirectorCard(cd CardDef) *DirectorCard {
	return &DirectorCard{
		Spawn:                   t.cards[cd.Card],
		Cost:                    cd.Cost,
		SelectionWeight:         cd.Weight,
		MinimumStageCompletions: cd.MinimumStageCompletions,
		RequiredUnlockable:      cd.RequiredUnlockable,
		ForbiddenUnlockable:     cd.ForbiddenUnlockable,
		PreventOverhead:         cd.PreventOverhead,
	}
}
