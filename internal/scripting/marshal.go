package scripting

import (
	"fmt"

	"github.com/l1jgo/stagespawn/internal/data"
	"github.com/l1jgo/stagespawn/internal/director"
	"github.com/l1jgo/stagespawn/internal/stage"
	lua "github.com/yuin/gopher-lua"
)

// refKey marks the Go card a table row was built from.
const refKey = "_ref"

type cardRefs struct {
	regular []*data.DirectorCard
	early   []*data.DirectorCard
	late    []*data.DirectorCard
}

func (e *Engine) stageTable(st *director.StageInfo) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("name", lua.LString(st.Name()))
	t.RawSetString("scene", lua.LString(st.Def.Scene))
	t.RawSetString("credit", lua.LNumber(st.InteractableCredit))
	t.RawSetString("stage_clear_count", lua.LNumber(st.StageClearCount))
	unlocks := e.vm.NewTable()
	for name, on := range st.Unlocks {
		if on {
			unlocks.RawSetString(name, lua.LTrue)
		}
	}
	t.RawSetString("unlocks", unlocks)
	return t
}

func (e *Engine) cardRow(card *data.DirectorCard, ref int) *lua.LTable {
	row := e.vm.NewTable()
	row.RawSetString("card", lua.LString(card.Name()))
	if card != nil {
		row.RawSetString("cost", lua.LNumber(card.Cost))
	}
	row.RawSetString(refKey, lua.LNumber(ref))
	return row
}

func (e *Engine) selectionsTable(regular *director.Selection, early, late []stage.CardSpawnEntry) (*lua.LTable, cardRefs) {
	var refs cardRefs
	t := e.vm.NewTable()

	reg := e.vm.NewTable()
	for i, c := range regular.Choices() {
		row := e.cardRow(c.Value, i+1)
		row.RawSetString("weight", lua.LNumber(c.Weight))
		reg.Append(row)
		refs.regular = append(refs.regular, c.Value)
	}
	t.RawSetString("regular", reg)

	entries := func(list []stage.CardSpawnEntry, out *[]*data.DirectorCard) *lua.LTable {
		lt := e.vm.NewTable()
		for i, en := range list {
			row := e.cardRow(en.Card, i+1)
			row.RawSetString("limit", lua.LNumber(en.Limit))
			lt.Append(row)
			*out = append(*out, en.Card)
		}
		return lt
	}
	t.RawSetString("early", entries(early, &refs.early))
	t.RawSetString("late", entries(late, &refs.late))
	return t, refs
}

// resolveCard maps a row back to a card: a copy of the original card when
// the row still names it, otherwise a fresh card from the spawn card table.
func (e *Engine) resolveCard(row *lua.LTable, refs []*data.DirectorCard) (*data.DirectorCard, error) {
	name := lStr(row, "card")
	var card *data.DirectorCard
	if ref := lInt(row, refKey); ref >= 1 && ref <= len(refs) && refs[ref-1].Name() == name {
		card = refs[ref-1].Clone()
		if card == nil {
			return nil, nil
		}
	} else {
		sc := e.cards.Card(name)
		if sc == nil {
			return nil, fmt.Errorf("unknown spawn card %q", name)
		}
		card = &data.DirectorCard{Spawn: sc, SelectionWeight: 1}
	}
	if v := row.RawGetString("cost"); v != lua.LNil {
		card.Cost = int(lua.LVAsNumber(v))
	}
	return card, nil
}

func (e *Engine) readRegular(v lua.LValue, refs []*data.DirectorCard) (*director.Selection, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected table, got %s", v.Type())
	}
	sel := director.NewSelection(t.Len())
	for i := 1; i <= t.Len(); i++ {
		row, ok := t.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("row %d is not a table", i)
		}
		card, err := e.resolveCard(row, refs)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		var weight float64
		if card != nil {
			weight = float64(card.SelectionWeight)
		}
		if w := row.RawGetString("weight"); w != lua.LNil {
			weight = float64(lua.LVAsNumber(w))
		}
		if err := sel.AddChoice(card, weight); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return sel, nil
}

func (e *Engine) readEntries(v lua.LValue, refs []*data.DirectorCard) ([]stage.CardSpawnEntry, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected table, got %s", v.Type())
	}
	var out []stage.CardSpawnEntry
	for i := 1; i <= t.Len(); i++ {
		row, ok := t.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("row %d is not a table", i)
		}
		card, err := e.resolveCard(row, refs)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		limit := lInt(row, "limit")
		if limit < 0 {
			return nil, fmt.Errorf("row %d: negative limit %d", i, limit)
		}
		out = append(out, stage.CardSpawnEntry{Card: card, Limit: limit})
	}
	return out, nil
}

func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}
