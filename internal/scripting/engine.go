package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/l1jgo/stagespawn/internal/data"
	"github.com/l1jgo/stagespawn/internal/director"
	"github.com/l1jgo/stagespawn/internal/stage"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM hosting script-authored modifiers.
// Single-goroutine access only: scripts load at startup and modifiers run
// on the population goroutine.
type Engine struct {
	vm       *lua.LState
	log      *zap.Logger
	registry *stage.Registry
	cards    *data.StageTable
	mods     map[string]*stage.Modifier
}

// NewEngine creates a Lua engine, exposes the modifier API and loads all
// scripts under scriptsDir/modifiers.
func NewEngine(scriptsDir string, registry *stage.Registry, cards *data.StageTable, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{
		vm:       vm,
		log:      log,
		registry: registry,
		cards:    cards,
		mods:     make(map[string]*stage.Modifier),
	}
	vm.SetGlobal("register_modifier", vm.NewFunction(e.luaRegister))
	vm.SetGlobal("unregister_modifier", vm.NewFunction(e.luaUnregister))

	if err := e.loadDir(filepath.Join(scriptsDir, "modifiers")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load modifier scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// Modifiers returns the names of script modifiers currently registered.
func (e *Engine) Modifiers() []string {
	names := make([]string, 0, len(e.mods))
	for n := range e.mods {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// register_modifier(priority, name, fn) -> resolved priority
func (e *Engine) luaRegister(L *lua.LState) int {
	priority := L.CheckInt(1)
	name := L.CheckString(2)
	fn := L.CheckFunction(3)
	if _, dup := e.mods[name]; dup {
		L.ArgError(2, "modifier "+name+" already registered")
		return 0
	}
	mod := stage.NewModifier("lua:"+name, e.wrap(name, fn))
	e.mods[name] = mod
	L.Push(lua.LNumber(e.registry.Register(mod, priority)))
	return 1
}

// unregister_modifier(name) -> bool
func (e *Engine) luaUnregister(L *lua.LState) int {
	name := L.CheckString(1)
	mod, ok := e.mods[name]
	if !ok {
		e.log.Warn("lua modifier not registered", zap.String("modifier", name))
		L.Push(lua.LFalse)
		return 1
	}
	delete(e.mods, name)
	L.Push(lua.LBool(e.registry.Unregister(mod) == nil))
	return 1
}

// wrap adapts a Lua function to a modifier. The working selections are
// marshalled to tables, the function edits them, and the tables are read
// back. A Lua error leaves sel untouched, and a nil Regular stays nil
// unless the script adds rows to it.
func (e *Engine) wrap(name string, fn *lua.LFunction) stage.ModifierFunc {
	return func(st *director.StageInfo, sel *stage.InteractableSelections) error {
		regular := sel.Regular
		if regular == nil {
			regular = director.NewSelection(0)
		}
		selT, refs := e.selectionsTable(regular, sel.Early, sel.Late)

		if err := e.vm.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, e.stageTable(st), selT); err != nil {
			return fmt.Errorf("lua %s: %w", name, err)
		}

		newRegular, err := e.readRegular(selT.RawGetString("regular"), refs.regular)
		if err != nil {
			return fmt.Errorf("lua %s regular: %w", name, err)
		}
		early, err := e.readEntries(selT.RawGetString("early"), refs.early)
		if err != nil {
			return fmt.Errorf("lua %s early: %w", name, err)
		}
		late, err := e.readEntries(selT.RawGetString("late"), refs.late)
		if err != nil {
			return fmt.Errorf("lua %s late: %w", name, err)
		}
		if sel.Regular != nil || newRegular.Len() > 0 {
			sel.Regular = newRegular
		}
		sel.Early, sel.Late = early, late
		return nil
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
