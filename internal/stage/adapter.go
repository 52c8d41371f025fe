package stage

import (
	"github.com/l1jgo/stagespawn/internal/core/event"
	"github.com/l1jgo/stagespawn/internal/director"
	"go.uber.org/zap"
)

// Adapter wires the session and spawner into the director's population
// routine. It implements director.Hooks.
type Adapter struct {
	session *Session
	spawner *Spawner
	bus     *event.Bus // optional
	log     *zap.Logger

	early, late PhaseReport
}

var _ director.Hooks = (*Adapter)(nil)

// NewAdapter builds the hooks for one host context. bus may be nil.
func NewAdapter(registry *Registry, bus *event.Bus, log *zap.Logger) *Adapter {
	return &Adapter{
		session: NewSession(registry, log),
		spawner: NewSpawner(log),
		bus:     bus,
		log:     log,
	}
}

// Session exposes the adapter's selection session.
func (a *Adapter) Session() *Session { return a.session }

// LastReports returns the early and late phase reports of the last cycle.
func (a *Adapter) LastReports() (early, late PhaseReport) { return a.early, a.late }

func (a *Adapter) OnPrePopulate(d *director.SceneDirector) {
	a.early = PhaseReport{Phase: PhaseEarly}
	a.late = PhaseReport{Phase: PhaseLate}
	if err := a.session.BeginCycle(d, d.Stage()); err != nil {
		a.log.Error("begin interactable cycle", zap.String("stage", d.Stage().Name()), zap.Error(err))
		return
	}
	if f := a.session.Failure(); f != nil && a.bus != nil {
		event.Emit(a.bus, event.ModifierFailed{
			Stage:    d.Stage().Name(),
			Modifier: f.Modifier,
			Priority: f.Priority,
			Err:      f.Err.Error(),
		})
	}
}

func (a *Adapter) OnAfterPlayerPlacement(d *director.SceneDirector) {
	entries, err := a.session.Early()
	if err != nil {
		a.log.Error("early unbudgeted spawn", zap.String("stage", d.Stage().Name()), zap.Error(err))
		return
	}
	a.early = a.spawner.RunPhase(PhaseEarly, entries, d, d.Rng())
}

func (a *Adapter) OnBeforeLateCredit(d *director.SceneDirector) {
	entries, err := a.session.Late()
	if err != nil {
		a.log.Error("late unbudgeted spawn", zap.String("stage", d.Stage().Name()), zap.Error(err))
		return
	}
	a.late = a.spawner.RunPhase(PhaseLate, entries, d, d.Rng())
}

func (a *Adapter) OnPostPopulate(d *director.SceneDirector) {
	installed := 0
	if sel, err := a.session.Selections(); err == nil && sel.Regular != nil {
		installed = sel.Regular.Len()
	}
	if err := a.session.EndCycle(d, d.Stage()); err != nil {
		a.log.Error("end interactable cycle", zap.String("stage", d.Stage().Name()), zap.Error(err))
		return
	}
	if a.bus == nil {
		return
	}
	ev := event.CycleCompleted{
		Stage:          d.Stage().Name(),
		Modifiers:      a.session.ModifiersRun(),
		RegularChoices: installed,
		Early:          a.early.Summary(),
		Late:           a.late.Summary(),
	}
	if f := a.session.Failure(); f != nil {
		ev.ModifierFailure = f.Error()
	}
	event.Emit(a.bus, ev)
}
