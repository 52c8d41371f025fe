package stage

import (
	"errors"
	"fmt"

	"github.com/l1jgo/stagespawn/internal/director"
	"go.uber.org/zap"
)

var (
	ErrSessionAlreadyActive = errors.New("selection session already active")
	ErrSessionNotActive     = errors.New("selection session not active")
)

// Host is the stage selection accessor a session snapshots and restores.
type Host interface {
	CurrentSelection(stage *director.StageInfo) *director.Selection
	SetCurrentSelection(stage *director.StageInfo, sel *director.Selection)
}

// ModifierError reports a modifier that failed during BeginCycle.
type ModifierError struct {
	Modifier string
	Priority int
	Err      error
}

func (e *ModifierError) Error() string {
	return fmt.Sprintf("modifier %s (priority %d): %v", e.Modifier, e.Priority, e.Err)
}

func (e *ModifierError) Unwrap() error { return e.Err }

// SessionState is the session's position in a population cycle.
type SessionState int

const (
	StateIdle SessionState = iota
	StateActive
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateActive:
		return "Active"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Session snapshots a stage's interactable selection, lets every
// registered modifier edit a copy, installs the copy for the host's
// budgeted pass and restores the original afterwards.
// Single-goroutine access only (the population goroutine).
type Session struct {
	registry *Registry
	log      *zap.Logger

	state    SessionState
	original *director.Selection
	working  *InteractableSelections
	ran      int
	failure  *ModifierError
}

func NewSession(registry *Registry, log *zap.Logger) *Session {
	return &Session{registry: registry, log: log}
}

// State returns the current session state.
func (s *Session) State() SessionState { return s.state }

// BeginCycle snapshots the stage selection, runs modifiers in ascending
// priority and installs the edited Regular selection into the host.
// A failing modifier stops the chain but the cycle still begins with
// whatever the earlier modifiers produced; see Failure.
func (s *Session) BeginCycle(host Host, stage *director.StageInfo) error {
	if s.state == StateActive {
		return ErrSessionAlreadyActive
	}
	s.original = host.CurrentSelection(stage)
	regular := director.NewSelection(0)
	if s.original != nil {
		regular = s.original.Clone()
	}
	s.working = &InteractableSelections{Regular: regular}
	s.failure = nil
	s.ran = 0
	s.state = StateActive

	for priority, mod := range s.registry.Ascending() {
		if err := s.invoke(mod, stage); err != nil {
			s.failure = &ModifierError{Modifier: mod.Name(), Priority: priority, Err: err}
			s.log.Warn("interactable spawn modifier failed, skipping the rest",
				zap.String("stage", stage.Name()),
				zap.String("modifier", mod.Name()),
				zap.Int("priority", priority),
				zap.Error(err),
			)
			break
		}
		s.ran++
	}

	host.SetCurrentSelection(stage, s.working.Regular)
	return nil
}

// invoke runs one modifier with panic recovery so a broken mod cannot
// take down the population cycle.
func (s *Session) invoke(mod *Modifier, stage *director.StageInfo) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return mod.fn(stage, s.working)
}

// EndCycle reinstalls the selection captured by BeginCycle, however the
// modifiers left the working copy.
func (s *Session) EndCycle(host Host, stage *director.StageInfo) error {
	if s.state != StateActive {
		return ErrSessionNotActive
	}
	host.SetCurrentSelection(stage, s.original)
	s.original = nil
	s.working = nil
	s.state = StateIdle
	return nil
}

// Early returns the early unbudgeted spawn list of the active cycle.
func (s *Session) Early() ([]CardSpawnEntry, error) {
	if s.state != StateActive {
		return nil, ErrSessionNotActive
	}
	return s.working.Early, nil
}

// Late returns the late unbudgeted spawn list of the active cycle.
func (s *Session) Late() ([]CardSpawnEntry, error) {
	if s.state != StateActive {
		return nil, ErrSessionNotActive
	}
	return s.working.Late, nil
}

// Selections returns the working set of the active cycle.
func (s *Session) Selections() (*InteractableSelections, error) {
	if s.state != StateActive {
		return nil, ErrSessionNotActive
	}
	return s.working, nil
}

// Failure returns the modifier failure of the last BeginCycle, or nil.
func (s *Session) Failure() *ModifierError { return s.failure }

// ModifiersRun returns how many modifiers completed in the last BeginCycle.
func (s *Session) ModifiersRun() int { return s.ran }
