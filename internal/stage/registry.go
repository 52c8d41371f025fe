package stage

import (
	"errors"
	"iter"
	"math"
	"sort"
	"sync"

	"github.com/l1jgo/stagespawn/internal/director"
	"go.uber.org/zap"
)

// ErrModifierNotFound is returned by Unregister when the modifier is not
// registered. The registry is left unchanged.
var ErrModifierNotFound = errors.New("interactable spawn modifier not found")

// ModifierFunc is the callback mod authors write. It may freely edit sel;
// returning an error (or panicking) aborts the remaining modifiers of the
// cycle.
type ModifierFunc func(stage *director.StageInfo, sel *InteractableSelections) error

// Modifier is a registered callback. Its pointer is its identity.
type Modifier struct {
	name string
	fn   ModifierFunc
}

// NewModifier wraps fn under a display name used in logs and reports.
func NewModifier(name string, fn ModifierFunc) *Modifier {
	return &Modifier{name: name, fn: fn}
}

// Name returns the modifier's display name.
func (m *Modifier) Name() string {
	if m == nil {
		return ""
	}
	return m.name
}

type modifierEntry struct {
	priority int
	mod      *Modifier
}

// Registry holds interactable modifiers ordered by unique priority.
// Safe for concurrent use; every mutation and snapshot takes the lock.
type Registry struct {
	mu      sync.Mutex
	entries []modifierEntry // sorted ascending by priority
	log     *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{log: log}
}

// search returns the index where priority is or would be inserted.
func (r *Registry) search(priority int) (int, bool) {
	i := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].priority >= priority
	})
	return i, i < len(r.entries) && r.entries[i].priority == priority
}

// Register stores mod at priority, or at the first free priority above it
// when taken. If no priority above it is free, the nearest free one below
// is used. Returns the priority the modifier ended up at.
func (r *Registry) Register(mod *Modifier, priority int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	requested := priority
	i, taken := r.search(priority)
	for taken && priority < math.MaxInt {
		priority++
		i++
		taken = i < len(r.entries) && r.entries[i].priority == priority
	}
	// every priority from requested to MaxInt is taken: use the nearest
	// free one below requested instead of wrapping around
	if taken {
		priority = requested
		for taken {
			priority--
			i, taken = r.search(priority)
		}
	}

	r.entries = append(r.entries, modifierEntry{})
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = modifierEntry{priority: priority, mod: mod}

	if priority == requested {
		r.log.Info("interactable spawn modifier added",
			zap.String("modifier", mod.Name()),
			zap.Int("priority", priority),
		)
	} else {
		r.log.Info("interactable spawn modifier priority collision",
			zap.String("modifier", mod.Name()),
			zap.Int("requested", requested),
			zap.Int("priority", priority),
		)
	}
	return priority
}

// Unregister removes mod, matched by identity. When the same modifier is
// registered more than once the lowest priority entry goes first.
func (r *Registry) Unregister(mod *Modifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.mod != mod {
			continue
		}
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
		r.log.Info("interactable spawn modifier removed",
			zap.String("modifier", mod.Name()),
			zap.Int("priority", e.priority),
		)
		return nil
	}
	r.log.Warn("failed to remove interactable spawn modifier", zap.String("modifier", mod.Name()))
	return ErrModifierNotFound
}

// Ascending yields (priority, modifier) pairs in ascending priority. Each
// range over the sequence iterates a fresh snapshot, so registrations
// made while iterating do not affect it.
func (r *Registry) Ascending() iter.Seq2[int, *Modifier] {
	return func(yield func(int, *Modifier) bool) {
		for _, e := range r.snapshot() {
			if !yield(e.priority, e.mod) {
				return
			}
		}
	}
}

func (r *Registry) snapshot() []modifierEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]modifierEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered modifiers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Priorities returns the occupied priorities in ascending order.
func (r *Registry) Priorities() []int {
	snap := r.snapshot()
	out := make([]int, len(snap))
	for i, e := range snap {
		out[i] = e.priority
	}
	return out
}
