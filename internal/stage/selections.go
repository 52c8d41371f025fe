package stage

import (
	"github.com/l1jgo/stagespawn/internal/data"
	"github.com/l1jgo/stagespawn/internal/director"
)

// CardSpawnEntry requests Limit unbudgeted placements of Card.
type CardSpawnEntry struct {
	Card  *data.DirectorCard
	Limit int
}

// InteractableSelections is the working set modifiers edit during one
// population cycle. Early and Late are spawned outside the stage's
// credit budget; Regular replaces the stage's weighted selection.
type InteractableSelections struct {
	Early   []CardSpawnEntry
	Regular *director.Selection
	Late    []CardSpawnEntry
}

// AddEarly appends an early unbudgeted spawn request.
func (s *InteractableSelections) AddEarly(card *data.DirectorCard, limit int) {
	s.Early = append(s.Early, CardSpawnEntry{Card: card, Limit: limit})
}

// AddLate appends a late unbudgeted spawn request.
func (s *InteractableSelections) AddLate(card *data.DirectorCard, limit int) {
	s.Late = append(s.Late, CardSpawnEntry{Card: card, Limit: limit})
}
