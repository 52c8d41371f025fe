package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/l1jgo/stagespawn/internal/core/event"
)

// RunRow is one recorded population cycle.
type RunRow struct {
	ID              uuid.UUID
	Stage           string
	Cycle           int
	Seed            int64
	ModifiersRun    int
	ModifierFailure string
	RegularChoices  int
	Budgeted        int
	CreditSpent     int
	Phases          []event.PhaseSummary
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Save writes a run and its phase summaries in a single transaction.
// A zero ID is replaced with a fresh one.
func (r *RunRepo) Save(ctx context.Context, run *RunRow) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO population_runs
			   (id, stage, cycle, seed, modifiers_run, modifier_failure, regular_choices, budgeted, credit_spent)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			run.ID, run.Stage, run.Cycle, run.Seed, run.ModifiersRun, run.ModifierFailure,
			run.RegularChoices, run.Budgeted, run.CreditSpent,
		); err != nil {
			return fmt.Errorf("run insert: %w", err)
		}

		for _, p := range run.Phases {
			if _, err := tx.Exec(ctx,
				`INSERT INTO population_phases (run_id, phase, requested, placed, abandoned, skipped, attempts)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				run.ID, p.Phase, p.Requested, p.Placed, p.Abandoned, p.Skipped, p.Attempts,
			); err != nil {
				return fmt.Errorf("phase insert: %w", err)
			}
		}
		return nil
	})
}

// RecentByStage returns the latest runs of a stage, newest first, without
// their phases.
func (r *RunRepo) RecentByStage(ctx context.Context, stage string, limit int) ([]RunRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, stage, cycle, seed, modifiers_run, modifier_failure, regular_choices, budgeted, credit_spent
		 FROM population_runs WHERE stage = $1 ORDER BY created_at DESC LIMIT $2`, stage, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RunRow
	for rows.Next() {
		var run RunRow
		if err := rows.Scan(
			&run.ID, &run.Stage, &run.Cycle, &run.Seed, &run.ModifiersRun,
			&run.ModifierFailure, &run.RegularChoices, &run.Budgeted, &run.CreditSpent,
		); err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	return result, rows.Err()
}
