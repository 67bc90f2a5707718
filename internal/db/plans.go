package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/course-planner/internal/types"
)

// DefaultPlanHistory is how many stored plans are kept per prune pass.
const DefaultPlanHistory = 20

// SavePlan stores a validated plan for a run and prunes history beyond the
// most recent DefaultPlanHistory records.
func (db *DB) SavePlan(ctx context.Context, runID uuid.UUID, plan *types.TrainingPlan, attempts int) (uuid.UUID, error) {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal plan: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO plans (run_id, plan, attempts)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		runID, planJSON, attempts,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save plan: %w", err)
	}

	// History is bounded; failures here do not invalidate the save.
	_, _ = db.pool.Exec(ctx,
		`DELETE FROM plans WHERE id NOT IN (
			SELECT id FROM plans ORDER BY created_at DESC LIMIT $1
		)`,
		DefaultPlanHistory,
	)

	return id, nil
}

// GetPlan retrieves a stored plan by its ID.
func (db *DB) GetPlan(ctx context.Context, planID uuid.UUID) (*types.TrainingPlan, error) {
	var planJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT plan FROM plans WHERE id = $1`,
		planID,
	).Scan(&planJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	var plan types.TrainingPlan
	if err := json.Unmarshal(planJSON, &plan); err != nil {
		return nil, fmt.Errorf("failed to decode stored plan: %w", err)
	}
	return &plan, nil
}

// GetPlanByRun retrieves the plan stored for a run.
func (db *DB) GetPlanByRun(ctx context.Context, runID uuid.UUID) (*types.TrainingPlan, error) {
	var planJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT plan FROM plans WHERE run_id = $1 ORDER BY created_at DESC LIMIT 1`,
		runID,
	).Scan(&planJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan for run: %w", err)
	}

	var plan types.TrainingPlan
	if err := json.Unmarshal(planJSON, &plan); err != nil {
		return nil, fmt.Errorf("failed to decode stored plan: %w", err)
	}
	return &plan, nil
}

// ListPlanHistory retrieves plan records, newest first.
func (db *DB) ListPlanHistory(ctx context.Context, limit int) ([]PlanRecord, error) {
	if limit <= 0 || limit > DefaultPlanHistory {
		limit = DefaultPlanHistory
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, plan, attempts, created_at
		 FROM plans ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var records []PlanRecord
	for rows.Next() {
		var rec PlanRecord
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Plan, &rec.Attempts, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
