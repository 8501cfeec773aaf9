package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
)

// WeightsRepo persists the deployment-wide decision weights override.
// The table holds at most one row; Get returns domain.ErrNotFound until the
// first Save, and callers fall back to domain.DefaultWeights().
type WeightsRepo interface {
	// Get returns the persisted weights, or domain.ErrNotFound when no
	// override has been saved.
	Get(ctx context.Context) (domain.DecisionWeights, error)

	// Save upserts the weights override and returns the persisted record.
	Save(ctx context.Context, w domain.DecisionWeights) (domain.DecisionWeights, error)
}

// pgWeightsRepo is the Postgres implementation of WeightsRepo.
type pgWeightsRepo struct {
	db db
}

// NewWeightsRepo constructs a WeightsRepo backed by the provided db connection.
func NewWeightsRepo(db db) WeightsRepo {
	return &pgWeightsRepo{db: db}
}

// Get returns the single persisted weights row.
func (r *pgWeightsRepo) Get(ctx context.Context) (domain.DecisionWeights, error) {
	const q = `
		SELECT price, cabin, preference, demand, risk
		FROM decision_weights
		WHERE id = 1`

	var w domain.DecisionWeights
	err := r.db.QueryRow(ctx, q).Scan(&w.Price, &w.Cabin, &w.Preference, &w.Demand, &w.Risk)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DecisionWeights{}, fmt.Errorf("repo.WeightsRepo.Get: %w", domain.ErrNotFound)
		}
		return domain.DecisionWeights{}, fmt.Errorf("repo.WeightsRepo.Get: %w", err)
	}
	return w, nil
}

// Save upserts the weights override into the single-row table.
func (r *pgWeightsRepo) Save(ctx context.Context, w domain.DecisionWeights) (domain.DecisionWeights, error) {
	const q = `
		INSERT INTO decision_weights (id, price, cabin, preference, demand, risk, updated_at)
		VALUES (1, @price, @cabin, @preference, @demand, @risk, now())
		ON CONFLICT (id) DO UPDATE
		SET price      = EXCLUDED.price,
		    cabin      = EXCLUDED.cabin,
		    preference = EXCLUDED.preference,
		    demand     = EXCLUDED.demand,
		    risk       = EXCLUDED.risk,
		    updated_at = now()
		RETURNING price, cabin, preference, demand, risk`

	args := pgx.NamedArgs{
		"price":      w.Price,
		"cabin":      w.Cabin,
		"preference": w.Preference,
		"demand":     w.Demand,
		"risk":       w.Risk,
	}

	var saved domain.DecisionWeights
	err := r.db.QueryRow(ctx, q, args).Scan(&saved.Price, &saved.Cabin, &saved.Preference, &saved.Demand, &saved.Risk)
	if err != nil {
		return domain.DecisionWeights{}, fmt.Errorf("repo.WeightsRepo.Save: %w", err)
	}
	return saved, nil
}
