// Package repo contains all database access logic for the cruise decision API.
// It implements the data provider contract the scoring engine depends on.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SailingQuery selects candidate sailings: everything departing from the
// given port with a depart date inside [Start, End], inclusive.
type SailingQuery struct {
	DeparturePort string
	Start         time.Time
	End           time.Time
}

// SailingProvider is the single seam between the scoring engine and whatever
// stores sailing data. The Postgres adapter in this package is the production
// implementation; tests substitute in-memory doubles.
//
// Failure semantics: database errors propagate as errors. An empty result is
// never an error — the engine distinguishes no-data from outage.
type SailingProvider interface {
	// Sailings returns candidate sailings for the query in unspecified order.
	Sailings(ctx context.Context, q SailingQuery) ([]domain.Sailing, error)

	// ShipsByIDs is a batched ship lookup. IDs with no matching ship are
	// simply absent from the result, not an error.
	ShipsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Ship, error)

	// LatestPricingBySailingIDs returns, per sailing that has at least one
	// pricing snapshot, the most recent snapshot by as_of.
	LatestPricingBySailingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.LatestPrice, error)

	// OverridesBySailingIDs returns administrative overrides keyed by sailing
	// id. Sailings without an override row are absent.
	OverridesBySailingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Override, error)

	// AllShips returns every known ship, ordered by name. Used by UI
	// collaborators, not by the scoring engine.
	AllShips(ctx context.Context) ([]domain.Ship, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}
