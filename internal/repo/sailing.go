package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sethvargo/go-retry"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
)

// pgSailingProvider is the Postgres implementation of SailingProvider.
// Transient connection failures are retried here, inside the adapter — the
// scoring engine never retries.
type pgSailingProvider struct {
	db db
}

// NewSailingProvider constructs a SailingProvider backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation.
func NewSailingProvider(db db) SailingProvider {
	return &pgSailingProvider{db: db}
}

// withRetry runs fn, retrying up to three times with fibonacci backoff when
// pgx reports the failure happened before the statement reached the server.
func withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(3, retry.NewFibonacci(50*time.Millisecond))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && pgconn.SafeToRetry(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// Sailings returns active sailings departing from the port within the
// inclusive date window. Order is unspecified beyond depart_date grouping;
// callers sort for their own purposes.
func (r *pgSailingProvider) Sailings(ctx context.Context, q SailingQuery) ([]domain.Sailing, error) {
	const query = `
		SELECT id, cruise_line, ship_id, departure_port, depart_date, return_date,
		       nights, cabins_available, active
		FROM sailings
		WHERE departure_port = @port
		  AND depart_date BETWEEN @start AND @end
		  AND active
		ORDER BY depart_date`

	args := pgx.NamedArgs{
		"port":  q.DeparturePort,
		"start": q.Start,
		"end":   q.End,
	}

	var sailings []domain.Sailing
	err := withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, args)
		if err != nil {
			return err
		}
		defer rows.Close()

		sailings = sailings[:0]
		for rows.Next() {
			s, err := scanSailing(rows)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			sailings = append(sailings, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("repo.SailingProvider.Sailings: %w", err)
	}
	return sailings, nil
}

// ShipsByIDs returns ships keyed by id. Missing ids are absent from the map.
func (r *pgSailingProvider) ShipsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Ship, error) {
	ships := make(map[uuid.UUID]domain.Ship, len(ids))
	if len(ids) == 0 {
		return ships, nil
	}

	const query = `
		SELECT id, name, cruise_line
		FROM ships
		WHERE id = ANY(@ids)`

	err := withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, pgx.NamedArgs{"ids": ids})
		if err != nil {
			return err
		}
		defer rows.Close()

		clear(ships)
		for rows.Next() {
			sh, err := scanShip(rows)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			ships[sh.ID] = sh
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("repo.SailingProvider.ShipsByIDs: %w", err)
	}
	return ships, nil
}

// LatestPricingBySailingIDs resolves each sailing to its most recent pricing
// snapshot. Ties on as_of fall to the later-inserted row (highest serial id),
// matching the ingestion side's "last write wins" convention.
func (r *pgSailingProvider) LatestPricingBySailingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.LatestPrice, error) {
	pricing := make(map[uuid.UUID]domain.LatestPrice, len(ids))
	if len(ids) == 0 {
		return pricing, nil
	}

	const query = `
		SELECT DISTINCT ON (sailing_id) sailing_id, min_per_person, as_of
		FROM pricing_snapshots
		WHERE sailing_id = ANY(@ids)
		ORDER BY sailing_id, as_of DESC, id DESC`

	err := withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, pgx.NamedArgs{"ids": ids})
		if err != nil {
			return err
		}
		defer rows.Close()

		clear(pricing)
		for rows.Next() {
			var (
				id uuid.UUID
				lp domain.LatestPrice
			)
			if err := rows.Scan(&id, &lp.MinPerPerson, &lp.AsOf); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			pricing[id] = lp
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("repo.SailingProvider.LatestPricingBySailingIDs: %w", err)
	}
	return pricing, nil
}

// OverridesBySailingIDs returns administrative overrides keyed by sailing id.
func (r *pgSailingProvider) OverridesBySailingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Override, error) {
	overrides := make(map[uuid.UUID]domain.Override, len(ids))
	if len(ids) == 0 {
		return overrides, nil
	}

	const query = `
		SELECT sailing_id, disabled, force_review, note
		FROM sailing_overrides
		WHERE sailing_id = ANY(@ids)`

	err := withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, pgx.NamedArgs{"ids": ids})
		if err != nil {
			return err
		}
		defer rows.Close()

		clear(overrides)
		for rows.Next() {
			var o domain.Override
			if err := rows.Scan(&o.SailingID, &o.Disabled, &o.ForceReview, &o.Note); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			overrides[o.SailingID] = o
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("repo.SailingProvider.OverridesBySailingIDs: %w", err)
	}
	return overrides, nil
}

// AllShips returns every ship ordered by name.
func (r *pgSailingProvider) AllShips(ctx context.Context) ([]domain.Ship, error) {
	const query = `
		SELECT id, name, cruise_line
		FROM ships
		ORDER BY name`

	var ships []domain.Ship
	err := withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		ships = ships[:0]
		for rows.Next() {
			sh, err := scanShip(rows)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			ships = append(ships, sh)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("repo.SailingProvider.AllShips: %w", err)
	}
	return ships, nil
}

// scanSailing maps a single database row into a domain.Sailing.
// It handles the UUID, date, and nullable cabins_available conversions.
func scanSailing(s scanner) (domain.Sailing, error) {
	var (
		sl     domain.Sailing
		id     pgtype.UUID
		shipID pgtype.UUID
		depart pgtype.Date
		ret    pgtype.Date
		cabins pgtype.Int4
	)

	err := s.Scan(&id, &sl.CruiseLine, &shipID, &sl.DeparturePort, &depart, &ret, &sl.Nights, &cabins, &sl.Active)
	if err != nil {
		return domain.Sailing{}, err
	}

	sl.ID = uuid.UUID(id.Bytes)
	sl.ShipID = uuid.UUID(shipID.Bytes)
	sl.DepartDate = depart.Time
	sl.ReturnDate = ret.Time
	if cabins.Valid {
		c := int(cabins.Int32)
		sl.CabinsAvailable = &c
	}

	return sl, nil
}

// scanShip maps a single database row into a domain.Ship.
func scanShip(s scanner) (domain.Ship, error) {
	var (
		sh domain.Ship
		id pgtype.UUID
	)
	if err := s.Scan(&id, &sh.Name, &sh.CruiseLine); err != nil {
		return domain.Ship{}, err
	}
	sh.ID = uuid.UUID(id.Bytes)
	return sh, nil
}
