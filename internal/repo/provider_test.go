package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monicap360/ElariaHQ-sub001/internal/repo"
	"github.com/monicap360/ElariaHQ-sub001/testutil"
)

// testTx begins a transaction that is rolled back when the test finishes, so
// integration tests never leak rows into the shared test database.
func testTx(t *testing.T) pgx.Tx {
	t.Helper()

	pool := testutil.NewPool(t)
	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin test transaction")
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })
	return tx
}

// ---- seed helpers ----------------------------------------------------------

func insertShip(t *testing.T, tx pgx.Tx, name, cruiseLine string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := tx.Exec(context.Background(),
		`INSERT INTO ships (id, name, cruise_line) VALUES ($1, $2, $3)`,
		id, name, cruiseLine)
	require.NoError(t, err, "seed ship %q", name)
	return id
}

type sailingSeed struct {
	cruiseLine string
	shipID     uuid.UUID
	port       string
	depart     time.Time
	nights     int
	cabins     *int
	active     bool
}

func insertSailing(t *testing.T, tx pgx.Tx, s sailingSeed) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := tx.Exec(context.Background(),
		`INSERT INTO sailings (id, cruise_line, ship_id, departure_port, depart_date, return_date, nights, cabins_available, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, s.cruiseLine, s.shipID, s.port, s.depart, s.depart.AddDate(0, 0, s.nights), s.nights, s.cabins, s.active)
	require.NoError(t, err, "seed sailing")
	return id
}

func insertPricing(t *testing.T, tx pgx.Tx, sailingID uuid.UUID, minPerPerson float64, asOf time.Time) {
	t.Helper()

	_, err := tx.Exec(context.Background(),
		`INSERT INTO pricing_snapshots (sailing_id, min_per_person, as_of) VALUES ($1, $2, $3)`,
		sailingID, minPerPerson, asOf)
	require.NoError(t, err, "seed pricing snapshot")
}

func insertOverride(t *testing.T, tx pgx.Tx, sailingID uuid.UUID, disabled, forceReview bool, note string) {
	t.Helper()

	_, err := tx.Exec(context.Background(),
		`INSERT INTO sailing_overrides (sailing_id, disabled, force_review, note) VALUES ($1, $2, $3, $4)`,
		sailingID, disabled, forceReview, note)
	require.NoError(t, err, "seed override")
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ---- SailingProvider -------------------------------------------------------

func TestSailings_WindowPortAndActiveFilters(t *testing.T) {
	tx := testTx(t)
	provider := repo.NewSailingProvider(tx)
	ctx := context.Background()

	shipID := insertShip(t, tx, "Carnival Breeze", "Carnival Cruise Line")
	base := sailingSeed{
		cruiseLine: "Carnival Cruise Line",
		shipID:     shipID,
		port:       "Galveston",
		nights:     7,
		active:     true,
	}

	onStart := base
	onStart.depart = day(2030, 6, 1)
	onStartID := insertSailing(t, tx, onStart)

	onEnd := base
	onEnd.depart = day(2030, 6, 30)
	onEndID := insertSailing(t, tx, onEnd)

	before := base
	before.depart = day(2030, 5, 31)
	insertSailing(t, tx, before)

	after := base
	after.depart = day(2030, 7, 1)
	insertSailing(t, tx, after)

	inactive := base
	inactive.depart = day(2030, 6, 15)
	inactive.active = false
	insertSailing(t, tx, inactive)

	otherPort := base
	otherPort.depart = day(2030, 6, 15)
	otherPort.port = "Miami"
	insertSailing(t, tx, otherPort)

	got, err := provider.Sailings(ctx, repo.SailingQuery{
		DeparturePort: "Galveston",
		Start:         day(2030, 6, 1),
		End:           day(2030, 6, 30),
	})
	require.NoError(t, err)

	// Both window boundaries are inclusive; inactive and other-port rows are
	// excluded. Results come back ordered by depart date.
	require.Len(t, got, 2)
	assert.Equal(t, onStartID, got[0].ID)
	assert.Equal(t, onEndID, got[1].ID)
	assert.Equal(t, "Galveston", got[0].DeparturePort)
	assert.True(t, got[0].Active)
}

func TestSailings_ScansNullableCabins(t *testing.T) {
	tx := testTx(t)
	provider := repo.NewSailingProvider(tx)
	ctx := context.Background()

	shipID := insertShip(t, tx, "Harmony of the Seas", "Royal Caribbean")
	cabins := 12

	withCabins := sailingSeed{
		cruiseLine: "Royal Caribbean",
		shipID:     shipID,
		port:       "Galveston",
		depart:     day(2030, 8, 1),
		nights:     7,
		cabins:     &cabins,
		active:     true,
	}
	withID := insertSailing(t, tx, withCabins)

	withoutCabins := withCabins
	withoutCabins.depart = day(2030, 8, 8)
	withoutCabins.cabins = nil
	insertSailing(t, tx, withoutCabins)

	got, err := provider.Sailings(ctx, repo.SailingQuery{
		DeparturePort: "Galveston",
		Start:         day(2030, 8, 1),
		End:           day(2030, 8, 31),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, withID, got[0].ID)
	require.NotNil(t, got[0].CabinsAvailable)
	assert.Equal(t, 12, *got[0].CabinsAvailable)
	assert.Nil(t, got[1].CabinsAvailable)
}

func TestShipsByIDs(t *testing.T) {
	tx := testTx(t)
	provider := repo.NewSailingProvider(tx)
	ctx := context.Background()

	wanted := insertShip(t, tx, "Carnival Breeze", "Carnival Cruise Line")
	insertShip(t, tx, "Carnival Dream", "Carnival Cruise Line")
	missing := uuid.New()

	got, err := provider.ShipsByIDs(ctx, []uuid.UUID{wanted, missing})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Carnival Breeze", got[wanted].Name)
	_, found := got[missing]
	assert.False(t, found, "unknown ids must simply be absent")
}

func TestShipsByIDs_EmptyInput(t *testing.T) {
	tx := testTx(t)
	provider := repo.NewSailingProvider(tx)

	got, err := provider.ShipsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLatestPricingBySailingIDs(t *testing.T) {
	tx := testTx(t)
	provider := repo.NewSailingProvider(tx)
	ctx := context.Background()

	shipID := insertShip(t, tx, "Carnival Breeze", "Carnival Cruise Line")
	sailingID := insertSailing(t, tx, sailingSeed{
		cruiseLine: "Carnival Cruise Line",
		shipID:     shipID,
		port:       "Galveston",
		depart:     day(2030, 9, 1),
		nights:     5,
		active:     true,
	})
	unpriced := insertSailing(t, tx, sailingSeed{
		cruiseLine: "Carnival Cruise Line",
		shipID:     shipID,
		port:       "Galveston",
		depart:     day(2030, 9, 8),
		nights:     5,
		active:     true,
	})

	asOf := time.Date(2030, 8, 1, 12, 0, 0, 0, time.UTC)
	insertPricing(t, tx, sailingID, 899, asOf.Add(-48*time.Hour))
	insertPricing(t, tx, sailingID, 949, asOf.Add(-24*time.Hour))
	// Two snapshots with the same as_of: the later insert wins.
	insertPricing(t, tx, sailingID, 999, asOf)
	insertPricing(t, tx, sailingID, 879, asOf)

	got, err := provider.LatestPricingBySailingIDs(ctx, []uuid.UUID{sailingID, unpriced})
	require.NoError(t, err)

	require.Len(t, got, 1)
	lp := got[sailingID]
	assert.InDelta(t, 879, lp.MinPerPerson, 1e-9)
	assert.True(t, lp.AsOf.Equal(asOf))

	_, found := got[unpriced]
	assert.False(t, found, "sailings without snapshots must be absent, not zero-priced")
}

func TestOverridesBySailingIDs(t *testing.T) {
	tx := testTx(t)
	provider := repo.NewSailingProvider(tx)
	ctx := context.Background()

	shipID := insertShip(t, tx, "Carnival Breeze", "Carnival Cruise Line")
	flagged := insertSailing(t, tx, sailingSeed{
		cruiseLine: "Carnival Cruise Line",
		shipID:     shipID,
		port:       "Galveston",
		depart:     day(2030, 10, 1),
		nights:     4,
		active:     true,
	})
	clean := insertSailing(t, tx, sailingSeed{
		cruiseLine: "Carnival Cruise Line",
		shipID:     shipID,
		port:       "Galveston",
		depart:     day(2030, 10, 8),
		nights:     4,
		active:     true,
	})

	insertOverride(t, tx, flagged, false, true, "pricing anomaly, verify before recommending")

	got, err := provider.OverridesBySailingIDs(ctx, []uuid.UUID{flagged, clean})
	require.NoError(t, err)

	require.Len(t, got, 1)
	o := got[flagged]
	assert.False(t, o.Disabled)
	assert.True(t, o.ForceReview)
	assert.Equal(t, "pricing anomaly, verify before recommending", o.Note)
}

func TestAllShips_OrderedByName(t *testing.T) {
	tx := testTx(t)
	provider := repo.NewSailingProvider(tx)

	insertShip(t, tx, "Zuiderdam", "Holland America")
	insertShip(t, tx, "Adventure of the Seas", "Royal Caribbean")
	insertShip(t, tx, "Mardi Gras", "Carnival Cruise Line")

	got, err := provider.AllShips(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "Adventure of the Seas", got[0].Name)
	assert.Equal(t, "Mardi Gras", got[1].Name)
	assert.Equal(t, "Zuiderdam", got[2].Name)
}
