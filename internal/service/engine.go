package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
	"github.com/monicap360/ElariaHQ-sub001/internal/repo"
)

// DecisionEngine scores and ranks candidate sailings for a traveler's
// constraints. It is stateless: every call fetches fresh data through the
// provider and holds nothing across calls.
type DecisionEngine struct {
	provider repo.SailingProvider
	homePort string
	policy   ScorePolicy
}

// NewDecisionEngine constructs a DecisionEngine. homePort is the single
// departure port this deployment serves; inputs naming any other port are
// rejected as validation errors.
func NewDecisionEngine(provider repo.SailingProvider, homePort string, policy ScorePolicy) *DecisionEngine {
	return &DecisionEngine{provider: provider, homePort: homePort, policy: policy}
}

// RunOptions tune a single engine invocation.
type RunOptions struct {
	// Weights override the default decision weights. Nil means
	// domain.DefaultWeights().
	Weights *domain.DecisionWeights
	// Limit caps the number of results. Zero means no cap. A limit larger
	// than the candidate pool returns the whole pool.
	Limit int
	// Now anchors days-until-departure demand scoring. Zero means
	// time.Now(); tests pin it for deterministic output.
	Now time.Time
}

// RunOutcome is the engine's ranked output plus the weights that produced it.
type RunOutcome struct {
	Results []domain.DecisionResult `json:"results"`
	Weights domain.DecisionWeights  `json:"weights"`
}

// Evaluation is a RunOutcome bundled with the raw data it was computed from.
// The calendar builder uses it to merge scores back onto sailing records
// without re-fetching anything.
type Evaluation struct {
	RunOutcome
	Sailings []domain.Sailing
	Ships    map[uuid.UUID]domain.Ship
	Pricing  map[uuid.UUID]domain.LatestPrice
}

// Run validates the input, fetches candidates, scores them, and returns a
// ranked shortlist. An empty candidate pool is a valid outcome with empty
// results, never an error; provider failures propagate.
func (e *DecisionEngine) Run(ctx context.Context, input domain.CruiseDecisionInput, opts RunOptions) (RunOutcome, error) {
	ev, err := e.Evaluate(ctx, input, opts)
	if err != nil {
		return RunOutcome{}, err
	}
	return ev.RunOutcome, nil
}

// Evaluate is Run plus the raw sailing/ship/pricing data behind the scores.
func (e *DecisionEngine) Evaluate(ctx context.Context, input domain.CruiseDecisionInput, opts RunOptions) (Evaluation, error) {
	if err := e.validate(input); err != nil {
		return Evaluation{}, err
	}

	weights := domain.DefaultWeights()
	if opts.Weights != nil {
		if err := opts.Weights.Validate(); err != nil {
			return Evaluation{}, fmt.Errorf("service.DecisionEngine.Evaluate: %w", err)
		}
		weights = *opts.Weights
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	sailings, err := e.provider.Sailings(ctx, repo.SailingQuery{
		DeparturePort: e.homePort,
		Start:         input.DateRange.Start,
		End:           input.DateRange.End,
	})
	if err != nil {
		return Evaluation{}, fmt.Errorf("service.DecisionEngine.Evaluate: %w", err)
	}

	ev := Evaluation{
		RunOutcome: RunOutcome{Results: []domain.DecisionResult{}, Weights: weights},
		Sailings:   sailings,
		Ships:      map[uuid.UUID]domain.Ship{},
		Pricing:    map[uuid.UUID]domain.LatestPrice{},
	}
	if len(sailings) == 0 {
		return ev, nil
	}

	ids := make([]uuid.UUID, 0, len(sailings))
	shipIDs := make([]uuid.UUID, 0, len(sailings))
	seenShips := make(map[uuid.UUID]bool, len(sailings))
	for _, s := range sailings {
		ids = append(ids, s.ID)
		if !seenShips[s.ShipID] {
			seenShips[s.ShipID] = true
			shipIDs = append(shipIDs, s.ShipID)
		}
	}

	// Ships, pricing, and overrides are independent lookups: fan out, join,
	// then score. Scoring never starts on partial data.
	var overrides map[uuid.UUID]domain.Override
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ships, err := e.provider.ShipsByIDs(gctx, shipIDs)
		if err == nil {
			ev.Ships = ships
		}
		return err
	})
	g.Go(func() error {
		pricing, err := e.provider.LatestPricingBySailingIDs(gctx, ids)
		if err == nil {
			ev.Pricing = pricing
		}
		return err
	})
	g.Go(func() error {
		var err error
		overrides, err = e.provider.OverridesBySailingIDs(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return Evaluation{}, fmt.Errorf("service.DecisionEngine.Evaluate: %w", err)
	}

	results := make([]domain.DecisionResult, 0, len(sailings))
	for _, s := range sailings {
		ovr := overrides[s.ID]
		if ovr.Disabled {
			continue // hard filter, no score can rescue a disabled sailing
		}
		var price *float64
		if lp, ok := ev.Pricing[s.ID]; ok {
			p := lp.MinPerPerson
			price = &p
		}
		results = append(results, e.scoreSailing(s, input, weights, price, ovr, now))
	}

	sortResults(results, sailings)
	e.applyConfidence(results, ev.Pricing)

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	ev.Results = results
	return ev, nil
}

// validate enforces the caller-input rules. Violations are reported, never
// silently corrected.
func (e *DecisionEngine) validate(input domain.CruiseDecisionInput) error {
	if !strings.EqualFold(strings.TrimSpace(input.DeparturePort), e.homePort) {
		return fmt.Errorf("%w: departure port %q is not supported, sailings depart from %s",
			domain.ErrValidation, input.DeparturePort, e.homePort)
	}
	if input.DateRange.Start.IsZero() || input.DateRange.End.IsZero() {
		return fmt.Errorf("%w: date range start and end are required", domain.ErrValidation)
	}
	if input.DateRange.End.Before(input.DateRange.Start) {
		return fmt.Errorf("%w: date range end must not be before start", domain.ErrValidation)
	}
	if input.Passengers.Adults < 1 {
		return fmt.Errorf("%w: at least one adult passenger is required", domain.ErrValidation)
	}
	if input.Passengers.Children < 0 {
		return fmt.Errorf("%w: children must not be negative", domain.ErrValidation)
	}
	if input.Budget != nil && input.Budget.MaxPerPerson <= 0 {
		return fmt.Errorf("%w: budget max per person must be positive", domain.ErrValidation)
	}
	return nil
}

// scoreSailing computes the five component scores, combines them into the
// weighted composite, and attaches evidence-based flags.
func (e *DecisionEngine) scoreSailing(
	s domain.Sailing,
	input domain.CruiseDecisionInput,
	weights domain.DecisionWeights,
	price *float64,
	ovr domain.Override,
	now time.Time,
) domain.DecisionResult {
	p := e.policy

	components := domain.ComponentScores{
		Price:      e.scorePrice(input.Budget, price),
		Cabin:      e.scoreCabin(input.Passengers, s.CabinsAvailable),
		Preference: e.scorePreference(input.Preferences, s.CruiseLine),
		Demand:     e.scoreDemand(s.DaysUntilDeparture(now)),
		Risk:       e.scoreRisk(ovr),
	}

	// Composite: Σ(weight×component)/Σ(weight). Dividing by the weight sum
	// keeps the composite in [0,1] whether or not the weights sum to 1.
	sum := weights.Sum()
	composite := (weights.Price*components.Price +
		weights.Cabin*components.Cabin +
		weights.Preference*components.Preference +
		weights.Demand*components.Demand +
		weights.Risk*components.Risk) / sum

	var flags []string
	if input.Preferences != nil && containsFold(input.Preferences.CruiseLines, s.CruiseLine) {
		flags = append(flags, domain.FlagPreferredLine)
	}
	if input.Budget != nil && price != nil {
		switch {
		case *price > input.Budget.MaxPerPerson:
			flags = append(flags, domain.FlagOverBudget)
		case *price <= input.Budget.MaxPerPerson*p.UnderBudgetRatio:
			flags = append(flags, domain.FlagUnderBudget)
		}
	}
	if price == nil {
		flags = append(flags, domain.FlagNoPricing)
	}
	if components.Demand >= p.TierHigh {
		flags = append(flags, domain.FlagHighDemand)
	}
	if ovr.ForceReview {
		flags = append(flags, domain.FlagForceReview)
	}

	return domain.DecisionResult{
		SailingID:  s.ID,
		Score:      clamp01(composite),
		Components: components,
		Flags:      flags,
	}
}

// scorePrice maps a sailing's lowest per-person price against the caller's
// budget. No budget → neutral. Budget but no price → the documented
// uncertainty score. In budget → rises linearly as the price falls further
// below the budget, saturating at 1.0. Over budget → exponential decay, soft
// for flexible budgets, steep and near zero for strict ones. Monotonic in
// the price throughout.
func (e *DecisionEngine) scorePrice(budget *domain.Budget, price *float64) float64 {
	p := e.policy
	if budget == nil {
		return p.NeutralPrice
	}
	if price == nil {
		return p.MissingPrice
	}

	max := budget.MaxPerPerson
	if *price <= max {
		headroom := (max - *price) / max // 0 at budget, →1 as price →0
		return clamp01(1 - p.UnderBudgetSpread + p.UnderBudgetSpread*headroom)
	}

	overage := (*price - max) / max
	if budget.Flexible {
		return clamp01(p.FlexibleBase * math.Exp(-p.FlexibleDecay*overage))
	}
	return clamp01(p.StrictBase * math.Exp(-p.StrictDecay*overage))
}

// scoreCabin is an availability proxy. Without a live inventory signal it is
// neutral. With one, the score rises with cabins available relative to the
// party's cabin need at double occupancy.
func (e *DecisionEngine) scoreCabin(passengers domain.Passengers, cabinsAvailable *int) float64 {
	p := e.policy
	if cabinsAvailable == nil {
		return p.NeutralCabin
	}
	needed := float64((passengers.Total() + 1) / 2)
	if needed < 1 {
		needed = 1
	}
	avail := float64(*cabinsAvailable)
	return clamp01(avail / (avail + p.CabinSaturation*needed))
}

// scorePreference: neutral when the caller expressed no preference, full
// score on a case-insensitive line match, a low constant otherwise.
func (e *DecisionEngine) scorePreference(prefs *domain.Preferences, cruiseLine string) float64 {
	p := e.policy
	if prefs == nil || len(prefs.CruiseLines) == 0 {
		return p.NeutralPreference
	}
	if containsFold(prefs.CruiseLines, cruiseLine) {
		return 1.0
	}
	return p.PreferenceMiss
}

// scoreDemand derives a popularity proxy from days until departure: imminent
// sailings score high, far-out sailings low. A step mapping stands in until
// real demand signals exist.
func (e *DecisionEngine) scoreDemand(daysOut int) float64 {
	p := e.policy
	switch {
	case daysOut < p.DemandHighWithinDays:
		return p.DemandHigh
	case daysOut <= p.DemandMediumWithinDays:
		return p.DemandMedium
	default:
		return p.DemandLow
	}
}

// scoreRisk penalizes force-review sailings. Disabled sailings never reach
// here — they are filtered before scoring.
func (e *DecisionEngine) scoreRisk(ovr domain.Override) float64 {
	if ovr.ForceReview {
		return e.policy.ForceReviewRisk
	}
	return 1.0
}

// sortResults orders by composite score descending; ties break by earlier
// depart date, then by sailing id, so identical inputs always produce
// identical output.
func sortResults(results []domain.DecisionResult, sailings []domain.Sailing) {
	departs := make(map[uuid.UUID]time.Time, len(sailings))
	for _, s := range sailings {
		departs[s.ID] = s.DepartDate
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		da, db := departs[a.SailingID], departs[b.SailingID]
		if !da.Equal(db) {
			return da.Before(db)
		}
		return a.SailingID.String() < b.SailingID.String()
	})
}

// applyConfidence fills each result's confidence after ranking: lower when
// pricing is missing, when the pool is very small, and when a result is
// nearly tied with a ranking neighbor.
func (e *DecisionEngine) applyConfidence(results []domain.DecisionResult, pricing map[uuid.UUID]domain.LatestPrice) {
	p := e.policy
	for i := range results {
		conf := p.BaseConfidence
		if _, ok := pricing[results[i].SailingID]; !ok {
			conf -= p.MissingPricePenalty
		}
		if len(results) < p.SmallPoolSize {
			conf -= p.SmallPoolPenalty
		}
		tied := (i > 0 && results[i-1].Score-results[i].Score < p.TieMargin) ||
			(i < len(results)-1 && results[i].Score-results[i+1].Score < p.TieMargin)
		if tied {
			conf -= p.TiePenalty
		}
		results[i].Confidence = clamp01(conf)
	}
}

// containsFold reports whether list contains s, comparing case-insensitively.
func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
