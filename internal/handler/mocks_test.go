package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
	"github.com/monicap360/ElariaHQ-sub001/internal/handler"
	"github.com/monicap360/ElariaHQ-sub001/internal/service"
)

// Hand-written function-field mocks for the Server's dependency interfaces.
// Set only the fields a test cares about; unset ones return benign defaults.

type mockDecisions struct {
	run func(ctx context.Context, input domain.CruiseDecisionInput, opts service.RunOptions) (service.RunOutcome, error)
}

func (m *mockDecisions) Run(ctx context.Context, input domain.CruiseDecisionInput, opts service.RunOptions) (service.RunOutcome, error) {
	if m.run != nil {
		return m.run(ctx, input, opts)
	}
	return service.RunOutcome{Results: []domain.DecisionResult{}, Weights: domain.DefaultWeights()}, nil
}

type mockCalendar struct {
	build func(ctx context.Context, input domain.CruiseDecisionInput) ([]domain.CalendarEntry, error)
}

func (m *mockCalendar) BuildEntries(ctx context.Context, input domain.CruiseDecisionInput) ([]domain.CalendarEntry, error) {
	if m.build != nil {
		return m.build(ctx, input)
	}
	return []domain.CalendarEntry{}, nil
}

type mockShips struct {
	all func(ctx context.Context) ([]domain.Ship, error)
}

func (m *mockShips) AllShips(ctx context.Context) ([]domain.Ship, error) {
	if m.all != nil {
		return m.all(ctx)
	}
	return nil, nil
}

type mockWeights struct {
	get  func(ctx context.Context) (domain.DecisionWeights, error)
	save func(ctx context.Context, w domain.DecisionWeights) (domain.DecisionWeights, error)
}

func (m *mockWeights) Get(ctx context.Context) (domain.DecisionWeights, error) {
	if m.get != nil {
		return m.get(ctx)
	}
	// No override persisted yet is the common case.
	return domain.DecisionWeights{}, domain.ErrNotFound
}

func (m *mockWeights) Save(ctx context.Context, w domain.DecisionWeights) (domain.DecisionWeights, error) {
	if m.save != nil {
		return m.save(ctx, w)
	}
	return w, nil
}

var (
	_ handler.DecisionRunner  = (*mockDecisions)(nil)
	_ handler.CalendarBuilder = (*mockCalendar)(nil)
	_ handler.ShipLister      = (*mockShips)(nil)
	_ handler.WeightsStore    = (*mockWeights)(nil)
)

// serverMocks bundles one mock per dependency so tests can override a single
// field and hand the rest defaults.
type serverMocks struct {
	decisions *mockDecisions
	calendar  *mockCalendar
	ships     *mockShips
	weights   *mockWeights
}

func newServerMocks() *serverMocks {
	return &serverMocks{
		decisions: &mockDecisions{},
		calendar:  &mockCalendar{},
		ships:     &mockShips{},
		weights:   &mockWeights{},
	}
}

func (m *serverMocks) router() http.Handler {
	return handler.NewServer(m.decisions, m.calendar, m.ships, m.weights).Routes()
}

// doRequest runs one request through the full router and returns the recorder.
func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeJSON unmarshals the response body into v, failing the test on error.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v),
		"response body: %s", rec.Body.String())
}

// requireErrorBody asserts the canonical error shape and returns the message.
func requireErrorBody(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) string {
	t.Helper()

	require.Equal(t, wantStatus, rec.Code, "body: %s", rec.Body.String())

	var resp handler.ErrorResponse
	decodeJSON(t, rec, &resp)
	require.Equal(t, wantCode, resp.Error.Code)
	require.NotEmpty(t, resp.Error.Message)
	return resp.Error.Message
}
