package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
)

func TestGetWeights_DefaultsWhenNoneStored(t *testing.T) {
	rec := doRequest(t, newServerMocks().router(), http.MethodGet, "/api/v1/decision/weights", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.DecisionWeights
	decodeJSON(t, rec, &got)
	assert.Equal(t, domain.DefaultWeights(), got)
}

func TestGetWeights_ReturnsStoredOverride(t *testing.T) {
	stored := domain.DecisionWeights{Price: 0.5, Cabin: 0.1, Preference: 0.2, Demand: 0.1, Risk: 0.1}

	m := newServerMocks()
	m.weights.get = func(_ context.Context) (domain.DecisionWeights, error) {
		return stored, nil
	}

	rec := doRequest(t, m.router(), http.MethodGet, "/api/v1/decision/weights", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.DecisionWeights
	decodeJSON(t, rec, &got)
	assert.Equal(t, stored, got)
}

func TestPutWeights_SavesValidSet(t *testing.T) {
	m := newServerMocks()
	var saved *domain.DecisionWeights
	m.weights.save = func(_ context.Context, w domain.DecisionWeights) (domain.DecisionWeights, error) {
		saved = &w
		return w, nil
	}

	body := `{"price":0.5,"cabin":0.1,"preference":0.2,"demand":0.1,"risk":0.1}`
	rec := doRequest(t, m.router(), http.MethodPut, "/api/v1/decision/weights", body)

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	require.NotNil(t, saved)
	assert.Equal(t, domain.DecisionWeights{Price: 0.5, Cabin: 0.1, Preference: 0.2, Demand: 0.1, Risk: 0.1}, *saved)

	var got domain.DecisionWeights
	decodeJSON(t, rec, &got)
	assert.Equal(t, *saved, got)
}

func TestPutWeights_RejectsInvalidSet(t *testing.T) {
	m := newServerMocks()
	savedCalled := false
	m.weights.save = func(_ context.Context, w domain.DecisionWeights) (domain.DecisionWeights, error) {
		savedCalled = true
		return w, nil
	}

	tests := []struct {
		name string
		body string
	}{
		{"negative weight", `{"price":-0.1,"cabin":0.1,"preference":0.2,"demand":0.1,"risk":0.1}`},
		{"all zero", `{"price":0,"cabin":0,"preference":0,"demand":0,"risk":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, m.router(), http.MethodPut, "/api/v1/decision/weights", tt.body)

			requireErrorBody(t, rec, http.StatusUnprocessableEntity, "validation_error")
			assert.False(t, savedCalled, "invalid weights must not reach the store")
		})
	}
}

func TestPutWeights_MalformedJSON(t *testing.T) {
	rec := doRequest(t, newServerMocks().router(), http.MethodPut, "/api/v1/decision/weights", `{`)

	requireErrorBody(t, rec, http.StatusUnprocessableEntity, "validation_error")
}
