package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"weeklydinner/internal/delivery/http/helpers"
	"weeklydinner/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// mockSeatingService implements domain.SeatingService for tests.
type mockSeatingService struct {
	submitted *domain.Guest
	receipt   *domain.RSVPReceipt
	created   bool
	guests    []*domain.Guest
	overview  *domain.TablesOverview
	result    *domain.ReassignmentResult
	err       error
}

func (m *mockSeatingService) SubmitRSVP(ctx context.Context, guest *domain.Guest) (*domain.RSVPReceipt, bool, error) {
	m.submitted = guest
	if m.err != nil {
		return nil, false, m.err
	}
	return m.receipt, m.created, nil
}

func (m *mockSeatingService) ListGuests(ctx context.Context) ([]*domain.Guest, error) {
	return m.guests, m.err
}

func (m *mockSeatingService) ListTables(ctx context.Context) (*domain.TablesOverview, error) {
	return m.overview, m.err
}

func (m *mockSeatingService) ReassignTables(ctx context.Context) (*domain.ReassignmentResult, error) {
	return m.result, m.err
}

// decodeData decodes the envelope and unmarshals its data into dest.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if dest != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env.Error
}
