package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklydinner/internal/domain"
)

type pingRequest struct {
	Name string `json:"name"`
}

func (p *pingRequest) Validate() []string {
	if p.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var env APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantOK  bool
		wantMsg string
	}{
		{name: "valid", body: `{"name":"Ana"}`, wantOK: true},
		{name: "empty body", body: ``, wantMsg: "request body is required"},
		{name: "unknown field", body: `{"name":"Ana","extra":1}`, wantMsg: "unknown field"},
		{name: "trailing object", body: `{"name":"Ana"}{"name":"Bo"}`, wantMsg: "single JSON object"},
		{name: "validation", body: `{"name":""}`, wantMsg: "name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/rsvps", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			var dest pingRequest

			ok := DecodeAndValidate(rr, req, &dest)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "Ana", dest.Name)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			env := decodeEnvelope(t, rr)
			require.NotNil(t, env.Error)
			assert.Equal(t, ErrCodeBadRequest, env.Error.Code)
			assert.Contains(t, env.Error.Message, tt.wantMsg)
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("%w: age", domain.ErrInvalidInput), http.StatusBadRequest, ErrCodeBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized, ErrCodeUnauthorized},
		{domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{fmt.Errorf("%w: have 3", domain.ErrInsufficientGuests), http.StatusUnprocessableEntity, ErrCodeInsufficientGuests},
		{domain.ErrTableConstraintViolation, http.StatusUnprocessableEntity, ErrCodeConstraintViolation},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteServiceError(rr, httptest.NewRequest(http.MethodGet, "/tables", nil), logger, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			env := decodeEnvelope(t, rr)
			assert.Nil(t, env.Data)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.NotContains(t, env.Error.Message, "pq:")
		})
	}
}

func TestWriteJSONSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSONSuccess(rr, http.StatusCreated, map[string]string{"table": "Table-1"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"data":{"table":"Table-1"},"error":null}`, rr.Body.String())
}
