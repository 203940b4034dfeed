package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"auction-management-api/internal/notifier"
	"auction-management-api/internal/repo"
	"auction-management-api/internal/service"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	n := notifier.NewSimulatedEmailNotifier()
	services := service.NewServices(repo.NewMemoryRepositories(), n)
	handler := echo.New()
	SetupRoutesHandlers(handler, services, n)

	return handler
}

func doJSON(t *testing.T, handler *echo.Echo, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))

	return decoded
}

func registerAlice(t *testing.T, handler *echo.Echo) map[string]any {
	t.Helper()

	rec := doJSON(t, handler, http.MethodPost, "/api/participants/new", map[string]any{
		"identityNumber": "123.456.789-01",
		"name":           "Alice",
		"email":          "alice@example.com",
		"birthDate":      "1990-06-15",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	return decodeBody(t, rec)
}

func TestPostParticipant(t *testing.T) {
	handler := setupTestRouter(t)

	created := registerAlice(t, handler)
	require.Equal(t, "12345678901", created["identityNumber"])
	require.Equal(t, "Alice", created["name"])
	require.NotEmpty(t, created["id"])
}

func TestPostParticipantRejectsBadInput(t *testing.T) {
	handler := setupTestRouter(t)

	tests := []struct {
		name string
		body map[string]any
		code int
	}{
		{
			name: "missing_fields",
			body: map[string]any{"name": "Alice"},
			code: http.StatusBadRequest,
		},
		{
			name: "short_identity_number",
			body: map[string]any{
				"identityNumber": "123",
				"name":           "Alice",
				"email":          "alice@example.com",
				"birthDate":      "1990-06-15",
			},
			code: http.StatusBadRequest,
		},
		{
			name: "underage",
			body: map[string]any{
				"identityNumber": "12345678901",
				"name":           "Alice",
				"email":          "alice@example.com",
				"birthDate":      "2020-06-15",
			},
			code: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/api/participants/new", tt.body)
			require.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestPostParticipantDuplicateConflicts(t *testing.T) {
	handler := setupTestRouter(t)
	registerAlice(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/participants/new", map[string]any{
		"identityNumber": "12345678901",
		"name":           "Impostor",
		"email":          "impostor@example.com",
		"birthDate":      "1985-01-01",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetParticipantLookups(t *testing.T) {
	handler := setupTestRouter(t)
	created := registerAlice(t, handler)
	id := created["id"].(string)

	rec := doJSON(t, handler, http.MethodGet, "/api/participants/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Alice", decodeBody(t, rec)["name"])

	rec = doJSON(t, handler, http.MethodGet, "/api/participants/by-identity/12345678901", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, id, decodeBody(t, rec)["id"])

	rec = doJSON(t, handler, http.MethodGet, "/api/participants/by-email?email=alice%40example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, id, decodeBody(t, rec)["id"])

	rec = doJSON(t, handler, http.MethodGet, "/api/participants/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/participants/00000000-0000-0000-0000-000000000001", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditAndDeleteParticipant(t *testing.T) {
	handler := setupTestRouter(t)
	created := registerAlice(t, handler)
	id := created["id"].(string)

	rec := doJSON(t, handler, http.MethodPatch, "/api/participants/"+id+"/edit", map[string]any{
		"name": "Alice Smith",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Alice Smith", decodeBody(t, rec)["name"])

	rec = doJSON(t, handler, http.MethodGet, "/api/participants/"+id+"/can-modify", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["allowed"])

	rec = doJSON(t, handler, http.MethodDelete, "/api/participants/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/participants/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParticipantStatisticsEndpoint(t *testing.T) {
	handler := setupTestRouter(t)
	created := registerAlice(t, handler)
	id := created["id"].(string)

	rec := doJSON(t, handler, http.MethodGet, "/api/participants/"+id+"/statistics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decodeBody(t, rec)
	require.Equal(t, float64(0), stats["totalBids"])
	require.Nil(t, stats["highestBid"])
}
