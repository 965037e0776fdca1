package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"innkeep/shared/constant"
	"innkeep/shared/failure"
	"innkeep/transport/http/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]string{"room_number": "101"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))
	assert.Equal(t, map[string]any{"data": map[string]any{"room_number": "101"}}, decode(t, rec))
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "conflict", err: failure.Conflict("room is claimed for the requested dates"), wantCode: http.StatusConflict, wantMsg: "room is claimed for the requested dates"},
		{name: "wrapped invalid state", err: fmt.Errorf("cancel: %w", failure.InvalidState("reservation", "CHECKED_IN")), wantCode: http.StatusUnprocessableEntity, wantMsg: "reservation is CHECKED_IN"},
		{name: "driver error is hidden", err: errors.New("pq: relation \"room_claims\" does not exist"), wantCode: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, map[string]any{"error": tt.wantMsg}, decode(t, rec))
		})
	}
}

func TestWithMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithPreparingShutdown(rec)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, map[string]any{"message": constant.ResponseErrorPrepareShutdown}, decode(t, rec))
}
