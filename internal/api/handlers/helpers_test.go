package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/response"
)

func ptr[T any](v T) *T { return &v }

// decodeBody decodes the recorded JSON body into a T and fails the test on error.
func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())
	return v
}

// decodeError decodes a structured error body.
func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	return decodeBody[response.ErrorResponse](t, w)
}
