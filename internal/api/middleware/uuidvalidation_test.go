package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/middleware"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/testutil"
)

// TestValidateUUIDMiddleware tests the holding ID guard.
//
// WHY: Holding routes pass the ID straight to the repository; malformed IDs
// must be rejected with 400 before any handler runs.
func TestValidateUUIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantCalled bool
		wantStatus int
	}{
		{name: "passes through valid UUID", id: "550e8400-e29b-41d4-a716-446655440000", wantCalled: true, wantStatus: http.StatusOK},
		{name: "returns 400 for invalid UUID", id: "invalid-id", wantStatus: http.StatusBadRequest},
		{name: "returns 400 for empty UUID", id: "", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := testutil.NewRequestWithURLParams(http.MethodGet, "/test", map[string]string{"uuid": tt.id})
			w := httptest.NewRecorder()
			middleware.ValidateUUIDMiddleware(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCalled, handlerCalled)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
