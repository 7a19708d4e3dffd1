package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/validation"
)

// errEmptyBody is returned by parseJSON for a request without a body.
var errEmptyBody = errors.New("request body is empty")

// parseJSON decodes the request body into a T.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, errEmptyBody
	}
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, errEmptyBody
		}
		return v, fmt.Errorf("failed to decode request body: %w", err)
	}
	return v, nil
}

// fundCodeParam returns the {code} URL parameter.
// Returns a validation error when it is not a plausible fund code.
func fundCodeParam(r *http.Request) (string, error) {
	code := chi.URLParam(r, "code")
	if !validation.ValidFundCode(code) {
		return "", &validation.Error{Fields: map[string]string{"code": "fund code must be 1-16 letters, digits, dots, dashes or underscores"}}
	}
	return code, nil
}
