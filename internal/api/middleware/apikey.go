package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/response"
)

// Headers checked by APIKeyMiddleware.
const (
	APIKeyHeader    = "X-API-Key"
	TimeTokenHeader = "X-Time-Token"
)

// TimeTokenTTL is how long a time token issued by GenerateTimeToken stays valid.
const TimeTokenTTL = 5 * time.Minute

// timeTokenKey derives the fernet key from the shared API key.
func timeTokenKey(apiKey string) *fernet.Key {
	k := fernet.Key(sha256.Sum256([]byte(apiKey)))
	return &k
}

// GenerateTimeToken issues a fernet token signed with a key derived from apiKey.
// The token carries its creation time and is accepted for TimeTokenTTL.
// Returns an empty string if the token cannot be created.
func GenerateTimeToken(apiKey string) string {
	msg := []byte(strconv.FormatInt(time.Now().Unix(), 10))
	tok, err := fernet.EncryptAndSign(msg, timeTokenKey(apiKey))
	if err != nil {
		log.Error().Err(err).Msg("failed to generate time token")
		return ""
	}
	return string(tok)
}

// APIKeyMiddleware protects write endpoints that are driven by external import
// jobs. A request needs the shared key from INTERNAL_API_KEY in X-API-Key and
// a fresh token from GenerateTimeToken in X-Time-Token.
//
// Returns 500 when no key is configured and 401 for a missing or wrong key or token.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := os.Getenv("INTERNAL_API_KEY")
		if expected == "" {
			response.RespondError(w, http.StatusInternalServerError, "Internal server error", "Authentication not loaded")
			return
		}

		apiKey := r.Header.Get(APIKeyHeader)
		if apiKey == "" {
			response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Missing API key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Invalid API key")
			return
		}

		timeToken := r.Header.Get(TimeTokenHeader)
		if timeToken == "" {
			response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Missing Time token")
			return
		}
		if fernet.VerifyAndDecrypt([]byte(timeToken), TimeTokenTTL, []*fernet.Key{timeTokenKey(expected)}) == nil {
			response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}
