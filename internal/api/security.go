package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/zaiqapos/pos-api/internal/domain/auth"
)

// apiKeyHeader carries the operator's API key.
const apiKeyHeader = "api_key"

// sessionHeader identifies which POS terminal's cart a request operates on.
const sessionHeader = "X-Session-ID"

type keyInfoCtx struct{}
type sessionCtx struct{}

// KeyFromContext returns the authenticated API key info, or nil.
func KeyFromContext(ctx context.Context) *auth.APIKeyInfo {
	info, _ := ctx.Value(keyInfoCtx{}).(*auth.APIKeyInfo)
	return info
}

// sessionFromContext returns the POS session ID attached by requireSession.
func sessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionCtx{}).(string)
	return id
}

// Security authenticates requests via HMAC-SHA256 hashed API keys and
// enforces role requirements.
type Security struct {
	apikeys auth.Repository
	pepper  []byte
}

// NewSecurity creates a Security with the given API key repository and HMAC
// pepper.
func NewSecurity(apikeys auth.Repository, pepper []byte) *Security {
	return &Security{apikeys: apikeys, pepper: pepper}
}

// Require returns a middleware that rejects requests lacking a valid API key
// of at least the given role. A request already authenticated by an outer
// Require is only re-checked for the role.
func (s *Security) Require(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := KeyFromContext(r.Context())
			if info == nil {
				var ok bool
				info, ok = s.authenticate(r)
				if !ok {
					writeJSON(w, http.StatusUnauthorized, errorResponse{
						Code:    http.StatusUnauthorized,
						Message: "a valid API key is required",
					})
					return
				}
				r = r.WithContext(context.WithValue(r.Context(), keyInfoCtx{}, info))
			}

			if !info.Role.AtLeast(role) {
				writeJSON(w, http.StatusForbidden, errorResponse{
					Code:    http.StatusForbidden,
					Message: "insufficient permissions",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// authenticate computes the HMAC of the presented key, looks it up, and
// performs a constant-time comparison against the stored hash.
func (s *Security) authenticate(r *http.Request) (*auth.APIKeyInfo, bool) {
	key := r.Header.Get(apiKeyHeader)
	if key == "" {
		return nil, false
	}

	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(key))
	hash := mac.Sum(nil)

	info, err := s.apikeys.FindByHash(r.Context(), hex.EncodeToString(hash))
	if err != nil {
		return nil, false
	}

	stored, err := hex.DecodeString(info.KeyHash)
	if err != nil {
		return nil, false
	}
	if subtle.ConstantTimeCompare(hash, stored) != 1 {
		return nil, false
	}
	return info, true
}

// requireSession rejects cart requests that do not identify a POS session.
func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(sessionHeader)
		if id == "" {
			writeBadRequest(w, "the "+sessionHeader+" header is required for cart operations")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionCtx{}, id)))
	})
}
