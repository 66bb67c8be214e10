package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// AuthAccount is the authenticated caller extracted from the JWT.
// Identity is the opaque subject issued by the identity provider; it is
// never parsed or interpreted beyond equality checks.
type AuthAccount struct {
	Identity string `json:"sub,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

func (a AuthAccount) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("identity", a.Identity),
		slog.String("email", a.Email),
	)
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "tailors-track context value " + k.name
}

const ACCESS_TOKEN_NAME = "access_token"

var (
	AuthAccountKey = &contextKey{"AuthAccount"}
)

// LoadFromMap converts a claims map into a typed struct via JSON round-trip.
func LoadFromMap[T any](m map[string]interface{}, c *T) error {
	data, err := json.Marshal(m)
	if err == nil {
		err = json.Unmarshal(data, c)
	}
	return err
}

// AuthAccountMiddleware extracts the authenticated account from the verified
// JWT claims and stores it in the request context. Must be mounted after
// Verifier.
func AuthAccountMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("missing or invalid JWT: %v", err), http.StatusUnauthorized)
			return
		}
		if claims == nil {
			http.Error(w, "missing JWT claims", http.StatusUnauthorized)
			return
		}

		authAccount := new(AuthAccount)
		if err := LoadFromMap(claims, authAccount); err != nil {
			slog.Error("failed to parse token claims", "error", err)
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		if authAccount.Identity == "" {
			http.Error(w, "missing subject in token", http.StatusUnauthorized)
			return
		}

		slog.Debug("authenticated account", "identity", authAccount.Identity)

		ctx := context.WithValue(r.Context(), AuthAccountKey, authAccount)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Verifier verifies JWTs from the Authorization header or the access token
// cookie.
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return jwtauth.Verify(ja, jwtauth.TokenFromHeader, TokenFromCookie)(next)
	}
}

func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(ACCESS_TOKEN_NAME)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// GetAuthAccount returns the authenticated account from the request context,
// or nil if the request did not pass through AuthAccountMiddleware.
func GetAuthAccount(ctx context.Context) *AuthAccount {
	account, ok := ctx.Value(AuthAccountKey).(*AuthAccount)
	if !ok {
		return nil
	}
	return account
}
