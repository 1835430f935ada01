// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/axiompharma/compliance-copilot/internal/auth"
)

// NewJWTMiddleware validates the bearer token (or auth_token cookie) and
// injects the user id into the request context. All core operations are
// scoped to that user id; requests without a valid token never reach a
// handler.
func NewJWTMiddleware(secretKey string) func(http.Handler) http.Handler {
	secret := []byte(secretKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				if cookie, err := r.Cookie("auth_token"); err == nil {
					tokenString = cookie.Value
				}
			}
			if tokenString == "" {
				unauthorized(w, "missing credentials")
				return
			}

			userID, err := auth.ValidateToken(tokenString, secret)
			if err != nil {
				log.Printf("[AuthMiddleware] Invalid token: %v", err)
				unauthorized(w, "invalid credentials")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated user id set by the JWT middleware.
func UserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
