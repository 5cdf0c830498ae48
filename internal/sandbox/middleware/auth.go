package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type adminKeyType string

const AdminIDKey adminKeyType = "admin_id"

// Auth validates a Bearer JWT using the provided HMAC secret and adds the admin id to context.
func Auth(hmacSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				WriteDetail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			tokenStr := strings.TrimSpace(ah[len("Bearer "):])
			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return hmacSecret, nil
			}, jwt.WithExpirationRequired())
			if err != nil || !token.Valid {
				WriteDetail(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				WriteDetail(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			sub, _ := claims["sub"].(string)
			ctx := context.WithValue(r.Context(), AdminIDKey, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetAdminID(ctx context.Context) string {
	if v := ctx.Value(AdminIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WriteDetail writes the error body both backends use: {"detail": msg}.
func WriteDetail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
