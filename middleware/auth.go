package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/pokedex-tracker/services"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Authenticate возвращает middleware, проверяющий bearer access-токен и
// кладущий удостоверенную личность в контекст запроса. Проверка
// stateless: база не трогается. Без валидного токена — 401, обработчик
// не вызывается.
func Authenticate(tokens *services.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				writeUnauthorized(w, "authentication required")
				return
			}

			identity, err := tokens.ParseAccess(token)
			if err != nil {
				writeUnauthorized(w, "token is invalid or expired")
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext достаёт личность, положенную Authenticate.
func IdentityFromContext(ctx context.Context) (services.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(services.Identity)
	if !ok {
		return services.Identity{}, errors.New("identity not found in context")
	}
	return identity, nil
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
