package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"linkup_server/models"
	"linkup_server/services"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const actorKey contextKey = "actor"

// Authenticate validates the bearer token and loads the acting user's
// profile into the request context, so every handler receives the actor
// explicitly instead of reading ambient state.
func Authenticate(users *services.UserService, jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthorized(w, "Unauthorized - No Token Provided")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respondUnauthorized(w, "Unauthorized - Invalid Authorization Header")
				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				respondUnauthorized(w, "Unauthorized - Invalid Token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				respondUnauthorized(w, "Unauthorized - Invalid Token")
				return
			}
			userID, _ := claims["userId"].(string)
			if userID == "" {
				respondUnauthorized(w, "Unauthorized - Invalid Token")
				return
			}

			actor, err := users.GetProfile(r.Context(), userID)
			if err != nil {
				logger.Error("failed to load actor profile", zap.String("userId", userID), zap.Error(err))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"message": "Internal server error"})
				return
			}
			if actor == nil {
				respondUnauthorized(w, "User not found")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// WithActor stores the authenticated profile on a context.
func WithActor(ctx context.Context, actor *models.UserProfile) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the authenticated profile stored by Authenticate.
func ActorFrom(ctx context.Context) (*models.UserProfile, bool) {
	actor, ok := ctx.Value(actorKey).(*models.UserProfile)
	return actor, ok
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
