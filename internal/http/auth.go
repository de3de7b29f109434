package httpapi

import (
	"context"
	"net/http"
	"strings"

	"r4academy-backend-go/internal/models"
	"r4academy-backend-go/internal/services"
)

type contextKey string

const ctxClaims contextKey = "claims"

// WithAuth is the first gate: it requires a bearer token and attaches
// the decoded claims to the request context. Gates compose in a fixed
// order: WithAuth, then RequireAdmin, then RequireSubscription.
func WithAuth(tokens services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				WriteServiceError(w, services.ErrUnauthorized("No token provided"))
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			claims, err := tokens.ParseToken(tokenStr)
			if err != nil {
				WriteServiceError(w, services.ErrUnauthorized("Invalid token"))
				return
			}
			ctx := context.WithValue(r.Context(), ctxClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentClaims(r *http.Request) services.Claims {
	if claims, ok := r.Context().Value(ctxClaims).(services.Claims); ok {
		return claims
	}
	return services.Claims{}
}

func CurrentUserID(r *http.Request) string {
	return CurrentClaims(r).UserID
}

// RequireAdmin gates course and lesson mutation routes.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentClaims(r).Role != models.RoleAdmin {
			WriteServiceError(w, services.ErrForbidden("Admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSubscription gates premium routes. Besides checking the row it
// performs the lazy expiry: an active row with a past expires_at is
// flipped to inactive before the request is refused. Between the true
// expiry instant and the next gated request the stored status is stale.
func (s *Server) RequireSubscription(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, err := services.GetSubscription(s.DB, CurrentUserID(r))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if sub == nil || sub.Status != models.SubscriptionActive {
			WriteServiceError(w, services.ErrForbidden("Active subscription required"))
			return
		}
		usable, err := services.ExpireIfPast(s.DB, sub)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if !usable {
			WriteServiceError(w, services.ErrForbidden("Subscription expired"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
