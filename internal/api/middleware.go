package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gighall/gighall/internal/domain"
)

// ─── Caller Resolution ──────────────────────────────────────────────────────
// The core treats the caller as pre-resolved. This middleware is the
// precondition supplier: it turns the profile_id header into a Profile
// record before any handler runs. No header or unknown ID → 401.

type contextKey string

const profileKey contextKey = "gighall-profile"

// profileMiddleware resolves the profile_id header into a Profile and
// stores it on the request context.
func (s *Server) profileMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idStr := r.Header.Get("profile_id")
		if idStr == "" {
			writeError(w, http.StatusUnauthorized, "profile_id header required")
			return
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid profile_id header")
			return
		}
		profile, err := s.store.GetProfile(r.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unknown profile")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), profileKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerProfile returns the resolved caller from the request context.
// Only valid behind profileMiddleware.
func callerProfile(r *http.Request) *domain.Profile {
	return r.Context().Value(profileKey).(*domain.Profile)
}
