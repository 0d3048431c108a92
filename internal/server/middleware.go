package server

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/observer"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/tenant"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
)

// requestIDToContext copies the chi-generated request ID into our context
// key so logger.FromContext picks it up everywhere downstream.
func requestIDToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := chimiddleware.GetReqID(r.Context()); reqID != "" {
			r = r.WithContext(tenant.WithRequestID(r.Context(), reqID))
		}
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware records request count and duration per route pattern.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		observer.IncHTTPRequest(r.Method, route, strconv.Itoa(ww.Status()), time.Since(start))
	})
}

// authMiddleware resolves the caller's identity, stamps the owner ID into
// the context and keeps the user row current. Every /api route sits behind
// this; there is no anonymous surface. The upsert runs on first sight of a
// user ID only; profile header changes are picked up on the next restart.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.Authenticate(r)
		if err != nil {
			respondMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := tenant.WithUserID(r.Context(), user.ID)
		if _, seen := s.seenUsers.Load(user.ID); !seen {
			if err := s.repo.UpsertUser(ctx, user); err != nil {
				logger.FromContext(ctx).Error("Failed to upsert authenticated user",
					zap.String("user_id", user.ID),
					zap.Error(err))
				respondMessage(w, http.StatusInternalServerError, "Failed to authenticate user")
				return
			}
			s.seenUsers.Store(user.ID, struct{}{})
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
