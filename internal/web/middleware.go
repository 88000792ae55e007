package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/breachsearch/internal/session"
)

const msgTooManyRequests = "Too many requests."

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		if s.deps.Metrics != nil {
			s.deps.Metrics.IncRequestsInFlight()
			defer s.deps.Metrics.DecRequestsInFlight()
		}

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		duration := time.Since(start)

		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordRequest(route, status, duration)
		}
		s.deps.Logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", duration),
		)
	})
}

// visitor выдает постоянный id посетителя, к нему привязано состояние страницы
func (s *Server) visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(visitorCookie); err == nil && c.Value != "" {
			id = c.Value
		} else {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     visitorCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(withVisitor(r.Context(), id)))
	})
}

func (s *Server) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := s.deps.Sessions.Lookup(r.Context(), c.Value)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				s.deps.Logger.Warn("session lookup failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID)))
	})
}

// rateLimit ограничивает только POST: отправки формы и вход
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		key := visitorFrom(r.Context())
		if !s.limiter.Allow(key) {
			if s.deps.Metrics != nil {
				s.deps.Metrics.RecordRateLimitHit()
			}
			s.deps.Logger.Warn("rate limit exceeded", zap.String("visitor", key))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter(s.limiter.ResetTime(key))))
			http.Error(w, msgTooManyRequests, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfter(reset time.Time) int {
	secs := int(time.Until(reset).Seconds() + 0.999)
	if secs < 1 {
		return 1
	}
	return secs
}
