package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	g "maragu.dev/gomponents"

	"github.com/kitbuilder587/breachsearch/internal/domain"
	"github.com/kitbuilder587/breachsearch/internal/web/views"
)

const msgSignInFailed = "Sign in failed. Please try again."

func (s *Server) handleDatabases(w http.ResponseWriter, r *http.Request) {
	st := s.pageFor(r)
	// автопоиск, как и отправку формы, доводим до конца даже без клиента
	st.page.SetNavigationalQuery(context.WithoutCancel(r.Context()), r.URL.Query().Get("q"))
	s.renderSearch(w, r, st)
}

// handleSearch - кнопка или Enter в поле. Возвращаемся на тот же адрес,
// так что q из адреса не меняется и автопоиск не срабатывает повторно.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	st := s.pageFor(r)
	st.page.SetQuery(r.PostForm.Get("q"))
	// поиск и списание доводим до конца, даже если клиент ушел
	st.page.Search(context.WithoutCancel(r.Context()))

	http.Redirect(w, r, databasesURL(st.page.NavigationalQuery()), http.StatusSeeOther)
}

func (s *Server) renderSearch(w http.ResponseWriter, r *http.Request, st *pageState) {
	data := views.SearchPageData{
		View:     st.page.View(r.Context()),
		Toasts:   st.toasts.Drain(),
		Redirect: st.redirect.Take(),
		Action:   databasesURL(st.page.NavigationalQuery()),
	}
	if data.Redirect != nil {
		w.Header().Set("Refresh", views.RefreshValue(data.Redirect))
	}
	s.render(w, http.StatusOK, views.SearchPage(data))
}

func (s *Server) handleAuthPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, views.AuthPage(views.AuthPageData{}))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")

	user, err := s.deps.Accounts.SignIn(r.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEmail) {
			s.render(w, http.StatusBadRequest, views.AuthPage(views.AuthPageData{
				Error: "Please enter a valid email.",
				Email: email,
			}))
			return
		}
		s.deps.Logger.Error("sign in failed", zap.Error(err))
		s.render(w, http.StatusInternalServerError, views.AuthPage(views.AuthPageData{
			Error: msgSignInFailed,
			Email: email,
		}))
		return
	}

	token, err := s.deps.Sessions.Create(r.Context(), user.ID)
	if err != nil {
		s.deps.Logger.Error("failed to create session", zap.Error(err), zap.String("user_id", user.ID))
		s.render(w, http.StatusInternalServerError, views.AuthPage(views.AuthPageData{
			Error: msgSignInFailed,
			Email: email,
		}))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.deps.Config.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/databases", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if err := s.deps.Sessions.Delete(r.Context(), c.Value); err != nil {
			s.deps.Logger.Warn("failed to delete session", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/databases", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Pinger != nil {
		if err := s.deps.Pinger.Ping(r.Context()); err != nil {
			s.deps.Logger.Warn("health check failed", zap.Error(err))
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) render(w http.ResponseWriter, status int, node g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := node.Render(w); err != nil {
		s.deps.Logger.Error("render failed", zap.Error(err))
	}
}

func databasesURL(q string) string {
	if q == "" {
		return "/databases"
	}
	return "/databases?q=" + url.QueryEscape(q)
}
