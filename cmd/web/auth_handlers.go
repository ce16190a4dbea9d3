package main

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/MarcEnDev/trackanddecker/internal/httputil"
	"github.com/MarcEnDev/trackanddecker/internal/middleware"
	"github.com/MarcEnDev/trackanddecker/views"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
)

func (app *application) loginPage(w http.ResponseWriter, r *http.Request) {
	var providers []string
	for name := range goth.GetProviders() {
		providers = append(providers, name)
	}
	sort.Strings(providers)

	if err := views.Render(w, r, views.LoginPage(providers)); err != nil {
		slog.Error("failed to render login page", "error", err)
	}
}

func (app *application) guestLogin(w http.ResponseWriter, r *http.Request) {
	user, err := app.users.EnsureGuestUser(r.Context())
	if err != nil {
		httputil.InternalServerError(w, "Failed to login as guest", err)
		return
	}
	if err := app.signIn(r.Context(), user.ID); err != nil {
		httputil.InternalServerError(w, "Failed to start session", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (app *application) beginAuth(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

	gothic.BeginAuthHandler(w, r)
}

func (app *application) authCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		httputil.BadRequest(w, "Authentication failure", err)
		return
	}

	user, err := app.users.FindOrCreateUserByProvider(r.Context(), gothUser)
	if err != nil {
		httputil.InternalServerError(w, "Failed to find or create user", err)
		return
	}
	if err := app.signIn(r.Context(), user.ID); err != nil {
		httputil.InternalServerError(w, "Failed to start session", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessions.Destroy(r.Context()); err != nil {
		httputil.InternalServerError(w, "Failed to end session", err)
		return
	}
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (app *application) signIn(ctx context.Context, userID uuid.UUID) error {
	if err := app.sessions.RenewToken(ctx); err != nil {
		return err
	}
	app.sessions.Put(ctx, middleware.SessionUserKey, userID.String())
	return nil
}
