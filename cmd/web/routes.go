package main

import (
	"net/http"

	"github.com/MarcEnDev/trackanddecker/internal/catalog"
	"github.com/MarcEnDev/trackanddecker/internal/config"
	"github.com/MarcEnDev/trackanddecker/internal/middleware"
	"github.com/MarcEnDev/trackanddecker/internal/service"
	"github.com/MarcEnDev/trackanddecker/internal/store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type application struct {
	sessions  *scs.SessionManager
	userStore *store.UserStore
	users     *service.UserService
	groups    *service.GroupService
	decks     *catalog.Catalog
	cfg       config.Config
}

func newApplication(database *sqlx.DB, sessionManager *scs.SessionManager, decks *catalog.Catalog, cfg config.Config) *application {
	userStore := store.NewUserStore(database)
	return &application{
		sessions:  sessionManager,
		userStore: userStore,
		users:     service.NewUserService(database, userStore),
		groups:    service.NewGroupService(database, store.NewGroupStore(database)),
		decks:     decks,
		cfg:       cfg,
	}
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(app.sessions.LoadAndSave)
	r.Use(middleware.LoadAuthenticatedUser(app.sessions, app.userStore))

	fileServer := http.FileServer(http.Dir(app.cfg.StaticDir))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	r.Get("/decks.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, app.cfg.DecksPath)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/login", app.loginPage)
	r.Post("/auth/guest", app.guestLogin)
	r.Get("/auth/{provider}", app.beginAuth)
	r.Get("/auth/{provider}/callback", app.authCallback)
	r.Post("/logout", app.logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", app.index)
		r.Post("/groups", app.createGroup)
		r.Post("/groups/member-field", app.memberField)

		r.Route("/groups/{id}", func(r chi.Router) {
			r.Get("/", app.groupPage)
			r.Get("/{slug}", app.groupPage)
			r.Post("/delete", app.deleteGroup)
			r.Post("/finish", app.finishGroup)
			r.Post("/session", app.selectMember)
			r.Post("/members", app.addMember)
			r.Post("/members/{memberID}/delete", app.removeMember)
			r.Post("/members/{memberID}/wins", app.addWin)
			r.Post("/members/{memberID}/profile", app.updateProfile)
			r.Post("/matches/{matchID}/winner", app.recordWinner)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: app.cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		r.Get("/decks", app.searchDecks)
		r.With(middleware.RequireAuth).Get("/groups/{id}", app.groupJSON)
	})

	return r
}
