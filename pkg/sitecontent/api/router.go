package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth"

	"github.com/corpsite/sitecontent/pkg/sitecontent"
)

// RouterConfig controls the HTTP surface built by NewRouter.
type RouterConfig struct {
	// JWTSecret signs and verifies admin tokens. The admin routes are
	// mounted only when it is non-empty.
	JWTSecret string

	// AllowedOrigins is passed to the CORS middleware for the public API.
	AllowedOrigins []string

	// UploadsDir, when set, is served read-only under /uploads for the
	// filesystem blob backend.
	UploadsDir string
}

// NewRouter builds the full HTTP handler: public site endpoints under
// /api, admin endpoints under /api/admin behind JWT auth, and optional
// static serving of uploaded assets.
func NewRouter(svc sitecontent.Service, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", NewSiteHandler(svc).Routes())

		if cfg.JWTSecret != "" {
			tokenAuth := jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(tokenAuth))
				r.Use(jwtauth.Authenticator)
				r.Mount("/admin", NewAdminHandler(svc).Routes())
			})
		}
	})

	if cfg.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
