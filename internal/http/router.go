package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"whispermap/internal/auth"
	"whispermap/internal/config"
	"whispermap/internal/http/handler"
	mw "whispermap/internal/http/middleware"
	"whispermap/internal/realtime"
	"whispermap/internal/story"
)

const (
	storyLimitMsg  = "you have shared too many stories, please wait a few minutes before posting again"
	reportLimitMsg = "you have sent too many reports, please wait a few minutes before trying again"
)

func NewRouter(cfg config.Config, svc *story.Service, hub *realtime.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(mw.Logger)
	r.Use(mw.Recover)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	ws := &handler.WSHandler{Hub: hub, AllowedOrigins: cfg.CORSAllowedOrigins}
	r.Get("/ws", ws.Serve)

	sh := &handler.StoryHandler{Svc: svc}
	rh := &handler.ReactionHandler{Svc: svc}
	reph := &handler.ReportHandler{Svc: svc}

	r.Route("/stories", func(r chi.Router) {
		r.Get("/", sh.List)
		r.Get("/trending", sh.Trending)
		r.With(mw.RateLimit(cfg.StoryRateLimit, cfg.StoryRateWindow, storyLimitMsg)).Post("/", sh.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sh.Get)

			r.Post("/react", rh.React)
			r.Delete("/react", rh.Unreact)
			r.Post("/react/toggle", rh.Toggle)

			r.With(mw.RateLimit(cfg.ReportRateLimit, cfg.ReportRateWindow, reportLimitMsg)).Post("/report", reph.Report)
		})
	})

	if cfg.AdminEnabled() {
		jwtSvc := auth.NewJWT(cfg.JWTSecret, cfg.AdminTokenTTL)
		ah := &handler.AdminHandler{
			Admin: auth.Admin{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash},
			JWT:   jwtSvc,
			Svc:   svc,
		}

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", ah.Login)
			r.With(auth.RequireAdmin(jwtSvc)).Get("/reports", ah.Reports)
		})
	}

	return r
}
