package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/thiagorragazzo/quiz-unisa-avc/internal/handlers"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/middleware"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/websocket"
)

func New(
	sessionHandler *handlers.SessionHandler,
	preferencesHandler *handlers.PreferencesHandler,
	offlineHandler *handlers.OfflineHandler,
	wsHub *websocket.Hub,
	frontendURL string,
	staticDir string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Session creation limiter (30 req/min per IP)
	startLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(startLimiter.Middleware)
				r.Post("/", sessionHandler.Start)
			})

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Delete)
				r.Post("/answer", sessionHandler.Answer)
				r.Put("/confidence", sessionHandler.Confidence)
				r.Post("/mark", sessionHandler.Mark)
				r.Post("/strike", sessionHandler.Strike)
				r.Post("/navigate", sessionHandler.Navigate)
				r.Post("/finish", sessionHandler.Finish)
				r.Get("/result", sessionHandler.Result)
				r.Get("/export", sessionHandler.Export)
			})
		})

		// ──── Preference Routes ────
		r.Route("/preferences", func(r chi.Router) {
			r.Get("/theme", preferencesHandler.GetTheme)
			r.Put("/theme", preferencesHandler.SetTheme)
		})

		// ──── Offline Cache Routes ────
		r.Route("/offline", func(r chi.Router) {
			r.Post("/install", offlineHandler.Install)
			r.Post("/activate", offlineHandler.Activate)
			r.Post("/message", offlineHandler.Message)
			r.Get("/fetch", offlineHandler.Fetch)
			r.Get("/status", offlineHandler.Status)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	// App shell for the quiz screen
	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}

	return r
}
