package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"promptstudio-backend/internal/handlers"
	"promptstudio-backend/internal/middleware"
	"promptstudio-backend/internal/web"
	"promptstudio-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	sessionHandler *handlers.SessionHandler,
	debateHandler *handlers.DebateHandler,
	summaryHandler *handlers.SummaryHandler,
	assistantHandler *handlers.AssistantHandler,
	brochureHandler *handlers.BrochureHandler,
	posterHandler *handlers.PosterHandler,
	jobHandler *handlers.JobHandler,
	webHandler *web.Handler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Session mint rate limiter (10 req/min per IP)
	sessionLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Embedded form pages
	r.Get("/", webHandler.Index)
	r.Get("/tools/{tool}", webHandler.ToolPage)

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(sessionLimiter.Middleware)
				r.Post("/", sessionHandler.Create)
			})

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/me", sessionHandler.Get)
			})
		})

		// ──── Debate Routes ────
		r.Route("/debates", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", debateHandler.Create)
			r.Get("/", debateHandler.List)
			r.Get("/{id}", debateHandler.Get)
			r.Delete("/{id}", debateHandler.Delete)
		})

		// ──── Summary Routes ────
		r.Route("/summaries", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", summaryHandler.Create)
			r.Get("/", summaryHandler.List)
			r.Get("/{id}", summaryHandler.Get)
			r.Delete("/{id}", summaryHandler.Delete)
		})

		// ──── Assistant Routes ────
		r.Route("/assistant", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/ask", assistantHandler.Ask)
		})

		// ──── Brochure Routes ────
		r.Route("/brochures", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", brochureHandler.Create)
			r.Get("/", brochureHandler.List)
			r.Get("/{id}", brochureHandler.Get)
			r.Delete("/{id}", brochureHandler.Delete)
		})

		// ──── Poster Routes ────
		r.Route("/posters", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", posterHandler.Create)
			r.Get("/", posterHandler.List)
			r.Get("/{id}", posterHandler.Get)
			r.Get("/{id}/image", posterHandler.Image)
			r.Delete("/{id}", posterHandler.Delete)
		})

		// ──── Job Routes ────
		r.Route("/jobs", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/{id}", jobHandler.Get)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
