package http

import (
	"net/http"
	"time"

	"cybercase-service/internal/security"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth     *AuthHandler
	Quiz     *QuizHandler
	Case     *CaseHandler
	Training *TrainingHandler
	WS       *WSHandler
}

// NewRouter assembles the HTTP surface. Quiz sessions and the mission require
// a verified token; the case filesystem, drills, and the leaderboard stay
// open so trainees can explore before signing up.
func NewRouter(tokens *security.TokenManager, h Handlers) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", h.Auth.RegisterRoutes)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokens.JWTAuth()))
			r.Use(Authenticator)

			r.Get("/quiz/start", h.Quiz.Start)
			r.Post("/quiz/submit", h.Quiz.Submit)
			r.Route("/mission", h.Training.RegisterMissionRoutes)
		})

		r.Get("/quiz/leaderboard", h.Quiz.Leaderboard)
		r.Route("/case", h.Case.RegisterRoutes)
		r.Route("/drills", h.Training.RegisterDrillRoutes)
	})

	r.Get("/ws/leaderboard", h.WS.ServeLeaderboard)
	return r
}
