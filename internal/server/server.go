package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fittrack/internal/food"
	"github.com/meltforce/fittrack/internal/goals"
	"github.com/meltforce/fittrack/internal/storage"
	"github.com/meltforce/fittrack/internal/workout"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	workouts *workout.Service
	goals    *goals.Service
	food     *food.Service
	repo     *storage.Repository
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(workouts *workout.Service, goalSvc *goals.Service, foodSvc *food.Service, repo *storage.Repository, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		workouts: workouts,
		goals:    goalSvc,
		food:     foodSvc,
		repo:     repo,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Get("/templates", s.handleListTemplates)
		r.Post("/templates", s.handleCreateTemplate)
		r.Get("/templates/{id}", s.handleGetTemplate)
		r.Put("/templates/{id}", s.handleUpdateTemplate)
		r.Delete("/templates/{id}", s.handleDeleteTemplate)

		r.Route("/workout", func(r chi.Router) {
			r.Get("/active", s.handleActiveWorkout)
			r.Post("/start", s.handleStartWorkout)
			r.Post("/pause", s.handlePauseWorkout)
			r.Post("/resume", s.handleResumeWorkout)
			r.Post("/finish", s.handleFinishWorkout)
			r.Post("/cancel", s.handleCancelWorkout)

			r.Post("/exercises/{ex}/sets", s.handleAddSet)
			r.Put("/exercises/{ex}/sets/{set}", s.handleUpdateSet)
			r.Delete("/exercises/{ex}/sets/{set}", s.handleDeleteSet)
			r.Post("/exercises/{ex}/sets/{set}/complete", s.handleCompleteSet)
			r.Post("/exercises/{ex}/sets/{set}/failure", s.handleFailSet)
		})

		r.Get("/workouts/history", s.handleWorkoutHistory)
		r.Delete("/workouts/history/{id}", s.handleDeleteHistoryEntry)

		r.Get("/goals", s.handleListGoals)
		r.Post("/goals", s.handleSaveGoal)
		r.Get("/goals/active", s.handleActiveGoals)
		r.Get("/goals/daily", s.handleDailyGoals)
		r.Post("/goals/refresh", s.handleRefreshGoals)
		r.Get("/goals/nutrition", s.handleGetNutritionGoals)
		r.Put("/goals/nutrition", s.handleSaveNutritionGoals)
		r.Put("/goals/{id}/progress", s.handleGoalProgress)
		r.Delete("/goals/{id}", s.handleDeleteGoal)

		r.Get("/food", s.handleListFood)
		r.Post("/food", s.handleAddFood)
		r.Get("/food/totals", s.handleFoodTotals)
		r.Post("/food/recognize", s.handleRecognizeFood)
		r.Delete("/food/{id}", s.handleDeleteFood)

		r.Get("/stats", s.handleStats)
		r.Get("/settings/api-key", s.handleGetRecognitionKey)
		r.Put("/settings/api-key", s.handleSaveRecognitionKey)
	})
}

// MountMCP serves an MCP transport under /mcp behind the API key.
func (s *Server) MountMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Mount("/mcp", h)
}

// ServeUploads exposes locally stored food photos under /uploads/ behind the
// API key.
func (s *Server) ServeUploads(dir string) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir))))
}
