package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/golfteamapp/golfteam-system/handlers"
	"github.com/golfteamapp/golfteam-system/middleware"
	"github.com/golfteamapp/golfteam-system/models"
)

// SetupRoutes mounts the full API. Route-level role gates are coarse; the
// policy layer re-checks ownership and field-level rules per request.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	athleteHandler *handlers.AthleteHandler,
	partnerHandler *handlers.PartnerHandler,
	coachHandler *handlers.CoachHandler,
	eventHandler *handlers.EventHandler,
	scoreHandler *handlers.ScoreHandler,
	dashboardHandler *handlers.DashboardHandler,
	adminDataHandler *handlers.AdminDataHandler,
	liveHandler *handlers.LiveHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	staffOnly := middleware.Authorize(models.RoleAdmin, models.RoleCoach)
	adminOnly := middleware.Authorize(models.RoleAdmin)
	scoreRoles := middleware.Authorize(models.RoleAdmin, models.RoleCoach, models.RolePartner)
	anyRole := middleware.Authorize(models.RoleAdmin, models.RoleCoach, models.RolePartner, models.RoleAthlete)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	// Live score feed; the socket carries no mutations.
	router.Get("/events/{eventID}/live", liveHandler.Subscribe)

	router.Route("/athletes", func(r chi.Router) {
		r.Use(authenticate)

		r.With(scoreRoles).Get("/", athleteHandler.List)
		r.With(scoreRoles).Get("/{athleteID}", athleteHandler.GetByID)
		r.With(scoreRoles).Put("/{athleteID}", athleteHandler.Update)
		r.With(scoreRoles).Post("/{athleteID}/picture", athleteHandler.UploadPicture)

		r.With(staffOnly).Post("/", athleteHandler.Create)
		r.With(staffOnly).Delete("/{athleteID}", athleteHandler.Delete)
	})

	router.Route("/partners", func(r chi.Router) {
		r.Use(authenticate)

		// Creation is open to any authenticated identity: self-registration.
		r.Post("/", partnerHandler.Create)

		r.With(scoreRoles).Get("/", partnerHandler.List)
		r.With(scoreRoles).Get("/{partnerID}", partnerHandler.GetByID)
		r.With(middleware.Authorize(models.RoleAdmin, models.RolePartner)).Put("/{partnerID}", partnerHandler.Update)
		r.With(adminOnly).Delete("/{partnerID}", partnerHandler.Delete)
	})

	router.Route("/coaches", func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/", coachHandler.Create)

		r.With(scoreRoles).Get("/", coachHandler.List)
		r.With(scoreRoles).Get("/{coachID}", coachHandler.GetByID)
		r.With(staffOnly).Put("/{coachID}", coachHandler.Update)
		r.With(adminOnly).Delete("/{coachID}", coachHandler.Delete)
	})

	router.Route("/events", func(r chi.Router) {
		r.Use(authenticate)

		r.With(anyRole).Get("/", eventHandler.List)
		r.With(anyRole).Get("/{eventID}", eventHandler.GetByID)

		r.With(staffOnly).Post("/", eventHandler.Create)
		r.With(staffOnly).Put("/{eventID}", eventHandler.Update)
		r.With(staffOnly).Delete("/{eventID}", eventHandler.Delete)
	})

	router.Route("/scores", func(r chi.Router) {
		r.Use(authenticate)

		r.With(scoreRoles).Get("/", scoreHandler.List)
		r.With(scoreRoles).Get("/{scoreID}", scoreHandler.GetByID)
		r.With(scoreRoles).Post("/", scoreHandler.Create)
		r.With(scoreRoles).Put("/{scoreID}", scoreHandler.Update)

		r.With(staffOnly).Delete("/{scoreID}", scoreHandler.Delete)
	})

	router.Route("/dashboard", func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/", dashboardHandler.Index)
		r.With(adminOnly).Get("/admin", dashboardHandler.Admin)
		r.With(middleware.Authorize(models.RoleCoach)).Get("/coach", dashboardHandler.Coach)
		r.With(middleware.Authorize(models.RolePartner)).Get("/partner", dashboardHandler.Partner)
		r.With(middleware.Authorize(models.RoleAthlete)).Get("/athlete", dashboardHandler.Athlete)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)

		r.Get("/data", adminDataHandler.Export)
	})
}
