package routes

import (
	"github.com/Piyush-gour/legal-sathi/controllers/lawyer"
	"github.com/Piyush-gour/legal-sathi/middleware"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/gofiber/fiber/v2"
)

// SetupLawyerRoutes configures the lawyer panel routes
func SetupLawyerRoutes(app *fiber.App, d Deps) {
	h := &lawyer.Handler{
		Auth:          d.Auth,
		Lawyers:       d.Lawyers,
		Consultations: d.Consultations,
		Dashboards:    d.Dashboards,
		Rooms:         d.Rooms,
		Uploader:      d.Uploader,
	}
	auth := middleware.RateLimit(d.Limiter, "lawyer-auth", d.Log)

	group := app.Group("/api/lawyer")
	group.Post("/register", auth, h.Register)
	group.Post("/login", auth, h.Login)

	panel := group.Group("", middleware.Protected(d.JWTSecret), middleware.RequireRole(models.RoleLawyer))
	panel.Get("/profile", h.Profile)
	panel.Post("/update-profile", h.UpdateProfile)
	panel.Post("/change-availability", h.ChangeAvailability)
	panel.Get("/consultation-requests", h.ConsultationRequests)
	panel.Post("/consultation-request/accept", h.Accept)
	panel.Post("/consultation-request/reject", h.Reject)
	panel.Post("/consultation-request/complete", h.Complete)
	panel.Post("/consultation-request/cancel", h.Cancel)
	panel.Get("/dashboard", h.Dashboard)
	panel.Post("/room-token", h.RoomToken)
}
