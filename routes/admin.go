package routes

import (
	"github.com/Piyush-gour/legal-sathi/controllers/admin"
	"github.com/Piyush-gour/legal-sathi/middleware"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes configures the admin panel routes
func SetupAdminRoutes(app *fiber.App, d Deps) {
	h := &admin.Handler{
		Auth:          d.Auth,
		Users:         d.Users,
		Lawyers:       d.Lawyers,
		Consultations: d.Consultations,
		Dashboards:    d.Dashboards,
	}

	group := app.Group("/api/admin")
	group.Post("/login", middleware.RateLimit(d.Limiter, "admin-auth", d.Log), h.Login)

	panel := group.Group("", middleware.Protected(d.JWTSecret), middleware.RequireRole(models.RoleAdmin))
	panel.Get("/all-lawyers", h.AllLawyers)
	panel.Get("/pending-lawyers", h.PendingLawyers)
	panel.Post("/approve-lawyer", h.ApproveLawyer)
	panel.Post("/reject-lawyer", h.RejectLawyer)
	panel.Post("/change-availability", h.ChangeAvailability)
	panel.Get("/consultations", h.AllConsultations)
	panel.Post("/cancel-consultation", h.CancelConsultation)
	panel.Post("/block-user", h.BlockUser)
	panel.Get("/dashboard", h.Dashboard)
}
