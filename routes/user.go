package routes

import (
	"github.com/Piyush-gour/legal-sathi/controllers/user"
	"github.com/Piyush-gour/legal-sathi/middleware"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes configures the client facing routes
func SetupUserRoutes(app *fiber.App, d Deps) {
	h := &user.Handler{
		Auth:          d.Auth,
		Users:         d.Users,
		Lawyers:       d.Lawyers,
		Consultations: d.Consultations,
		Rooms:         d.Rooms,
		Uploader:      d.Uploader,
	}
	auth := middleware.RateLimit(d.Limiter, "user-auth", d.Log)
	protected := []fiber.Handler{middleware.Protected(d.JWTSecret), middleware.RequireRole(models.RoleUser)}

	group := app.Group("/api/user")

	// Public routes
	group.Post("/register", auth, h.Register)
	group.Post("/login", auth, h.Login)
	group.Get("/lawyers", h.ListLawyers)
	group.Get("/lawyers/:id", h.GetLawyer)
	group.Get("/lawyers/:id/slots", h.LawyerSlots)

	// Protected routes
	group.Get("/get-profile", append(protected, h.GetProfile)...)
	group.Post("/update-profile", append(protected, h.UpdateProfile)...)
	group.Post("/request-consultation", append(protected, h.RequestConsultation)...)
	group.Post("/book-appointment", append(protected, h.BookAppointment)...)
	group.Get("/consultations", append(protected, h.ListConsultations)...)
	group.Post("/cancel-consultation", append(protected, h.CancelConsultation)...)
	group.Post("/room-token", append(protected, h.RoomToken)...)
}
