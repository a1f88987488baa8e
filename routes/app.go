package routes

import (
	"errors"
	"strings"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/controllers"
	"github.com/Piyush-gour/legal-sathi/middleware"
	"github.com/Piyush-gour/legal-sathi/repository"
	"github.com/Piyush-gour/legal-sathi/services"
	"github.com/Piyush-gour/legal-sathi/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Log         zerolog.Logger
	JWTSecret   string
	CORSOrigins []string
	// BodyLimit caps request bodies, including multipart uploads.
	BodyLimit int

	Store         repository.Store
	Auth          *services.AuthService
	Users         *services.UserService
	Lawyers       *services.LawyerService
	Consultations *services.ConsultationService
	Dashboards    *services.DashboardService
	Rooms         *services.RoomService
	Uploader      utils.ImageUploader
	// Limiter throttles login and registration; nil disables throttling.
	Limiter middleware.Allower
}

// NewApp builds the fiber application with every route group mounted.
func NewApp(d Deps) *fiber.App {
	if d.BodyLimit == 0 {
		d.BodyLimit = 8 * 1024 * 1024
	}
	app := fiber.New(fiber.Config{
		AppName:      "legalsathi",
		BodyLimit:    d.BodyLimit,
		ErrorHandler: ErrorHandler(d.Log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Log))

	origins := "*"
	if len(d.CORSOrigins) > 0 {
		origins = strings.Join(d.CORSOrigins, ",")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, token, aToken, dToken",
	}))

	health := &controllers.Health{Store: d.Store}
	app.Get("/", health.Root)
	app.Get("/healthz", health.Healthz)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	SetupUserRoutes(app, d)
	SetupLawyerRoutes(app, d)
	SetupAdminRoutes(app, d)

	app.Use(func(c *fiber.Ctx) error {
		return apperror.NotFound("route %s %s not found", c.Method(), c.Path())
	})
	return app
}

// ErrorHandler renders every error as {"success": false, "kind", "message"}
// with the status of its kind.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(utils.ErrorResponse{
				Success: false,
				Kind:    string(kindForStatus(fe.Code)),
				Message: fe.Message,
			})
		}

		appErr := apperror.From(err)
		if appErr.Kind == apperror.KindInternal {
			log.Error().Err(err).Str("path", c.Path()).Msg("internal error")
		}
		return c.Status(appErr.Status()).JSON(utils.ErrorResponse{
			Success: false,
			Kind:    string(appErr.Kind),
			Message: appErr.Message,
		})
	}
}

func kindForStatus(code int) apperror.Kind {
	switch {
	case code == fiber.StatusUnauthorized:
		return apperror.KindUnauthenticated
	case code == fiber.StatusForbidden:
		return apperror.KindForbidden
	case code == fiber.StatusNotFound || code == fiber.StatusMethodNotAllowed:
		return apperror.KindNotFound
	case code == fiber.StatusTooManyRequests:
		return apperror.KindRateLimited
	case code >= 400 && code < 500:
		return apperror.KindValidation
	}
	return apperror.KindInternal
}
