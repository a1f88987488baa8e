package controllers

import (
	"context"
	"time"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/gofiber/fiber/v2"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	Store Pinger
}

func (h *Health) Root(c *fiber.Ctx) error {
	return c.SendString("LegalSathi API is running")
}

// Healthz pings the store with a short deadline.
func (h *Health) Healthz(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		return apperror.Wrap(apperror.KindUpstreamUnavailable, err, "store unreachable")
	}
	return OK(c, fiber.StatusOK, fiber.Map{"status": "ok"})
}
