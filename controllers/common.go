package controllers

import (
	"strconv"
	"strings"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/middleware"
	"github.com/Piyush-gour/legal-sathi/services"
	"github.com/Piyush-gour/legal-sathi/utils"
	"github.com/gofiber/fiber/v2"
)

// OK writes a success envelope with the given payload merged in.
func OK(c *fiber.Ctx, status int, payload fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// Parse decodes a JSON, form or multipart body into dst.
func Parse(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.Validation("cannot parse request body")
	}
	return nil
}

// Actor returns the principal set by middleware.Protected.
func Actor(c *fiber.Ctx) services.Actor {
	return services.Actor{ID: middleware.UserID(c), Role: middleware.Role(c)}
}

// IDInput accepts the consultation id under either of the names clients use.
type IDInput struct {
	ConsultationID string `json:"consultationId" form:"consultationId"`
	RequestID      string `json:"requestId" form:"requestId"`
	AppointmentID  string `json:"appointmentId" form:"appointmentId"`
}

func (in IDInput) ID() string {
	for _, id := range []string{in.ConsultationID, in.RequestID, in.AppointmentID} {
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
	}
	return ""
}

// UploadImage stores the multipart file under field, if any, and returns its
// URL. No file yields an empty URL.
func UploadImage(c *fiber.Ctx, uploader utils.ImageUploader, field, folder, publicID string) (string, error) {
	header, err := c.FormFile(field)
	if err != nil || header == nil {
		return "", nil
	}
	if uploader == nil {
		return "", apperror.New(apperror.KindUpstreamUnavailable, "image uploads are not configured")
	}
	if ct := header.Header.Get(fiber.HeaderContentType); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", apperror.Validation("%s must be an image", field)
	}

	file, err := header.Open()
	if err != nil {
		return "", apperror.Validation("cannot read %s", field)
	}
	defer file.Close()

	url, err := uploader.Upload(c.UserContext(), file, publicID, folder)
	if err != nil {
		return "", apperror.Wrap(apperror.KindUpstreamUnavailable, err, "image upload failed")
	}
	return url, nil
}

// Optional returns nil for an empty form value.
func Optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

// OptionalInt parses a non-empty form value as an integer.
func OptionalInt(name, v string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, apperror.Validation("%s must be a whole number", name)
	}
	return &n, nil
}
