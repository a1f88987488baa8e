package lawyer

import (
	"context"

	"github.com/Piyush-gour/legal-sathi/controllers"
	"github.com/Piyush-gour/legal-sathi/middleware"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/services"
	"github.com/Piyush-gour/legal-sathi/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	Auth          *services.AuthService
	Lawyers       *services.LawyerService
	Consultations *services.ConsultationService
	Dashboards    *services.DashboardService
	Rooms         *services.RoomService
	Uploader      utils.ImageUploader
}

type registerForm struct {
	Name          string `json:"name" form:"name"`
	Email         string `json:"email" form:"email"`
	Password      string `json:"password" form:"password"`
	Speciality    string `json:"speciality" form:"speciality"`
	Qualification string `json:"qualification" form:"qualification"`
	Experience    string `json:"experience" form:"experience"`
	About         string `json:"about" form:"about"`
	Fees          string `json:"fees" form:"fees"`
	Address       string `json:"address" form:"address"`
	BarID         string `json:"barId" form:"barId"`
}

// Register stores a lawyer awaiting approval. Multipart with an optional
// "image" file.
func (h *Handler) Register(c *fiber.Ctx) error {
	var form registerForm
	if err := controllers.Parse(c, &form); err != nil {
		return err
	}
	fees, err := controllers.OptionalInt("fees", form.Fees)
	if err != nil {
		return err
	}
	in := services.RegisterLawyerInput{
		Name:          form.Name,
		Email:         form.Email,
		Password:      form.Password,
		Speciality:    form.Speciality,
		Qualification: form.Qualification,
		Experience:    form.Experience,
		About:         form.About,
		Address:       form.Address,
		BarID:         form.BarID,
	}
	if fees != nil {
		in.Fees = *fees
	}

	in.Image, err = controllers.UploadImage(c, h.Uploader, "image", "legalsathi/lawyers", uuid.NewString())
	if err != nil {
		return err
	}

	lawyer, err := h.Auth.RegisterLawyer(c.UserContext(), in)
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusCreated, fiber.Map{
		"message": "Registration received, your profile is pending admin approval",
		"lawyer":  lawyer,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	lawyer, token, err := h.Auth.LoginLawyer(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"token": token, "lawyer": lawyer})
}

func (h *Handler) Profile(c *fiber.Ctx) error {
	lawyer, err := h.Lawyers.Profile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"profileData": lawyer})
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var form registerForm
	if err := controllers.Parse(c, &form); err != nil {
		return err
	}
	fees, err := controllers.OptionalInt("fees", form.Fees)
	if err != nil {
		return err
	}
	lawyerID := middleware.UserID(c)
	image, err := controllers.UploadImage(c, h.Uploader, "image", "legalsathi/lawyers", lawyerID)
	if err != nil {
		return err
	}

	lawyer, err := h.Lawyers.UpdateProfile(c.UserContext(), lawyerID, services.UpdateLawyerInput{
		Name:          controllers.Optional(form.Name),
		Speciality:    controllers.Optional(form.Speciality),
		Qualification: controllers.Optional(form.Qualification),
		Experience:    controllers.Optional(form.Experience),
		About:         controllers.Optional(form.About),
		Fees:          fees,
		Address:       controllers.Optional(form.Address),
		Image:         image,
	})
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"message": "Profile updated", "profileData": lawyer})
}

func (h *Handler) ChangeAvailability(c *fiber.Ctx) error {
	available, err := h.Lawyers.ToggleAvailability(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"message": "Availability changed", "available": available})
}

func (h *Handler) ConsultationRequests(c *fiber.Ctx) error {
	list, err := h.Consultations.ListForLawyer(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"consultations": list})
}

func (h *Handler) Accept(c *fiber.Ctx) error {
	return h.act(c, "Consultation accepted", h.Consultations.Accept)
}

func (h *Handler) Reject(c *fiber.Ctx) error {
	return h.act(c, "Consultation rejected", h.Consultations.Reject)
}

func (h *Handler) Complete(c *fiber.Ctx) error {
	return h.act(c, "Consultation completed", h.Consultations.Complete)
}

func (h *Handler) Cancel(c *fiber.Ctx) error {
	var in controllers.IDInput
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	consultation, err := h.Consultations.Cancel(c.UserContext(), controllers.Actor(c), in.ID())
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"message": "Consultation cancelled", "consultation": consultation})
}

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Dashboards.Lawyer(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"dashData": d})
}

func (h *Handler) RoomToken(c *fiber.Ctx) error {
	var in controllers.IDInput
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	access, err := h.Rooms.Join(c.UserContext(), controllers.Actor(c), in.ID())
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{
		"token":    access.Token,
		"room":     access.Room,
		"identity": access.Identity,
	})
}

type transitionFunc func(ctx context.Context, lawyerID, id string) (*models.Consultation, error)

func (h *Handler) act(c *fiber.Ctx, message string, fn transitionFunc) error {
	var in controllers.IDInput
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	consultation, err := fn(c.UserContext(), middleware.UserID(c), in.ID())
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"message": message, "consultation": consultation})
}
