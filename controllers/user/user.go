package user

import (
	"github.com/Piyush-gour/legal-sathi/controllers"
	"github.com/Piyush-gour/legal-sathi/middleware"
	"github.com/Piyush-gour/legal-sathi/services"
	"github.com/Piyush-gour/legal-sathi/utils"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Lawyers       *services.LawyerService
	Consultations *services.ConsultationService
	Rooms         *services.RoomService
	Uploader      utils.ImageUploader
}

type credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Register handles client sign up
func (h *Handler) Register(c *fiber.Ctx) error {
	var in services.RegisterUserInput
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	u, token, err := h.Auth.RegisterUser(c.UserContext(), in)
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusCreated, fiber.Map{"token": token, "user": u})
}

// Login handles client authentication
func (h *Handler) Login(c *fiber.Ctx) error {
	var in credentials
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	u, token, err := h.Auth.LoginUser(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"token": token, "user": u})
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	u, err := h.Users.Profile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"userData": u})
}

type profileForm struct {
	Name    string `json:"name" form:"name"`
	Phone   string `json:"phone" form:"phone"`
	Address string `json:"address" form:"address"`
	Gender  string `json:"gender" form:"gender"`
	DOB     string `json:"dob" form:"dob"`
}

// UpdateProfile accepts JSON or multipart with an optional "image" file.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var form profileForm
	if err := controllers.Parse(c, &form); err != nil {
		return err
	}
	userID := middleware.UserID(c)
	image, err := controllers.UploadImage(c, h.Uploader, "image", "legalsathi/users", userID)
	if err != nil {
		return err
	}

	u, err := h.Users.UpdateProfile(c.UserContext(), userID, services.UpdateUserInput{
		Name:    controllers.Optional(form.Name),
		Phone:   controllers.Optional(form.Phone),
		Address: controllers.Optional(form.Address),
		Gender:  controllers.Optional(form.Gender),
		DOB:     controllers.Optional(form.DOB),
		Image:   image,
	})
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"message": "Profile updated", "userData": u})
}

func (h *Handler) ListLawyers(c *fiber.Ctx) error {
	lawyers, err := h.Lawyers.ListAvailable(c.UserContext())
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"lawyers": lawyers})
}

func (h *Handler) GetLawyer(c *fiber.Ctx) error {
	lawyer, err := h.Lawyers.Public(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"lawyer": lawyer})
}

func (h *Handler) LawyerSlots(c *fiber.Ctx) error {
	days, err := h.Lawyers.Slots(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"slots": days})
}

func (h *Handler) RequestConsultation(c *fiber.Ctx) error {
	var in services.CreateConsultationInput
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	consultation, err := h.Consultations.Create(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusCreated, fiber.Map{
		"message":      "Consultation request sent",
		"consultation": consultation,
	})
}

func (h *Handler) BookAppointment(c *fiber.Ctx) error {
	var in services.BookAppointmentInput
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	appointment, err := h.Consultations.BookAppointment(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusCreated, fiber.Map{
		"message":     "Appointment booked",
		"appointment": appointment,
	})
}

func (h *Handler) ListConsultations(c *fiber.Ctx) error {
	list, err := h.Consultations.ListForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"consultations": list})
}

func (h *Handler) CancelConsultation(c *fiber.Ctx) error {
	var in controllers.IDInput
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	consultation, err := h.Consultations.Cancel(c.UserContext(), controllers.Actor(c), in.ID())
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{
		"message":      "Consultation cancelled",
		"consultation": consultation,
	})
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
