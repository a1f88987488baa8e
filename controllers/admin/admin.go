package admin

import (
	"github.com/Piyush-gour/legal-sathi/controllers"
	"github.com/Piyush-gour/legal-sathi/services"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Lawyers       *services.LawyerService
	Consultations *services.ConsultationService
	Dashboards    *services.DashboardService
}

type lawyerInput struct {
	LawyerID string `json:"lawyerId" form:"lawyerId"`
	DocID    string `json:"docId" form:"docId"`
}

func (in lawyerInput) id() string {
	if in.LawyerID != "" {
		return in.LawyerID
	}
	return in.DocID
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	token, err := h.Auth.LoginAdmin(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"token": token})
}

func (h *Handler) AllLawyers(c *fiber.Ctx) error {
	lawyers, err := h.Lawyers.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"lawyers": lawyers})
}

func (h *Handler) PendingLawyers(c *fiber.Ctx) error {
	lawyers, err := h.Lawyers.ListPending(c.UserContext())
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"lawyers": lawyers})
}

func (h *Handler) ApproveLawyer(c *fiber.Ctx) error {
	var in lawyerInput
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	if err := h.Lawyers.Approve(c.UserContext(), in.id()); err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"message": "Lawyer approved"})
}

// RejectLawyer deletes a registration that is still pending approval.
func (h *Handler) RejectLawyer(c *fiber.Ctx) error {
	var in lawyerInput
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	if err := h.Lawyers.Reject(c.UserContext(), in.id()); err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"message": "Lawyer registration rejected"})
}

func (h *Handler) ChangeAvailability(c *fiber.Ctx) error {
	var in lawyerInput
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	available, err := h.Lawyers.ToggleAvailability(c.UserContext(), in.id())
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"message": "Availability changed", "available": available})
}

func (h *Handler) AllConsultations(c *fiber.Ctx) error {
	list, err := h.Consultations.ListAll(c.UserContext())
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
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"message": "Consultation cancelled", "consultation": consultation})
}

func (h *Handler) BlockUser(c *fiber.Ctx) error {
	var in struct {
		UserID  string `json:"userId" form:"userId"`
		Blocked *bool  `json:"blocked" form:"blocked"`
	}
	if err := controllers.Parse(c, &in); err != nil {
		return err
	}
	blocked := true
	if in.Blocked != nil {
		blocked = *in.Blocked
	}
	if err := h.Users.SetBlocked(c.UserContext(), in.UserID, blocked); err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"message": "User updated", "blocked": blocked})
}

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Dashboards.Admin(c.UserContext())
	if err != nil {
		return err
	}
	return controllers.OK(c, fiber.StatusOK, fiber.Map{"dashData": d})
}
