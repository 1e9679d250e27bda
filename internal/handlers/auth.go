package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uep-freelance/freelance_web/internal/apperr"
	"github.com/uep-freelance/freelance_web/internal/middleware"
	"github.com/uep-freelance/freelance_web/internal/router"
	"github.com/uep-freelance/freelance_web/internal/services"
	"github.com/uep-freelance/freelance_web/internal/ui"
	"github.com/uep-freelance/freelance_web/internal/validation"
)

var errBadForm = &apperr.ValidationError{Fields: apperr.FieldErrors{"form": {"Please fill in all required fields"}}}

// AuthHandler covers the account actions: login, registration, logout and
// profile edits.
type AuthHandler struct {
	*Shell
	Backend   services.Backend
	Validator *validation.Validator
}

func (h *AuthHandler) Routes(r fiber.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/register", h.Register)
	r.Post("/auth/logout", h.Logout)
	r.Post("/profile", middleware.RequireRoles(""), h.UpdateProfile)
}

type loginReq struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}

	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		h.fail(f, "login", errBadForm)
		return h.back(f)
	}
	creds, err := h.Validator.Login(services.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(f, "login", err)
		return h.back(f)
	}

	u, err := f.h.Login(f.ctx(), creds)
	if err != nil {
		h.fail(f, "login", err)
		return h.back(f)
	}
	f.st.User = u
	f.st.UI.Modals.Hide(ui.LoginModal)
	f.st.UI.Modals.Hide(ui.RegisterModal)
	h.success(f, "Welcome back, "+u.FirstName+"!")

	dest := router.Dashboard
	if u.IsAdmin() {
		dest = router.AdminDashboard
	} else if next := router.ParsePage(req.Next); req.Next != "" && router.Permits(u, next) {
		dest = next
	}
	return h.redirect(f, pageURL(dest))
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}

	var form validation.RegistrationForm
	if err := c.BodyParser(&form); err != nil {
		h.fail(f, "register", errBadForm)
		return h.back(f)
	}
	reg, err := h.Validator.Registration(form)
	if err != nil {
		h.fail(f, "register", err)
		return h.back(f)
	}

	res, err := h.Backend.Register(f.ctx(), reg)
	if err != nil {
		h.fail(f, "register", err)
		return h.back(f)
	}
	f.st.UI.Modals.Hide(ui.RegisterModal)
	h.success(f, res.Message)

	if res.Auth == nil {
		f.st.UI.Modals.Show(ui.LoginModal, nil)
		return h.back(f)
	}
	if err := f.h.Adopt(f.ctx(), res.Auth); err != nil {
		return h.storageErr(err)
	}
	return h.redirect(f, pageURL(router.Dashboard))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}
	if err := f.h.Logout(f.ctx()); err != nil {
		return h.storageErr(err)
	}
	f.st.User = nil
	f.st.UI.Modals.HideAll()
	h.Router.Notify(f.st, ui.AlertInfo, "You have been logged out")
	if err := f.h.SetPage(f.ctx(), string(router.Home)); err != nil {
		return h.storageErr(err)
	}
	return h.redirect(f, pageURL(router.Home))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	f, err := h.begin(c)
	if err != nil {
		return err
	}

	var form validation.ProfileForm
	if err := c.BodyParser(&form); err != nil {
		h.fail(f, "update profile", errBadForm)
		return h.back(f)
	}
	in, err := h.Validator.Profile(form)
	if err != nil {
		h.fail(f, "update profile", err)
		return h.back(f)
	}

	updated, err := h.Backend.UpdateProfile(f.ctx(), f.st.Token, in)
	if err != nil {
		h.fail(f, "update profile", err)
		return h.back(f)
	}
	if updated.ID == 0 || updated.Role == "" {
		// the server echoed a partial record
		merged := *f.st.User
		merged.FirstName, merged.LastName, merged.Phone = in.FirstName, in.LastName, in.Phone
		if in.Bio != "" {
			merged.Bio = in.Bio
		}
		if in.Skills != "" {
			merged.Skills = in.Skills
		}
		updated = &merged
	}
	if err := f.h.SaveUser(f.ctx(), *updated); err != nil {
		return h.storageErr(err)
	}
	h.success(f, "Profile updated successfully!")
	return h.redirect(f, pageURL(router.Profile))
}
