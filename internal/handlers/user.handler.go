package handlers

import (
	"hypeshelf/internal/app"
	"hypeshelf/internal/apperrors"
	"hypeshelf/internal/handlers/middleware"
	"hypeshelf/internal/logger"

	userController "hypeshelf/internal/controllers/users"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		userController: app.Controllers.User,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")

	users.Post("/", h.middleware.RequireIdentity(), h.createOrGetUser)

	// Readable without a provisioned user; an invalid or missing token
	// just means an anonymous answer.
	users.Get("/me", h.middleware.OptionalIdentity(), h.getCurrentUser)
	users.Get("/me/admin", h.middleware.OptionalIdentity(), h.isAdmin)
}

// createOrGetUser provisions a user for the verified identity. The first
// user ever provisioned becomes the admin. Idempotent per identity.
func (h *UserHandler) createOrGetUser(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return respondError(c, apperrors.AuthRequired())
	}

	user, created, err := h.userController.GetOrCreate(c.UserContext(), *identity)
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}

	return c.Status(status).JSON(fiber.Map{
		"user": user,
	})
}

// getCurrentUser returns the provisioned user for the caller, or null
// when the caller is anonymous or not yet provisioned.
func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return c.JSON(fiber.Map{"user": nil})
	}

	user, err := h.userController.GetCurrent(c.UserContext(), identity.Subject)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// isAdmin reports whether the caller is the admin. Anonymous callers and
// unknown identities get false, never an error.
func (h *UserHandler) isAdmin(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return c.JSON(fiber.Map{"isAdmin": false})
	}

	isAdmin, err := h.userController.IsAdmin(c.UserContext(), identity.Subject)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"isAdmin": isAdmin})
}
