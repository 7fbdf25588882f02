package handlers

import (
	"strconv"

	"hypeshelf/internal/app"
	"hypeshelf/internal/apperrors"
	"hypeshelf/internal/handlers/middleware"
	"hypeshelf/internal/logger"

	adminController "hypeshelf/internal/controllers/admin"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		adminController: app.Controllers.Admin,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin",
		h.middleware.RequireUser(),
		h.middleware.RequireAdmin(),
	)

	admin.Get("/activity", h.getActivity)
}

// getActivity returns the most recent audit entries, newest first.
func (h *AdminHandler) getActivity(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return respondError(c, apperrors.AuthRequired())
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.adminController.ListActivity(c.UserContext(), user, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"activity": entries,
	})
}
