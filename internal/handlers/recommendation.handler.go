package handlers

import (
	"hypeshelf/internal/app"
	"hypeshelf/internal/apperrors"
	"hypeshelf/internal/handlers/middleware"
	"hypeshelf/internal/logger"

	recommendationController "hypeshelf/internal/controllers/recommendations"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	Handler
	recommendationController recommendationController.RecommendationControllerInterface
}

func NewRecommendationHandler(app app.App, router fiber.Router) *RecommendationHandler {
	log := logger.New("handlers").File("recommendation_handler")
	return &RecommendationHandler{
		recommendationController: app.Controllers.Recommendation,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RecommendationHandler) Register() {
	recs := h.router.Group("/recommendations")

	// The feed is public
	recs.Get("/", h.getRecommendations)

	recs.Post("/", h.middleware.RequireUser(), h.addRecommendation)
	recs.Delete("/:id", h.middleware.RequireUser(), h.deleteRecommendation)
	recs.Patch("/:id/staff-pick",
		h.middleware.RequireUser(),
		h.middleware.RequireAdmin(),
		h.toggleStaffPick,
	)
}

// getRecommendations returns the feed, newest first. The optional genre
// query parameter filters to one genre; "all" or absent means no filter.
func (h *RecommendationHandler) getRecommendations(c *fiber.Ctx) error {
	genre := c.Query("genre")

	recs, err := h.recommendationController.List(c.UserContext(), genre)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"recommendations": recs,
	})
}

func (h *RecommendationHandler) addRecommendation(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("addRecommendation")

	user := middleware.GetUser(c)
	if user == nil {
		return respondError(c, apperrors.AuthRequired())
	}

	var input recommendationController.AddRecommendationInput
	if err := c.BodyParser(&input); err != nil {
		log.Info("failed to parse request body", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rec, err := h.recommendationController.Add(c.UserContext(), user, input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"recommendation": rec,
	})
}

func (h *RecommendationHandler) deleteRecommendation(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return respondError(c, apperrors.AuthRequired())
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperrors.NotFound("recommendation", c.Params("id")))
	}

	if err := h.recommendationController.Delete(c.UserContext(), user, id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RecommendationHandler) toggleStaffPick(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return respondError(c, apperrors.AuthRequired())
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperrors.NotFound("recommendation", c.Params("id")))
	}

	if _, err := h.recommendationController.ToggleStaffPick(c.UserContext(), user, id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
