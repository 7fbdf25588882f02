package recommendationController

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"unicode/utf8"

	"hypeshelf/internal/apperrors"
	"hypeshelf/internal/constants"
	"hypeshelf/internal/events"
	"hypeshelf/internal/logger"
	. "hypeshelf/internal/models"
	"hypeshelf/internal/repositories"
	"hypeshelf/internal/services"
	"hypeshelf/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AddRecommendationInput struct {
	Title string `json:"title"`
	Genre string `json:"genre"`
	Link  string `json:"link"`
	Blurb string `json:"blurb"`
}

// transactionExecutor is the slice of services.TransactionService the
// controller needs; the delete flow runs inside it.
type transactionExecutor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

type RecommendationController struct {
	recRepo      repositories.RecommendationRepository
	activityRepo repositories.ActivityLogRepository
	transaction  transactionExecutor
	eventBus     *events.EventBus
	log          logger.Logger
}

type RecommendationControllerInterface interface {
	Add(ctx context.Context, user *User, input AddRecommendationInput) (*Recommendation, error)
	Delete(ctx context.Context, user *User, id uuid.UUID) error
	ToggleStaffPick(ctx context.Context, user *User, id uuid.UUID) (*Recommendation, error)
	List(ctx context.Context, genre string) ([]Recommendation, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
) RecommendationControllerInterface {
	return &RecommendationController{
		recRepo:      repos.Recommendation,
		activityRepo: repos.Activity,
		transaction:  services.Transaction,
		eventBus:     eventBus,
		log:          logger.New("recommendationController"),
	}
}

// Add sanitizes and validates the input, then creates a recommendation
// owned by the calling user. The author name is stamped at creation.
func (rc *RecommendationController) Add(
	ctx context.Context,
	user *User,
	input AddRecommendationInput,
) (*Recommendation, error) {
	log := rc.log.Function("Add")

	if user == nil {
		return nil, apperrors.AuthRequired()
	}

	rec, err := buildRecommendation(user, input)
	if err != nil {
		return nil, err
	}

	if err := rc.recRepo.Create(ctx, rec); err != nil {
		return nil, log.Err("failed to create recommendation", err)
	}

	rc.recordActivity(ctx, ActivityRecommendationAdded, user, rec, nil)
	rc.publishFeedEvent(events.RECOMMENDATION_ADDED, rec)

	log.Info("recommendation added", "id", rec.ID, "genre", rec.Genre, "owner", user.Subject)
	return rec, nil
}

// Delete removes a recommendation. Owners can delete their own posts;
// admins can delete any post. Runs in a transaction so the authorization
// check and the delete see the same row.
func (rc *RecommendationController) Delete(
	ctx context.Context,
	user *User,
	id uuid.UUID,
) error {
	log := rc.log.Function("Delete")

	if user == nil {
		return apperrors.AuthRequired()
	}

	var deleted *Recommendation
	err := rc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		rec, err := rc.recRepo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("recommendation", id.String())
			}
			return err
		}

		if !rec.IsOwnedBy(user.Subject) && !user.IsAdmin() {
			return apperrors.PermissionDenied()
		}

		deleted = rec
		return rc.recRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("recommendation", id.String())
		}
		return log.Err("failed to delete recommendation", err, "id", id)
	}

	// Invalidate only after the transaction commits. Doing it inside the
	// closure lets a concurrent read re-cache the not-yet-deleted row.
	rc.recRepo.InvalidateFeedCache(ctx)

	rc.recordActivity(ctx, ActivityRecommendationDeleted, user, deleted, nil)
	rc.publishFeedEvent(events.RECOMMENDATION_DELETED, deleted)

	log.Info("recommendation deleted", "id", id, "actor", user.Subject)
	return nil
}

// ToggleStaffPick flips the staff pick flag. Admin only; the flip itself
// is a single atomic statement in the repository.
func (rc *RecommendationController) ToggleStaffPick(
	ctx context.Context,
	user *User,
	id uuid.UUID,
) (*Recommendation, error) {
	log := rc.log.Function("ToggleStaffPick")

	if user == nil {
		return nil, apperrors.AuthRequired()
	}
	if !user.IsAdmin() {
		return nil, apperrors.PermissionDenied()
	}

	rec, err := rc.recRepo.ToggleStaffPick(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("recommendation", id.String())
		}
		return nil, log.Err("failed to toggle staff pick", err, "id", id)
	}

	rc.recordActivity(ctx, ActivityStaffPickToggled, user, rec, map[string]any{
		"isStaffPick": rec.IsStaffPick,
	})
	rc.publishFeedEvent(events.STAFF_PICK_TOGGLED, rec)

	log.Info("staff pick toggled", "id", id, "isStaffPick", rec.IsStaffPick)
	return rec, nil
}

// List returns the feed, optionally filtered to a single genre. Empty
// or "all" disables filtering; unknown genres are rejected.
func (rc *RecommendationController) List(
	ctx context.Context,
	genre string,
) ([]Recommendation, error) {
	if genre != "" && genre != constants.GenreFilterAll && !constants.IsValidGenre(genre) {
		return nil, apperrors.InvalidGenre(genre)
	}

	return rc.recRepo.List(ctx, genre)
}

func buildRecommendation(user *User, input AddRecommendationInput) (*Recommendation, error) {
	title := utils.SanitizeText(input.Title, constants.RawInputCap)
	if utf8.RuneCountInString(title) < constants.TitleMinLength {
		return nil, apperrors.InvalidTitle("title is required")
	}
	if utf8.RuneCountInString(title) > constants.TitleMaxLength {
		return nil, apperrors.InvalidTitle("title must be at most 200 characters")
	}

	blurb := utils.SanitizeText(input.Blurb, constants.RawInputCap)
	if utf8.RuneCountInString(blurb) > constants.BlurbMaxLength {
		return nil, apperrors.InvalidBlurb("blurb must be at most 500 characters")
	}

	link := utils.SanitizeText(input.Link, constants.RawInputCap)
	if link != "" {
		if utf8.RuneCountInString(link) > constants.LinkMaxLength {
			return nil, apperrors.InvalidLink("link must be at most 2048 characters")
		}
		parsed, err := url.Parse(link)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") ||
			parsed.Host == "" {
			return nil, apperrors.InvalidLink("link must be a valid http or https URL")
		}
	}

	if !constants.IsValidGenre(input.Genre) {
		return nil, apperrors.InvalidGenre(input.Genre)
	}

	return &Recommendation{
		Title:        title,
		Genre:        input.Genre,
		Link:         link,
		Blurb:        blurb,
		OwnerSubject: user.Subject,
		AuthorName:   user.Name,
	}, nil
}

// recordActivity writes an audit entry. Failures are logged and
// swallowed so auditing never blocks the mutation that triggered it.
func (rc *RecommendationController) recordActivity(
	ctx context.Context,
	action ActivityAction,
	user *User,
	rec *Recommendation,
	extra map[string]any,
) {
	if rc.activityRepo == nil {
		return
	}

	detail := map[string]any{
		"title": rec.Title,
		"genre": rec.Genre,
	}
	for k, v := range extra {
		detail[k] = v
	}

	detailJSON, err := json.Marshal(detail)
	if err != nil {
		rc.log.Function("recordActivity").Warn("failed to marshal activity detail",
			"action", action, "error", err)
		detailJSON = nil
	}

	entry := &ActivityLog{
		Action:       action,
		ActorSubject: user.Subject,
		RecordID:     rec.ID.String(),
		Detail:       datatypes.JSON(detailJSON),
	}

	if err := rc.activityRepo.Create(ctx, entry); err != nil {
		rc.log.Function("recordActivity").Warn("failed to record activity",
			"action", action, "recordId", rec.ID, "error", err)
	}
}

// publishFeedEvent pushes the mutation to live feed subscribers.
// Best-effort; the write already succeeded.
func (rc *RecommendationController) publishFeedEvent(
	eventType events.MessageType,
	rec *Recommendation,
) {
	if rc.eventBus == nil {
		return
	}

	data := map[string]any{
		"id":          rec.ID.String(),
		"title":       rec.Title,
		"genre":       rec.Genre,
		"isStaffPick": rec.IsStaffPick,
	}

	if err := rc.eventBus.PublishFeedEvent(eventType, data); err != nil {
		rc.log.Function("publishFeedEvent").Warn("failed to publish feed event",
			"type", eventType, "recordId", rec.ID, "error", err)
	}
}
