package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dassimern/kosher-directory-api/internal/models"
	"github.com/dassimern/kosher-directory-api/internal/notify"
	"github.com/dassimern/kosher-directory-api/internal/store"
	appErrors "github.com/dassimern/kosher-directory-api/pkg/errors"
)

type moderationStore interface {
	Append(ctx context.Context, r models.Restaurant) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	UpdateFields(ctx context.Context, id, name, city, website, kashrut string) error
	Delete(ctx context.Context, id string) error
}

type authorizer interface {
	Authorize(cred Credential) error
}

// ModerationService owns the submission lifecycle and the moderator-gated
// mutations.
type ModerationService struct {
	store     moderationStore
	auth      authorizer
	notifier  notify.Notifier
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
}

// NewModerationService constructs the service. location controls how
// dateAdded is rendered; nil falls back to UTC.
func NewModerationService(st moderationStore, auth authorizer, notifier notify.Notifier, validate *validator.Validate, logger *zap.Logger, location *time.Location) *ModerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if location == nil {
		location = time.UTC
	}
	return &ModerationService{store: st, auth: auth, notifier: notifier, validator: validate, logger: logger, location: location}
}

// SubmitRequest is the public submission payload. Status, id and dateAdded
// are never accepted from the submitter.
type SubmitRequest struct {
	Name    string `json:"restaurantName" validate:"required"`
	City    string `json:"city"`
	Website string `json:"website"`
	Kashrut string `json:"kashrut" validate:"required"`
}

// EditRequest is the moderator edit payload. Id, status and dateAdded are
// immutable through this path; stray values for them in the raw JSON are
// dropped at decode time.
type EditRequest struct {
	Name    string `json:"restaurantName" validate:"required"`
	City    string `json:"city"`
	Website string `json:"website"`
	Kashrut string `json:"kashrut" validate:"required"`
}

// Submit validates and stores a new restaurant as pending, then fires the
// notification. Notification failure never fails the submission.
func (s *ModerationService) Submit(ctx context.Context, req SubmitRequest) (*models.Restaurant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "restaurant name and kashrut are required")
	}

	record := models.Restaurant{
		ID:        store.NewID(),
		Name:      req.Name,
		City:      req.City,
		Website:   req.Website,
		Kashrut:   req.Kashrut,
		DateAdded: s.formatDate(time.Now()),
		Status:    models.StatusPending,
	}

	if err := s.store.Append(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("restaurant submitted", zap.String("id", record.ID), zap.String("name", record.Name))

	if err := s.notifier.NotifySubmission(ctx, record); err != nil {
		s.logger.Warn("submission notification failed", zap.String("id", record.ID), zap.Error(err))
	}

	return &record, nil
}

// SetStatus applies a moderation decision. Only approved and rejected are
// legal targets; nothing ever returns to pending, but approved and rejected
// can be re-entered any number of times.
func (s *ModerationService) SetStatus(ctx context.Context, id, status string, cred Credential) error {
	if err := s.auth.Authorize(cred); err != nil {
		return err
	}

	target := models.Status(status)
	if target != models.StatusApproved && target != models.StatusRejected {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("status must be %q or %q", models.StatusApproved, models.StatusRejected))
	}

	if err := s.store.UpdateStatus(ctx, id, target); err != nil {
		return err
	}

	s.logger.Info("restaurant status updated", zap.String("id", id), zap.String("status", status))
	return nil
}

// EditFields updates the editable fields of a record, leaving id, status and
// dateAdded untouched.
func (s *ModerationService) EditFields(ctx context.Context, id string, req EditRequest, cred Credential) error {
	if err := s.auth.Authorize(cred); err != nil {
		return err
	}

	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "restaurant name and kashrut are required")
	}

	if err := s.store.UpdateFields(ctx, id, req.Name, req.City, req.Website, req.Kashrut); err != nil {
		return err
	}

	s.logger.Info("restaurant updated", zap.String("id", id))
	return nil
}

// Delete permanently removes a record. No tombstone, no undo.
func (s *ModerationService) Delete(ctx context.Context, id string, cred Credential) error {
	if err := s.auth.Authorize(cred); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("restaurant deleted", zap.String("id", id))
	return nil
}

// formatDate renders the creation timestamp the way the he-IL locale does:
// day.month.year, 24h clock.
func (s *ModerationService) formatDate(t time.Time) string {
	return t.In(s.location).Format("2.1.2006, 15:04:05")
}
