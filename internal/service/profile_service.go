package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/httpclient"
)

// MaxProfileImageBytes caps profile picture uploads.
const MaxProfileImageBytes = 5000000

type profileRepository interface {
	Profile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile models.Profile) (*models.Profile, error)
	ChangePassword(ctx context.Context, current, next string) error
	UploadImage(ctx context.Context, file httpclient.FilePart) (*models.Profile, error)
}

// ProfileService backs the operator profile page.
type ProfileService struct {
	users    profileRepository
	notifier Notifier
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProfileService constructs the profile service.
func NewProfileService(users profileRepository, notifier Notifier, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator(nil, nil)
	}
	return &ProfileService{users: users, notifier: notifier, validate: validate, logger: logger}
}

// Get loads the profile.
func (s *ProfileService) Get(ctx context.Context) (*models.Profile, error) {
	profile, err := s.users.Profile(ctx)
	if err != nil {
		return nil, s.failed(err, "Failed to load profile")
	}
	return profile, nil
}

// Update saves the editable profile fields.
func (s *ProfileService) Update(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	profile.Username = strings.TrimSpace(profile.Username)
	profile.Email = strings.TrimSpace(profile.Email)
	if err := s.validate.Struct(profile); err != nil {
		return nil, s.invalid(validationMessage(err))
	}
	saved, err := s.users.UpdateProfile(ctx, profile)
	if err != nil {
		return nil, s.failed(err, "Failed to update profile")
	}
	s.notifier.Success("Profile updated successfully")
	return saved, nil
}

// ChangePassword checks the confirmation and length locally before
// contacting the backend.
func (s *ProfileService) ChangePassword(ctx context.Context, req models.PasswordChange) error {
	switch {
	case req.NewPassword != req.ConfirmPassword:
		return s.invalid("New passwords do not match")
	case len(req.NewPassword) < 6:
		return s.invalid("Password must be at least 6 characters")
	case req.CurrentPassword == "":
		return s.invalid("Current password is required")
	}
	if err := s.users.ChangePassword(ctx, req.CurrentPassword, req.NewPassword); err != nil {
		return s.failed(err, "Failed to update password")
	}
	s.notifier.Success("Password updated successfully")
	return nil
}

// UploadImage replaces the profile picture. Files over 5 MB or of a non-image
// type are refused without a request.
func (s *ProfileService) UploadImage(ctx context.Context, file httpclient.FilePart) (*models.Profile, error) {
	if len(file.Data) > MaxProfileImageBytes {
		return nil, s.invalid("Image size should be less than 5MB")
	}
	if file.ContentType == "" {
		file.ContentType = http.DetectContentType(file.Data)
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return nil, s.invalid("Please upload an image file")
	}
	profile, err := s.users.UploadImage(ctx, file)
	if err != nil {
		if errors.Is(err, appErrors.ErrUnauthorized) {
			return nil, err
		}
		s.logger.Warn("profile image upload failed", zap.Error(err))
		s.notifier.Error("Failed to upload image")
		return nil, appErrors.Clone(appErrors.FromError(err), "Failed to upload image")
	}
	s.notifier.Success("Profile image updated successfully")
	return profile, nil
}

func (s *ProfileService) invalid(msg string) error {
	s.notifier.Error(msg)
	return appErrors.Clone(appErrors.ErrValidation, msg)
}

func (s *ProfileService) failed(err error, fallback string) error {
	if errors.Is(err, appErrors.ErrUnauthorized) {
		return err
	}
	msg := appErrors.UserMessage(err, fallback)
	s.logger.Warn("profile request failed", zap.String("message", msg), zap.Error(err))
	s.notifier.Error(msg)
	return appErrors.Clone(appErrors.FromError(err), msg)
}
