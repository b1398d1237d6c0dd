package repository

import (
	"context"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/httpclient"
)

const profilePath = "/api/profile"

// UserRepository covers the signed-in operator's identity and profile.
type UserRepository struct {
	client *httpclient.Client
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(client *httpclient.Client) *UserRepository {
	return &UserRepository{client: client}
}

// Me returns the operator the current token belongs to.
func (r *UserRepository) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := r.client.Get(ctx, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Profile returns the editable profile.
func (r *UserRepository) Profile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := r.client.Get(ctx, profilePath, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

type profileEnvelope struct {
	User *models.Profile `json:"user"`
}

// UpdateProfile saves profile fields and returns the stored profile.
func (r *UserRepository) UpdateProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	var out profileEnvelope
	if err := r.client.Put(ctx, profilePath, profile, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return &profile, nil
	}
	return out.User, nil
}

// ChangePassword submits a password change on the same profile route.
func (r *UserRepository) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return r.client.Put(ctx, profilePath, body, nil)
}

// UploadImage replaces the profile picture.
func (r *UserRepository) UploadImage(ctx context.Context, file httpclient.FilePart) (*models.Profile, error) {
	file.Field = "profileImage"
	var out profileEnvelope
	if err := r.client.PutMultipart(ctx, profilePath, nil, []httpclient.FilePart{file}, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return r.Profile(ctx)
	}
	return out.User, nil
}
