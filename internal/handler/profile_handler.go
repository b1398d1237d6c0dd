package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/httpclient"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/response"
)

const profileImageField = "profileImage"

type profileService interface {
	Get(ctx context.Context) (*models.Profile, error)
	Update(ctx context.Context, profile models.Profile) (*models.Profile, error)
	ChangePassword(ctx context.Context, req models.PasswordChange) error
	UploadImage(ctx context.Context, file httpclient.FilePart) (*models.Profile, error)
}

// ProfileHandler manages the signed-in operator's profile.
type ProfileHandler struct {
	profiles profileService
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(profiles profileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get godoc
// @Summary Current profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Update godoc
// @Summary Update profile details
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body models.Profile true "Profile"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req models.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}
	profile, err := h.profiles.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// ChangePassword godoc
// @Summary Change password
// @Tags Profile
// @Accept json
// @Param payload body models.PasswordChange true "Passwords"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /profile/password [put]
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req models.PasswordChange
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid password payload"))
		return
	}
	if err := h.profiles.ChangePassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadImage godoc
// @Summary Replace the profile image
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Param profileImage formData file true "Image"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profile/image [put]
func (h *ProfileHandler) UploadImage(c *gin.Context) {
	files, err := formFiles(c, profileImageField)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(files) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "profileImage file is required"))
		return
	}
	profile, err := h.profiles.UploadImage(c.Request.Context(), files[0])
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}
