// internal/api/profile_handler.go
package api

import (
	"errors"
	"net/http"

	"gymflow/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- DTOs ---

type UpdateProfileRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type RequestUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"omitempty,min=0"`
	ContentType string `json:"contentType" binding:"required"`
}

func handleProfileError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrCurrentPasswordIncorrect):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrCurrentPasswordRequired),
		errors.Is(err, service.ErrUnsupportedImageType),
		errors.Is(err, service.ErrUploadMissing),
		errors.Is(err, service.ErrUploadTooLarge):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUploadNotAllowed):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		log.Errorf("%s: %s", fallback, err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// GetProfile godoc
// @Summary Get my profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Profile
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "User not found"
// @Router /api/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleProfileError(c, err, "Failed to retrieve profile.")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update my profile
// @Description Changes name and email. Setting a new password requires the current one.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} service.Profile
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Current password is incorrect"
// @Failure 409 {object} gin.H "Email already in use"
// @Router /api/profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdate{
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		handleProfileError(c, err, "Failed to update profile.")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// RequestPictureUploadURL godoc
// @Summary Request a pre-signed URL to upload a profile picture
// @Description The client uploads the image straight to storage, then calls confirm.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uploadRequest body RequestUploadURLRequest true "Upload content type"
// @Success 200 {object} service.UploadURLResponse "Pre-signed URL and object key"
// @Failure 400 {object} gin.H "Unsupported image type"
// @Failure 500 {object} gin.H "Internal Server Error (e.g., S3 error)"
// @Router /api/profile/picture/upload-url [post]
func (h *ProfileHandler) RequestPictureUploadURL(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req RequestUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.profileService.RequestPictureUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		handleProfileError(c, err, "Failed to get upload URL.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmPictureUpload godoc
// @Summary Confirm a profile picture upload
// @Description Client informs the backend that the upload is complete. The picture becomes the current one.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param confirmRequest body ConfirmUploadRequest true "Upload confirmation details"
// @Success 200 {object} service.Profile "Profile with the new picture URL"
// @Failure 400 {object} gin.H "Invalid input, missing or oversized upload"
// @Failure 403 {object} gin.H "Object key belongs to another user"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /api/profile/picture/confirm [post]
func (h *ProfileHandler) ConfirmPictureUpload(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	profile, err := h.profileService.ConfirmPictureUpload(c.Request.Context(), userID, service.PictureConfirmation{
		ObjectKey:   req.ObjectKey,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.FileSize,
	})
	if err != nil {
		handleProfileError(c, err, "Failed to confirm upload.")
		return
	}
	c.JSON(http.StatusOK, profile)
}
