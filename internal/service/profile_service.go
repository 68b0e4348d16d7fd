package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"gymflow/fitness-app/internal/domain"
	"gymflow/fitness-app/internal/repository"
	"gymflow/fitness-app/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	profilePicturePrefix = "profile-pictures"
	maxProfilePicture    = 5 << 20
)

// --- Error Definitions ---
var (
	ErrCurrentPasswordRequired  = errors.New("current password is required to set a new password")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrUnsupportedImageType     = errors.New("unsupported image type")
	ErrUploadNotAllowed         = errors.New("object key does not belong to this user")
	ErrUploadMissing            = errors.New("no uploaded file found for this key")
	ErrUploadTooLarge           = errors.New("uploaded file is too large")
	ErrUploadURLError           = errors.New("failed to generate upload URL")
	ErrUploadConfirmationFailed = errors.New("failed to confirm upload")
)

var pictureExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key the client reports back on confirm
}

// Profile is the user as shown on the profile page.
type Profile struct {
	ID                primitive.ObjectID `json:"id"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	ProfilePictureURL string             `json:"profilePicture,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
}

// ProfileUpdate changes name and email; the password only when NewPassword is set.
type ProfileUpdate struct {
	Name            string
	Email           string
	CurrentPassword string
	NewPassword     string
}

type PictureConfirmation struct {
	ObjectKey   string
	FileName    string
	ContentType string
	Size        int64
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*Profile, error)

	// Picture upload: sign a PUT URL, the client uploads, then confirms.
	RequestPictureUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmPictureUpload(ctx context.Context, userID primitive.ObjectID, c PictureConfirmation) (*Profile, error)
}

type profileService struct {
	userRepo    repository.UserRepository
	uploadRepo  repository.UploadRepository
	fileStorage storage.FileStorage
}

func NewProfileService(
	userRepo repository.UserRepository,
	uploadRepo repository.UploadRepository,
	fileStorage storage.FileStorage,
) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		uploadRepo:  uploadRepo,
		fileStorage: fileStorage,
	}
}

func (s *profileService) getUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toProfile(ctx, user), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*Profile, error) {
	name := strings.TrimSpace(update.Name)
	email := strings.TrimSpace(update.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.NewPassword != "" {
		if update.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(update.CurrentPassword)); err != nil {
			return nil, ErrCurrentPasswordIncorrect
		}
		if len(update.NewPassword) < minPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(update.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrHashingFailed
		}
		user.PasswordHash = string(hash)
	}

	user.Name = name
	user.Email = email
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.toProfile(ctx, user), nil
}

// RequestPictureUploadURL generates a pre-signed URL for uploading a new profile picture.
func (s *profileService) RequestPictureUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	ext, ok := pictureExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrUnsupportedImageType
	}

	objectKey := path.Join(profilePicturePrefix, userID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), ext))
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, strings.ToLower(contentType), 0)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmPictureUpload records the uploaded picture and makes it the current one.
// Called after the client has uploaded the file with the pre-signed URL.
func (s *profileService) ConfirmPictureUpload(ctx context.Context, userID primitive.ObjectID, c PictureConfirmation) (*Profile, error) {
	if !strings.HasPrefix(c.ObjectKey, path.Join(profilePicturePrefix, userID.Hex())+"/") {
		return nil, ErrUploadNotAllowed
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// A repeated confirm of the current picture changes nothing.
	latest, err := s.uploadRepo.GetLatestByUser(ctx, userID, domain.UploadKindProfilePicture)
	switch {
	case err == nil && latest.S3ObjectKey == c.ObjectKey && user.ProfilePictureKey == c.ObjectKey:
		return s.toProfile(ctx, user), nil
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		log.Errorf("get latest upload for user %s: %s", userID.Hex(), err)
		return nil, ErrUploadConfirmationFailed
	}

	meta, err := s.fileStorage.StatObject(ctx, c.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrUploadMissing
		}
		return nil, err
	}
	if meta.Size > maxProfilePicture {
		s.deleteObject(c.ObjectKey)
		return nil, ErrUploadTooLarge
	}

	contentType := c.ContentType
	if meta.ContentType != "" {
		contentType = meta.ContentType
	}
	upload := &domain.Upload{
		UserID:      userID,
		Kind:        domain.UploadKindProfilePicture,
		S3ObjectKey: c.ObjectKey,
		FileName:    c.FileName,
		ContentType: contentType,
		Size:        meta.Size,
	}
	if _, err := s.uploadRepo.Create(ctx, upload); err != nil {
		log.Errorf("save upload metadata for user %s: %s", userID.Hex(), err)
		return nil, ErrUploadConfirmationFailed
	}

	previous := user.ProfilePictureKey
	if err := s.userRepo.SetProfilePicture(ctx, userID, c.ObjectKey); err != nil {
		log.Errorf("set profile picture for user %s: %s", userID.Hex(), err)
		return nil, ErrUploadConfirmationFailed
	}
	if previous != "" && previous != c.ObjectKey {
		s.deleteObject(previous)
	}

	user.ProfilePictureKey = c.ObjectKey
	return s.toProfile(ctx, user), nil
}

// deleteObject removes a stale object in the background; failures only leave garbage.
func (s *profileService) deleteObject(objectKey string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.fileStorage.DeleteObject(ctx, objectKey); err != nil {
			log.Warnf("delete stale object %q: %s", objectKey, err)
		}
	}()
}

func (s *profileService) toProfile(ctx context.Context, user *domain.User) *Profile {
	p := &Profile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
	if user.HasProfilePicture() {
		u, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, user.ProfilePictureKey, 0)
		if err != nil {
			log.Warnf("presign profile picture for user %s: %s", user.ID.Hex(), err)
		} else {
			p.ProfilePictureURL = u
		}
	}
	return p
}
