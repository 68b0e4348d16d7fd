package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"gymflow/fitness-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type profileFixture struct {
	users   *memUserRepo
	uploads *memUploadRepo
	store   *fakeStorage
	svc     ProfileService
	userID  primitive.ObjectID
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()
	f := &profileFixture{
		users:   newMemUserRepo(),
		uploads: &memUploadRepo{},
		store:   newFakeStorage(),
	}
	f.svc = NewProfileService(f.users, f.uploads, f.store)

	auth := NewAuthService(f.users, "test-secret", time.Hour)
	_, user, err := auth.Register(context.Background(), "Ana", "ana@example.com", "secret123")
	require.NoError(t, err)
	f.userID = user.ID
	return f
}

func TestProfileService_GetAndUpdate(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	p, err := f.svc.GetProfile(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", p.Email)
	assert.Empty(t, p.ProfilePictureURL)

	p, err = f.svc.UpdateProfile(ctx, f.userID, ProfileUpdate{Name: "Ana B", Email: "anab@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ana B", p.Name)
	assert.Equal(t, "anab@example.com", p.Email)

	_, err = f.svc.GetProfile(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.UpdateProfile(ctx, f.userID, ProfileUpdate{Name: " ", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProfileService_EmailTaken(t *testing.T) {
	f := newProfileFixture(t)
	auth := NewAuthService(f.users, "test-secret", time.Hour)
	_, _, err := auth.Register(context.Background(), "Bo", "bo@example.com", "secret123")
	require.NoError(t, err)

	_, err = f.svc.UpdateProfile(context.Background(), f.userID, ProfileUpdate{Name: "Ana", Email: "bo@example.com"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestProfileService_ChangePassword(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()
	auth := NewAuthService(f.users, "test-secret", time.Hour)

	_, err := f.svc.UpdateProfile(ctx, f.userID, ProfileUpdate{Name: "Ana", Email: "ana@example.com", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, ErrCurrentPasswordRequired)

	_, err = f.svc.UpdateProfile(ctx, f.userID, ProfileUpdate{
		Name: "Ana", Email: "ana@example.com", CurrentPassword: "wrong", NewPassword: "newsecret",
	})
	assert.ErrorIs(t, err, ErrCurrentPasswordIncorrect)

	_, err = f.svc.UpdateProfile(ctx, f.userID, ProfileUpdate{
		Name: "Ana", Email: "ana@example.com", CurrentPassword: "secret123", NewPassword: "123",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpdateProfile(ctx, f.userID, ProfileUpdate{
		Name: "Ana", Email: "ana@example.com", CurrentPassword: "secret123", NewPassword: "newsecret",
	})
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "ana@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = auth.Login(ctx, "ana@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestProfileService_PictureUpload(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	_, err := f.svc.RequestPictureUploadURL(ctx, f.userID, "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedImageType)

	first, err := f.svc.RequestPictureUploadURL(ctx, f.userID, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ObjectKey, "profile-pictures/"+f.userID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(first.ObjectKey, ".png"))
	assert.Contains(t, first.UploadURL, first.ObjectKey)

	confirm := PictureConfirmation{ObjectKey: first.ObjectKey, FileName: "me.png", ContentType: "image/png", Size: 1024}
	_, err = f.svc.ConfirmPictureUpload(ctx, f.userID, confirm)
	assert.ErrorIs(t, err, ErrUploadMissing)

	f.store.put(first.ObjectKey, 1024, "image/png")
	p, err := f.svc.ConfirmPictureUpload(ctx, f.userID, confirm)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/download/"+first.ObjectKey, p.ProfilePictureURL)

	latest, err := f.uploads.GetLatestByUser(ctx, f.userID, domain.UploadKindProfilePicture)
	require.NoError(t, err)
	assert.Equal(t, first.ObjectKey, latest.S3ObjectKey)
	assert.Equal(t, int64(1024), latest.Size)

	// A second picture replaces the first, which is removed from the store.
	second, err := f.svc.RequestPictureUploadURL(ctx, f.userID, "image/jpeg")
	require.NoError(t, err)
	f.store.put(second.ObjectKey, 2048, "image/jpeg")
	_, err = f.svc.ConfirmPictureUpload(ctx, f.userID, PictureConfirmation{ObjectKey: second.ObjectKey, FileName: "me.jpg"})
	require.NoError(t, err)

	select {
	case key := <-f.store.deleted:
		assert.Equal(t, first.ObjectKey, key)
	case <-time.After(2 * time.Second):
		t.Fatal("previous picture was not deleted")
	}

	p, err = f.svc.GetProfile(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/download/"+second.ObjectKey, p.ProfilePictureURL)
}

func TestProfileService_ConfirmTwice(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	up, err := f.svc.RequestPictureUploadURL(ctx, f.userID, "image/png")
	require.NoError(t, err)
	f.store.put(up.ObjectKey, 512, "image/png")
	confirm := PictureConfirmation{ObjectKey: up.ObjectKey, FileName: "me.png"}

	first, err := f.svc.ConfirmPictureUpload(ctx, f.userID, confirm)
	require.NoError(t, err)
	again, err := f.svc.ConfirmPictureUpload(ctx, f.userID, confirm)
	require.NoError(t, err)
	assert.Equal(t, first.ProfilePictureURL, again.ProfilePictureURL)

	f.uploads.mu.Lock()
	assert.Len(t, f.uploads.uploads, 1)
	f.uploads.mu.Unlock()

	select {
	case key := <-f.store.deleted:
		t.Fatalf("current picture %q was deleted", key)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestProfileService_ConfirmRejects(t *testing.T) {
	f := newProfileFixture(t)
	ctx := context.Background()

	other := "profile-pictures/" + primitive.NewObjectID().Hex() + "/x.png"
	f.store.put(other, 10, "image/png")
	_, err := f.svc.ConfirmPictureUpload(ctx, f.userID, PictureConfirmation{ObjectKey: other})
	assert.ErrorIs(t, err, ErrUploadNotAllowed)

	big := "profile-pictures/" + f.userID.Hex() + "/big.png"
	f.store.put(big, 6<<20, "image/png")
	_, err = f.svc.ConfirmPictureUpload(ctx, f.userID, PictureConfirmation{ObjectKey: big})
	assert.ErrorIs(t, err, ErrUploadTooLarge)

	select {
	case key := <-f.store.deleted:
		assert.Equal(t, big, key)
	case <-time.After(2 * time.Second):
		t.Fatal("oversized upload was not deleted")
	}
}
