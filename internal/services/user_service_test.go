package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-bookstore/internal/models"
	"go-bookstore/internal/services"
)

type recordingVerificationSender struct {
	mu    sync.Mutex
	links []string
}

func (s *recordingVerificationSender) SendVerification(ctx context.Context, email, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = append(s.links, link)
	return nil
}

func (s *recordingVerificationSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

func newUserService(t *testing.T, db *gorm.DB) (*services.UserService, *recordingVerificationSender) {
	t.Helper()
	sender := &recordingVerificationSender{}
	svc := services.NewUserService(db, "test-secret", 30*time.Minute, "http://localhost:8080", sender, testLogger())
	return svc, sender
}

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc, sender := newUserService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, models.SignupRequest{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "s3cretPass!",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.Verified)

	require.Eventually(t, func() bool { return sender.count() == 1 }, time.Second, 10*time.Millisecond)

	// Unverified accounts cannot authenticate yet.
	_, _, err = svc.Authenticate(ctx, "reader", "s3cretPass!")
	require.ErrorIs(t, err, services.ErrUserNotVerified)

	var stored models.User
	require.NoError(t, db.First(&stored, "user_id = ?", user.UserID).Error)
	require.NoError(t, svc.Verify(ctx, stored.VerificationToken))

	token, authed, err := svc.Authenticate(ctx, "reader", "s3cretPass!")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, authed.UserID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestRegisterDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newUserService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, models.SignupRequest{
		Username: "reader", Email: "reader@example.com", Password: "s3cretPass!",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, models.SignupRequest{
		Username: "reader", Email: "other@example.com", Password: "s3cretPass!",
	})
	require.ErrorIs(t, err, services.ErrUserAlreadyExists)

	_, err = svc.Register(ctx, models.SignupRequest{
		Username: "other", Email: "reader@example.com", Password: "s3cretPass!",
	})
	require.ErrorIs(t, err, services.ErrEmailAlreadyExists)
}

func TestAuthenticateWrongCredentials(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newUserService(t, db)
	ctx := context.Background()

	_, _, err := svc.Authenticate(ctx, "ghost", "whatever")
	require.ErrorIs(t, err, services.ErrWrongCredentials)

	user, err := svc.Register(ctx, models.SignupRequest{
		Username: "reader", Email: "reader@example.com", Password: "s3cretPass!",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("verified", true).Error)

	_, _, err = svc.Authenticate(ctx, "reader", "wrongPass")
	require.ErrorIs(t, err, services.ErrWrongCredentials)
}

func TestAuthenticateDisabled(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newUserService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, models.SignupRequest{
		Username: "reader", Email: "reader@example.com", Password: "s3cretPass!",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Updates(map[string]any{"verified": true, "disabled": true}).Error)

	_, _, err = svc.Authenticate(ctx, "reader", "s3cretPass!")
	require.ErrorIs(t, err, services.ErrUserDisabled)
}

func TestVerifyInvalidToken(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newUserService(t, db)

	err := svc.Verify(context.Background(), "not-a-token")
	require.ErrorIs(t, err, services.ErrInvalidToken)

	err = svc.Verify(context.Background(), "")
	require.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestUpdateProfileMergesFields(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newUserService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "reader")

	city := "New City"
	updated, err := svc.UpdateProfile(ctx, user.UserID, models.UpdateProfileRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "New City", updated.City)
	assert.Equal(t, user.StreetAddress, updated.StreetAddress)
	assert.Equal(t, user.PhoneNumber, updated.PhoneNumber)
}
