package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go-bookstore/internal/mail"
	"go-bookstore/internal/models"
)

type UserService struct {
	db       *gorm.DB
	secret   []byte
	tokenTTL time.Duration
	domain   string
	sender   mail.VerificationSender
	log      *slog.Logger
}

func NewUserService(db *gorm.DB, secret string, tokenTTL time.Duration, domain string, sender mail.VerificationSender, log *slog.Logger) *UserService {
	return &UserService{
		db:       db,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		domain:   domain,
		sender:   sender,
		log:      log,
	}
}

type Claims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates an account with a bcrypt-hashed password and mails
// a verification link in the background.
func (s *UserService) Register(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var existing models.User
	if err := db.First(&existing, "username = ?", req.Username).Error; err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := db.First(&existing, "email = ?", req.Email).Error; err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:          req.Username,
		Email:             req.Email,
		HashedPassword:    string(hashed),
		Role:              models.RoleUser,
		VerificationToken: uuid.NewString(),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	link := fmt.Sprintf("%s/api/auth/verify/%s", s.domain, user.VerificationToken)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.sender.SendVerification(ctx, user.Email, link); err != nil {
			s.log.Error("verification mail delivery failed", "user_id", user.UserID, "error", err)
		}
	}()

	return &user, nil
}

// Authenticate checks credentials and returns a signed access token.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (string, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrWrongCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("authenticate: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return "", nil, ErrWrongCredentials
	}
	if user.Disabled {
		return "", nil, ErrUserDisabled
	}
	if !user.Verified {
		return "", nil, ErrUserNotVerified
	}

	now := time.Now()
	claims := Claims{
		UserID: user.UserID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, &user, nil
}

// ParseToken validates an access token and returns its claims.
func (s *UserService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify marks the account behind the emailed token as verified.
func (s *UserService) Verify(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "verification_token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	return s.db.WithContext(ctx).Model(&user).
		Updates(map[string]any{"verified": true, "verification_token": ""}).Error
}

func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// UpdateProfile merges the provided delivery fields into the user,
// field by field.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Only the provided columns are written so a concurrent account
	// change (verification, disabling) is never overwritten with the
	// stale row read above.
	changes := map[string]any{}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
		changes["first_name"] = user.FirstName
	}
	if req.SecondName != nil {
		user.SecondName = *req.SecondName
		changes["second_name"] = user.SecondName
	}
	if req.StreetAddress != nil {
		user.StreetAddress = *req.StreetAddress
		changes["street_address"] = user.StreetAddress
	}
	if req.City != nil {
		user.City = *req.City
		changes["city"] = user.City
	}
	if req.State != nil {
		user.State = *req.State
		changes["state"] = user.State
	}
	if req.PostalCode != nil {
		user.PostalCode = *req.PostalCode
		changes["postal_code"] = user.PostalCode
	}
	if req.Country != nil {
		user.Country = *req.Country
		changes["country"] = user.Country
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
		changes["phone_number"] = user.PhoneNumber
	}
	if len(changes) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *UserService) SetDisabled(ctx context.Context, userID uint, disabled bool) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("disabled", disabled)
	if res.Error != nil {
		return fmt.Errorf("set disabled: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("user_id asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// EnsureAdmin creates the bootstrap admin account if it is missing.
func (s *UserService) EnsureAdmin(ctx context.Context, password string) error {
	if password == "" {
		return nil
	}
	db := s.db.WithContext(ctx)

	var existing models.User
	err := db.First(&existing, "role = ?", models.RoleAdmin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("ensure admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return db.Create(&models.User{
		Username:       "admin",
		Email:          "admin@bookstore.local",
		HashedPassword: string(hashed),
		Role:           models.RoleAdmin,
		Verified:       true,
	}).Error
}
