package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/mailer"
)

// Claims is the decoded, verified identity payload of a bearer token.
type Claims struct {
	UserID  string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.StandardClaims
}

// AuthService handles registration, email verification, login and token
// issuing/verification.
type AuthService struct {
	userRepo      repositories.UserRepository
	tokenRepo     repositories.VerificationTokenRepository
	mail          mailer.Mailer
	logger        zerolog.Logger
	jwtSecret     []byte
	tokenDuration time.Duration
	publicBaseURL string
}

// NewAuthService creates a new AuthService. Tokens are valid for one hour.
func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.VerificationTokenRepository,
	mail mailer.Mailer,
	logger zerolog.Logger,
	jwtSecret, publicBaseURL string,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		mail:          mail,
		logger:        logger,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: time.Hour,
		publicBaseURL: publicBaseURL,
	}
}

// Register creates an unverified user with a hashed password, stores a
// verification token and mails the verification link. The email must not be
// registered already; a duplicate performs no write.
func (s *AuthService) Register(user *models.User) error {
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.IsAdmin = false
	user.IsVerified = false
	if user.ProfilePhoto.URL == "" {
		user.ProfilePhoto.URL = models.DefaultAvatarURL
	}

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	token := &models.VerificationToken{
		UserID: user.ID,
		Token:  randomToken(),
	}
	if err := s.tokenRepo.Create(token); err != nil {
		return fmt.Errorf("failed to create verification token: %w", err)
	}

	link := fmt.Sprintf("%s/api/v1/auth/%s/verify/%s", s.publicBaseURL, user.ID, token.Token)
	body := fmt.Sprintf(`<p>Click <a href="%s">here</a> to verify your email address.</p>`, link)
	if err := s.mail.Send(user.Email, "Verify your email", body); err != nil {
		// The user record already exists at this point; there is no rollback.
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("verification mail not delivered")
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// Verify consumes a {userId, token} pair. The stored token is deleted on
// success, so a second attempt with the same pair fails with ErrInvalidLink.
func (s *AuthService) Verify(userID, token string) error {
	vt, err := s.tokenRepo.GetByUserAndToken(userID, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidLink
		}
		return err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidLink
		}
		return err
	}

	user.IsVerified = true
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if err := s.tokenRepo.Delete(vt.ID); err != nil {
		return fmt.Errorf("failed to consume verification token: %w", err)
	}
	return nil
}

// Login checks credentials and issues a signed token. An unknown email and a
// wrong password fail with the identical error so the response gives no
// user-existence oracle.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	tokenString, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, tokenString, nil
}

// GenerateToken signs identity claims for the user with a one hour expiry.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.tokenDuration).Unix(),
			IssuedAt:  now.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken verifies the signature and expiry of a bearer token and
// returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func randomToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(buf)
}
