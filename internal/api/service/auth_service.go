package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/mailer"
)

// reservedUsername collides with the self-profile route and is rejected at signup.
const reservedUsername = "me"

var ErrInvalidToken = errors.New("invalid token")

// Claims is the access-token payload bound to a user identity.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Staff    bool   `json:"staff"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// RequestCode looks up or creates the (username, email) identity, issues
	// a fresh confirmation code and mails it. Returns whether a new user was
	// created.
	RequestCode(ctx context.Context, username, email string) (bool, error)
	// ExchangeCode validates a confirmation code and issues an access token.
	ExchangeCode(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codeRepo       repository.CodeRepository
	mail           mailer.Mailer
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codeRepo repository.CodeRepository,
	mail mailer.Mailer,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codeRepo:       codeRepo,
		mail:           mail,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

func (s *authService) RequestCode(ctx context.Context, username, email string) (bool, error) {
	if username == reservedUsername {
		return false, apperr.Validation("username", `username "me" is reserved`)
	}

	created := false
	user, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		// Known username: the email must match the stored identity.
		if user.Email != email {
			return false, apperr.Validation("email", "email does not match the registered user")
		}
	case repository.IsNotFound(err):
		// New username: the email must not belong to someone else.
		if _, emailErr := s.userRepo.FindByEmail(ctx, email); emailErr == nil {
			return false, apperr.Validation("username", "email is already registered under another username")
		} else if !repository.IsNotFound(emailErr) {
			return false, emailErr
		}

		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		if createErr := s.userRepo.Create(ctx, user); createErr != nil {
			if repository.IsUniqueViolation(createErr) {
				return false, apperr.Validation("username", "username or email is already taken")
			}
			return false, createErr
		}
		created = true
	default:
		return false, err
	}

	code, err := auth.NewConfirmationCode()
	if err != nil {
		return created, err
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		return created, err
	}

	// Overwrites any previous code: re-requesting always reissues a fresh one.
	if err := s.codeRepo.Save(ctx, user.ID, hash); err != nil {
		return created, err
	}

	body := fmt.Sprintf("Your confirmation code: %s", code)
	if err := s.mail.Send(user.Email, "Confirmation code", body); err != nil {
		return created, &apperr.DeliveryError{Err: err}
	}

	return created, nil
}

func (s *authService) ExchangeCode(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", apperr.ErrNotFound
		}
		return "", err
	}

	hash, err := s.codeRepo.Get(ctx, user.ID)
	if err != nil {
		return "", err
	}
	// Expired, never issued, or wrong: the caller cannot tell which.
	if hash == "" || auth.VerifyCode(hash, code) != nil {
		return "", apperr.Validation("confirmation_code", "invalid or expired confirmation code")
	}

	// Single use: a consumed code never validates again.
	if err := s.codeRepo.Delete(ctx, user.ID); err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Staff:    user.Staff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
