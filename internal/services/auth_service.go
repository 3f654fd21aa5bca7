package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"shopkart/internal/models"
	"shopkart/internal/repositories"
	"shopkart/internal/tokens"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL   = time.Hour
	refreshTokenTTL  = 7 * 24 * time.Hour
	loginRateWindow  = 15 * time.Minute
	maxLoginAttempts = 10
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTooManyAttempts    = errors.New("too many login attempts, try again later")
	ErrUserExists         = errors.New("a user with that username or email already exists")
)

// SignupRequest carries registration data including the optional profile.
type SignupRequest struct {
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	Password2 string         `json:"password2"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Profile   models.Profile `json:"profile"`
}

type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.TokenResponse, *models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

type authService struct {
	userRepo   repositories.UserRepository
	tokenStore tokens.Store
	jwtSecret  []byte
}

func NewAuthService(userRepo repositories.UserRepository, tokenStore tokens.Store, jwtSecret string) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokenStore: tokenStore,
		jwtSecret:  []byte(jwtSecret),
	}
}

func (s *authService) Signup(ctx context.Context, req *SignupRequest) (*models.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, errors.New("username, email and password are required")
	}
	if req.Password != req.Password2 {
		return nil, errors.New("password fields didn't match")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if existing, err := s.userRepo.GetByUsername(ctx, req.Username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if existing != nil {
		return nil, ErrUserExists
	}
	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Profile:      req.Profile,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.TokenResponse, *models.User, error) {
	attempts, err := s.tokenStore.RegisterLoginAttempt(ctx, username, loginRateWindow)
	if err == nil && attempts > maxLoginAttempts {
		return nil, nil, ErrTooManyAttempts
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return resp, user, nil
}

// Refresh rotates the refresh token and issues a fresh access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	userID, err := s.tokenStore.UserIDForToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, tokens.ErrTokenNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10),
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(accessTokenTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken := uuid.NewString()
	if err := s.tokenStore.SaveRefreshToken(ctx, refreshToken, user.ID, refreshTokenTTL); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}
