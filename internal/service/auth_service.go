package service

import (
	"context"
	"errors"

	"github.com/fitbody/fitbody-backend/internal/models"
	"github.com/fitbody/fitbody-backend/internal/repository"
	"github.com/fitbody/fitbody-backend/pkg/bcrypt"
	"github.com/fitbody/fitbody-backend/pkg/email"
	jwtPkg "github.com/fitbody/fitbody-backend/pkg/jwt"
	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	userRepo     *repository.UserRepository
	emailService *email.EmailService
	logger       *zap.Logger
	jwtSecret    string
}

func NewAuthService(userRepo *repository.UserRepository, emailService *email.EmailService, logger *zap.Logger, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		emailService: emailService,
		logger:       logger,
		jwtSecret:    jwtSecret,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     models.RoleMember,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Welcome mail is best-effort, registration does not wait on it.
	go func() {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.FullName); err != nil {
			s.logger.Warn("welcome email failed", zap.String("email", user.Email), zap.Error(err))
		}
	}()

	token, err := jwtPkg.GenerateToken(s.jwtSecret, user.Email, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwtPkg.GenerateToken(s.jwtSecret, user.Email, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = req.FullName
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
