package service

import (
	"errors"
	"strings"

	"go-hpp-engine/internal/model"
	"go-hpp-engine/internal/repository"
	"go-hpp-engine/pkg/apperror"
	"go-hpp-engine/pkg/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrEmailTaken         = errors.New("email already registered")
)

type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"full_name" validate:"required"`
	BusinessName string `json:"business_name"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type AuthService interface {
	Register(req RegisterRequest) (*LoginResponse, error)
	Login(email, password string) (*LoginResponse, error)
	Me(userID uuid.UUID) (*model.UserResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	log      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, log *zap.Logger) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

func (s *authService) Register(req RegisterRequest) (*LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperror.Wrap(apperror.CodeConflict, ErrEmailTaken, ErrEmailTaken.Error())
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError("user", err)
	}

	user := &model.User{
		Email:        req.Email,
		FullName:     req.FullName,
		BusinessName: req.BusinessName,
		IsActive:     true,
	}
	user.CreatedBy = req.Email
	user.UpdatedBy = req.Email
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to hash password")
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, storeError("user", err)
	}

	s.log.Info("owner registered", zap.String("user_id", user.ID.String()))
	return s.Login(req.Email, req.Password)
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeUnauthorized, ErrInvalidCredentials, ErrInvalidCredentials.Error())
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, apperror.Wrap(apperror.CodeUnauthorized, ErrUserInactive, ErrUserInactive.Error())
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, apperror.Wrap(apperror.CodeUnauthorized, ErrInvalidCredentials, ErrInvalidCredentials.Error())
	}

	// 4. Single Session: Generate New Token Version
	version := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(user.ID, version); err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to update session")
	}
	user.TokenVersion = version
	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		s.log.Warn("last login not recorded", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	// 5. Generate JWT token with TokenVersion
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.FullName, version)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to generate token")
	}

	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) Me(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.CodeNotFound, ErrUserNotFound, ErrUserNotFound.Error())
		}
		return nil, storeError("user", err)
	}
	resp := user.ToResponse()
	return &resp, nil
}
