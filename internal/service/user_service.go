package service

import (
	"errors"

	"go-hpp-engine/internal/model"
	"go-hpp-engine/internal/repository"
	"go-hpp-engine/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrWrongPassword = errors.New("current password is incorrect")

type UpdateProfileRequest struct {
	FullName     string `json:"full_name" validate:"required"`
	BusinessName string `json:"business_name"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UserService lets an owner manage their own account.
type UserService interface {
	UpdateProfile(a Actor, req UpdateProfileRequest) (*model.UserResponse, error)
	ChangePassword(a Actor, req ChangePasswordRequest) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) find(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.CodeNotFound, ErrUserNotFound, ErrUserNotFound.Error())
		}
		return nil, storeError("user", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(a Actor, req UpdateProfileRequest) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.find(a.OwnerID); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProfile(a.OwnerID, req.FullName, req.BusinessName, a.auditName()); err != nil {
		return nil, storeError("user", err)
	}

	user, err := s.find(a.OwnerID)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// ChangePassword also ends every session of the owner, including the caller's.
func (s *userService) ChangePassword(a Actor, req ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	user, err := s.find(a.OwnerID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return apperror.Wrap(apperror.CodeUnauthorized, ErrWrongPassword, ErrWrongPassword.Error())
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return apperror.Wrap(apperror.CodeInternal, err, "failed to hash password")
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password, uuid.New().String(), a.auditName()); err != nil {
		return storeError("user", err)
	}
	return nil
}
