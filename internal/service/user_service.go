package service

import (
	"fmt"

	"linguatrail/internal/models"
	"linguatrail/internal/repository"
	"linguatrail/internal/security"
	"linguatrail/internal/validation"
)

// UserService handles profile and account maintenance
type UserService struct {
	userRepo *repository.UserRepository
	lives    *LifePolicy
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository, lives *LifePolicy) *UserService {
	return &UserService{userRepo: userRepo, lives: lives}
}

// GetUser loads a user, applying life regeneration before returning
func (s *UserService) GetUser(userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if s.lives.Refresh(user) {
		if err := s.userRepo.UpdateLives(userID, user.Lives, user.NextLifeAt); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// UpdateProfile changes a user's username and email
func (s *UserService) UpdateProfile(userID int64, username, email string) (*models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return nil, err
		}
	}

	existing, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil && existing.ID != userID {
		return nil, ErrUsernameTaken
	}

	if err := s.userRepo.UpdateProfile(userID, username, email); err != nil {
		return nil, err
	}
	return s.userRepo.GetUserByID(userID)
}

// ChangePassword sets a new password after verifying the current one
func (s *UserService) ChangePassword(userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if !security.CheckPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(userID, passwordHash)
}
