package user

import (
	"time"

	"github.com/teampulse/attendance-points/internal"
)

type CreateUserDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (dto CreateUserDTO) Validate() error {
	if dto.Name == "" || dto.Email == "" || dto.Password == "" {
		return internal.NewValidationError("all fields are required", internal.ErrCodeMissingField)
	}
	switch dto.Role {
	case "", RoleAdmin, RoleEmployee:
	default:
		return internal.NewValidationError("role must be ADMIN or EMPLOYEE", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateUserDTO struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.Name == nil && dto.Email == nil && dto.Password == nil {
		return internal.NewValidationError("nothing to update", internal.ErrCodeMissingField)
	}
	if dto.Name != nil && *dto.Name == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Email != nil && *dto.Email == "" {
		return internal.NewValidationError("email cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateProfileDTO covers the self-service profile fields.
type UpdateProfileDTO struct {
	CNIC        *int64     `json:"cnic,omitempty"`
	Image       *string    `json:"image,omitempty"`
	JoiningDate *time.Time `json:"joiningDate,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
}

func (dto UpdateProfileDTO) Validate() error {
	if dto.CNIC == nil && dto.Image == nil && dto.JoiningDate == nil && dto.DateOfBirth == nil {
		return internal.NewValidationError("nothing to update", internal.ErrCodeMissingField)
	}
	return nil
}

// AdjustPointsDTO is the admin-side manual balance correction.
type AdjustPointsDTO struct {
	Delta int `json:"delta"`
}
