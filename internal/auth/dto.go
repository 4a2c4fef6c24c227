package auth

import (
	"strings"

	"github.com/teampulse/attendance-points/internal"
)

type RegisterDTO struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"con_password"`
	Role            string `json:"role,omitempty"`
	CNIC            *int64 `json:"cnic,omitempty"`
	Image           string `json:"image,omitempty"`
	ContactNumber   string `json:"contact_number,omitempty"`
	JoiningDate     string `json:"joiningDate,omitempty"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
}

func (dto RegisterDTO) Validate() error {
	if dto.Name == "" || dto.Email == "" || dto.Password == "" || dto.ConfirmPassword == "" {
		return internal.NewValidationError("please fill all the fields", internal.ErrCodeMissingField)
	}
	if !strings.Contains(dto.Email, "@") {
		return internal.NewValidationError("invalid email address", internal.ErrCodeValidationFailed)
	}
	if dto.Password != dto.ConfirmPassword {
		return internal.NewValidationError("passwords do not match", internal.ErrCodeValidationFailed)
	}
	if len(dto.Password) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	switch dto.Role {
	case "", "ADMIN", "EMPLOYEE":
	default:
		return internal.NewValidationError("role must be ADMIN or EMPLOYEE", internal.ErrCodeValidationFailed)
	}
	return nil
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if dto.Email == "" || dto.Password == "" {
		return internal.NewValidationError("email and password are required", internal.ErrCodeMissingField)
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (dto RefreshTokenDTO) Validate() error {
	if dto.RefreshToken == "" {
		return internal.NewValidationError("refresh_token is required", internal.ErrCodeMissingField)
	}
	return nil
}
