package user

import (
	"context"
	"log/slog"

	"github.com/teampulse/attendance-points/internal"
	"golang.org/x/crypto/bcrypt"
)

// Repository is the data access contract for users. Note the absence of any
// points setter: balance mutation goes through the ledger.
type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetAll() ([]*User, error)
	Update(u *User) error
	UpdateProfile(id int64, dto UpdateProfileDTO) (*User, error)
	Delete(id int64) error
}

// PointsLedger is the slice of the ledger service exposed to user admin ops.
type PointsLedger interface {
	ApplyDelta(ctx context.Context, userID int64, delta int, source string) (int, error)
}

type Service struct {
	repo       Repository
	ledger     PointsLedger
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo Repository, ledger PointsLedger, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		ledger:     ledger,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	role := dto.Role
	if role == "" {
		role = RoleEmployee
	}

	u := &User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, err
	}
	return u, nil
}

func (s *Service) GetAll() ([]*User, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

func (s *Service) Update(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Email != nil {
		u.Email = *dto.Email
	}
	if dto.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id)
	return u, nil
}

func (s *Service) UpdateProfile(id int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.UpdateProfile(id, dto)
	if err != nil {
		s.logger.Error("failed to update profile", "error", err, "user_id", id)
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", id)
	return u, nil
}

func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return err
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

// AdjustPoints is the admin-side manual balance correction; it goes through
// the ledger like every other point mutation.
func (s *Service) AdjustPoints(ctx context.Context, id int64, delta int) (*User, error) {
	if _, err := s.ledger.ApplyDelta(ctx, id, delta, "admin"); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}
