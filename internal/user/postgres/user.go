package postgres

import (
	"errors"
	"time"

	"github.com/teampulse/attendance-points/internal"
	"github.com/teampulse/attendance-points/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements user.Repository using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetAll() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(u *user.User) error {
	u.UpdatedAt = time.Now()
	// Save would overwrite points; update the mutable columns only
	return r.db.Model(u).Updates(map[string]interface{}{
		"name":          u.Name,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"updated_at":    u.UpdatedAt,
	}).Error
}

func (r *UserRepository) UpdateProfile(id int64, dto user.UpdateProfileDTO) (*user.User, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if dto.CNIC != nil {
		updates["cnic"] = *dto.CNIC
	}
	if dto.Image != nil {
		updates["image"] = *dto.Image
	}
	if dto.JoiningDate != nil {
		updates["joining_date"] = *dto.JoiningDate
	}
	if dto.DateOfBirth != nil {
		updates["date_of_birth"] = *dto.DateOfBirth
	}

	result := r.db.Model(&user.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, internal.ErrUserNotFound
	}

	return r.GetByID(id)
}

func (r *UserRepository) Delete(id int64) error {
	result := r.db.Delete(&user.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}
