package user

import (
	"time"
)

const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// User is an employee account. Points are only ever written through the
// ledger statement; no repository method updates that column directly.
type User struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"not null"`
	Email         string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  string     `json:"-" gorm:"column:password_hash;not null"`
	Role          string     `json:"role" gorm:"column:role;default:EMPLOYEE"`
	Points        int        `json:"points" gorm:"column:points;not null;default:0"`
	CNIC          *int64     `json:"cnic,omitempty" gorm:"column:cnic"`
	Image         *string    `json:"image,omitempty" gorm:"column:image"`
	ContactNumber *string    `json:"contact_number,omitempty" gorm:"column:contact_number"`
	JoiningDate   *time.Time `json:"joining_date,omitempty" gorm:"column:joining_date;type:date"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty" gorm:"column:date_of_birth;type:date"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
