package postgres

import (
	"database/sql"
	"time"

	"github.com/teampulse/attendance-points/internal"
	"github.com/teampulse/attendance-points/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentials(email string) (string, int64, error) {
	var passwordHash string
	var userID int64
	query := `SELECT id, password_hash FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, internal.ErrUserNotFound
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repository) CreateUser(dto auth.RegisterDTO, passwordHash string) (*auth.User, error) {
	joiningDate := parseDate(dto.JoiningDate)
	dateOfBirth := parseDate(dto.DateOfBirth)

	var userID int64
	query := `INSERT INTO users
		(name, email, password_hash, role, points, cnic, image, contact_number, joining_date, date_of_birth, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?, ?, now(), now())
		RETURNING id`

	row := r.db.Raw(query,
		dto.Name, dto.Email, passwordHash, dto.Role,
		dto.CNIC, nullable(dto.Image), nullable(dto.ContactNumber),
		joiningDate, dateOfBirth,
	).Row()
	if err := row.Scan(&userID); err != nil {
		return nil, err
	}

	return &auth.User{
		ID:    userID,
		Name:  dto.Name,
		Email: dto.Email,
		Role:  dto.Role,
	}, nil
}

func (r *Repository) GetUserByID(userID int64) (*auth.User, error) {
	var user auth.User
	query := `SELECT id, name, email, role FROM users WHERE id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
