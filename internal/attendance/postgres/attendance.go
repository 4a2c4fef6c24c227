package postgres

import (
	"errors"
	"time"

	"github.com/teampulse/attendance-points/internal"
	"github.com/teampulse/attendance-points/internal/attendance"
	"gorm.io/gorm"
)

// AttendanceRepository implements attendance.Repository using GORM.
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) CreateCheckin(rec *attendance.Record) error {
	return r.db.Create(rec).Error
}

// FindOpenSession returns the most recent record without a checkout, or
// (nil, nil) when the user has none.
func (r *AttendanceRepository) FindOpenSession(userID int64) (*attendance.Record, error) {
	var rec attendance.Record
	err := r.db.Where("user_id = ? AND checkout IS NULL", userID).
		Order("checkin DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *AttendanceRepository) CloseSession(id int64, checkout time.Time, dayReport *string) (*attendance.Record, error) {
	updates := map[string]interface{}{
		"checkout":   checkout,
		"updated_at": time.Now(),
	}
	if dayReport != nil {
		updates["day_report"] = *dayReport
	}

	result := r.db.Model(&attendance.Record{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, internal.ErrRecordNotFound
	}

	var rec attendance.Record
	if err := r.db.First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *AttendanceRepository) ListAll() ([]*attendance.Record, error) {
	var records []*attendance.Record
	err := r.db.Order("date DESC, checkin DESC").Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) ListByDate(day time.Time) ([]*attendance.Record, error) {
	var records []*attendance.Record
	err := r.db.Where("date = ?", day).
		Order("checkin ASC").
		Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) ListByUser(userID int64) ([]*attendance.Record, error) {
	var records []*attendance.Record
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) ListByUserAndDate(userID int64, day time.Time) ([]*attendance.Record, error) {
	var records []*attendance.Record
	err := r.db.Where("user_id = ? AND date = ?", userID, day).
		Order("checkin ASC").
		Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) Update(id int64, dto attendance.UpdateAttendanceDTO) (*attendance.Record, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if dto.Checkin != nil {
		updates["checkin"] = *dto.Checkin
	}
	if dto.Checkout != nil {
		updates["checkout"] = *dto.Checkout
	}
	if dto.Date != nil {
		updates["date"] = attendance.Midnight(*dto.Date)
	}
	if dto.WorkStatus != nil {
		updates["work_status"] = *dto.WorkStatus
	}
	if dto.TodayTask != nil {
		updates["today_task"] = *dto.TodayTask
	}
	if dto.DayReport != nil {
		updates["day_report"] = *dto.DayReport
	}

	result := r.db.Model(&attendance.Record{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, internal.ErrRecordNotFound
	}

	var rec attendance.Record
	if err := r.db.First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *AttendanceRepository) DeleteByUserAndDate(userID int64, day time.Time) (int64, error) {
	result := r.db.Where("user_id = ? AND date = ?", userID, day).
		Delete(&attendance.Record{})
	return result.RowsAffected, result.Error
}
