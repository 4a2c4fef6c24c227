package attendance

import (
	"time"
)

const (
	WorkStatusOnsite       = "ONSITE"
	WorkStatusWorkFromHome = "WORKFORMHOME"
	WorkStatusHybrid       = "HYBRID"
)

func ValidWorkStatus(s string) bool {
	switch s {
	case WorkStatusOnsite, WorkStatusWorkFromHome, WorkStatusHybrid:
		return true
	}
	return false
}

// Record is one working day for one user. A record with a nil checkout is an
// open session; check-out closes the most recent one.
type Record struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	UserID     int64      `json:"user_id" gorm:"column:user_id;not null;index"`
	Checkin    *time.Time `json:"checkin" gorm:"column:checkin"`
	Checkout   *time.Time `json:"checkout" gorm:"column:checkout"`
	Date       time.Time  `json:"date" gorm:"column:date;type:date;index"`
	WorkStatus string     `json:"work_status" gorm:"column:work_status;not null"`
	TodayTask  *string    `json:"today_task,omitempty" gorm:"column:today_task"`
	DayReport  *string    `json:"day_report,omitempty" gorm:"column:day_report"`
	CreatedAt  time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Record) TableName() string {
	return "attendance_records"
}

// Midnight truncates t to the start of its calendar day in local time.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
