package status

import (
	"time"

	"github.com/teampulse/attendance-points/internal/points"
)

// Record is the single punctuality entry permitted per user, category and
// calendar day. Uniqueness is enforced by the database index, not by
// find-then-create.
type Record struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	UserID    int64           `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_status_user_category_day"`
	Category  points.Category `json:"category" gorm:"column:category;not null;uniqueIndex:idx_status_user_category_day"`
	Status    points.Status   `json:"status" gorm:"column:status;not null"`
	Date      time.Time       `json:"date" gorm:"column:date;type:date;uniqueIndex:idx_status_user_category_day"`
	CreatedAt time.Time       `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Record) TableName() string {
	return "status_records"
}

// Entry is one validated batch item, delta already resolved by the policy.
type Entry struct {
	UserID int64
	Status points.Status
	Delta  int
	Day    time.Time
}

// Result pairs the upserted record with the balance the ledger write produced.
type Result struct {
	Record     *Record
	NewBalance int
}

// Midnight truncates t to the start of its calendar day in local time.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
