package postgres

import (
	"database/sql"
	"time"

	"github.com/teampulse/attendance-points/internal"
	"github.com/teampulse/attendance-points/internal/points"
	"gorm.io/gorm"
)

// LedgerRepository implements points.Repository over postgres.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) points.Repository {
	return &LedgerRepository{db: db}
}

// AdjustPoints applies the delta in one statement so concurrent writers
// serialize on the row instead of racing a read-then-write.
func (r *LedgerRepository) AdjustPoints(userID int64, delta int) (int, error) {
	return AdjustPointsTx(r.db, userID, delta)
}

// AdjustPointsTx is the shared single-statement ledger write. Repositories
// that need a delta inside their own transaction call it with their tx handle.
func AdjustPointsTx(tx *gorm.DB, userID int64, delta int) (int, error) {
	var newBalance int
	row := tx.Raw(
		`UPDATE users SET points = points + ?, updated_at = ? WHERE id = ? RETURNING points`,
		delta, time.Now(), userID,
	).Row()

	if err := row.Scan(&newBalance); err != nil {
		if err == sql.ErrNoRows {
			// no row updated means the user does not exist
			return 0, internal.ErrUserNotFound
		}
		return 0, err
	}
	return newBalance, nil
}
