package postgres

import (
	"errors"
	"time"

	"github.com/teampulse/attendance-points/internal"
	"github.com/teampulse/attendance-points/internal/points"
	pointsRepo "github.com/teampulse/attendance-points/internal/points/postgres"
	"github.com/teampulse/attendance-points/internal/status"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusRepository implements status.Repository using GORM.
type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) status.Repository {
	return &StatusRepository{db: db}
}

// SubmitBatch upserts every entry and applies its ledger delta inside one
// transaction. The conflict target is the unique (user_id, category, date)
// index, so a resubmission overwrites the day's record instead of duplicating it.
func (r *StatusRepository) SubmitBatch(category points.Category, entries []status.Entry) ([]status.Result, error) {
	results := make([]status.Result, 0, len(entries))

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			record := &status.Record{
				UserID:    entry.UserID,
				Category:  category,
				Status:    entry.Status,
				Date:      entry.Day,
				CreatedAt: time.Now(),
			}

			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "category"}, {Name: "date"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"status":     string(entry.Status),
					"created_at": time.Now(),
				}),
			}).Create(record).Error
			if err != nil {
				return err
			}

			newBalance, err := pointsRepo.AdjustPointsTx(tx, entry.UserID, entry.Delta)
			if err != nil {
				return err
			}

			results = append(results, status.Result{
				Record:     record,
				NewBalance: newBalance,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *StatusRepository) List(category points.Category) ([]*status.Record, error) {
	var records []*status.Record
	err := r.db.Where("category = ?", category).
		Order("date DESC, user_id ASC").
		Find(&records).Error
	return records, err
}

func (r *StatusRepository) ListByUser(category points.Category, userID int64) ([]*status.Record, error) {
	var records []*status.Record
	err := r.db.Where("category = ? AND user_id = ?", category, userID).
		Order("date DESC").
		Find(&records).Error
	return records, err
}

func (r *StatusRepository) UpdateStatus(id int64, newStatus points.Status) (*status.Record, error) {
	var record status.Record
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRecordNotFound
		}
		return nil, err
	}

	record.Status = newStatus
	if err := r.db.Model(&record).Update("status", string(newStatus)).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *StatusRepository) Delete(id int64) error {
	result := r.db.Delete(&status.Record{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrRecordNotFound
	}
	return nil
}
