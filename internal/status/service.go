package status

import (
	"context"
	"log/slog"
	"time"

	"github.com/teampulse/attendance-points/internal"
	"github.com/teampulse/attendance-points/internal/core/events"
	"github.com/teampulse/attendance-points/internal/points"
)

// Repository is the data access contract for status records. SubmitBatch must
// apply every upsert and every ledger delta inside one transaction: either the
// whole batch commits or none of it does.
type Repository interface {
	SubmitBatch(category points.Category, entries []Entry) ([]Result, error)
	List(category points.Category) ([]*Record, error)
	ListByUser(category points.Category, userID int64) ([]*Record, error)
	UpdateStatus(id int64, status points.Status) (*Record, error)
	Delete(id int64) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event)
}

// Service implements the daily status upsert: one record per user, category
// and calendar day, with the punctuality policy applied on every submission.
type Service struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit processes an ordered batch of (userId, status) pairs for one
// category. The batch is validated up front, then applied all-or-nothing;
// resubmitting a user's status for the same day overwrites the record but the
// point delta is applied again cumulatively.
func (s *Service) Submit(ctx context.Context, category points.Category, dto SubmitStatusDTO) ([]*Record, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("status batch validation failed", "error", err, "category", category)
		return nil, err
	}

	day := Midnight(s.now())

	entries := make([]Entry, 0, len(dto.Statuses))
	for _, item := range dto.Statuses {
		delta, err := points.Delta(category, points.Status(item.Status))
		if err != nil {
			s.logger.Warn("invalid status in batch, aborting",
				"category", category,
				"user_id", item.UserID,
				"status", item.Status)
			return nil, err
		}
		entries = append(entries, Entry{
			UserID: item.UserID,
			Status: points.Status(item.Status),
			Delta:  delta,
			Day:    day,
		})
	}

	results, err := s.repo.SubmitBatch(category, entries)
	if err != nil {
		s.logger.Error("status batch failed, rolled back", "error", err, "category", category)
		return nil, err
	}

	records := make([]*Record, len(results))
	for i, res := range results {
		records[i] = res.Record
		if s.publisher != nil {
			s.publisher.Publish(ctx, events.NewPointsAdjustedEvent(
				res.Record.UserID, entries[i].Delta, res.NewBalance, string(category)))
		}
	}

	s.logger.Info("status batch applied",
		"category", category,
		"entries", len(records),
		"day", day.Format("2006-01-02"))

	return records, nil
}

// List returns every record for a category, admin only at the route level.
func (s *Service) List(category points.Category) ([]*Record, error) {
	records, err := s.repo.List(category)
	if err != nil {
		s.logger.Error("failed to list status records", "error", err, "category", category)
		return nil, err
	}
	return records, nil
}

func (s *Service) ListByUser(category points.Category, userID int64) ([]*Record, error) {
	if userID <= 0 {
		return nil, internal.NewValidationError("user id is required", internal.ErrCodeMissingField)
	}
	records, err := s.repo.ListByUser(category, userID)
	if err != nil {
		s.logger.Error("failed to list status records for user", "error", err, "category", category, "user_id", userID)
		return nil, err
	}
	return records, nil
}

// UpdateStatus is the admin edit of an existing record. It rewrites the status
// only; no point delta is applied on admin corrections.
func (s *Service) UpdateStatus(category points.Category, id int64, dto UpdateStatusDTO) (*Record, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if !points.ValidStatus(category, points.Status(dto.Status)) {
		return nil, internal.NewValidationError("invalid status for category", internal.ErrCodeInvalidStatus)
	}

	record, err := s.repo.UpdateStatus(id, points.Status(dto.Status))
	if err != nil {
		s.logger.Error("failed to update status record", "error", err, "record_id", id)
		return nil, err
	}

	s.logger.Info("status record updated", "record_id", id, "category", category, "status", dto.Status)
	return record, nil
}

func (s *Service) Delete(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete status record", "error", err, "record_id", id)
		return err
	}
	s.logger.Info("status record deleted", "record_id", id)
	return nil
}
