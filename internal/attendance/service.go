package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/teampulse/attendance-points/internal"
)

// Repository is the data access contract for attendance records.
// FindOpenSession returns (nil, nil) when the user has no open session.
type Repository interface {
	CreateCheckin(rec *Record) error
	FindOpenSession(userID int64) (*Record, error)
	CloseSession(id int64, checkout time.Time, dayReport *string) (*Record, error)
	ListAll() ([]*Record, error)
	ListByDate(day time.Time) ([]*Record, error)
	ListByUser(userID int64) ([]*Record, error)
	ListByUserAndDate(userID int64, day time.Time) ([]*Record, error)
	Update(id int64, dto UpdateAttendanceDTO) (*Record, error)
	DeleteByUserAndDate(userID int64, day time.Time) (int64, error)
}

// Ledger is the slice of the points ledger attendance needs.
type Ledger interface {
	ApplyDelta(ctx context.Context, userID int64, delta int, source string) (int, error)
}

type Service struct {
	repo   Repository
	ledger Ledger
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, ledger Ledger, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock swaps the time source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CheckIn opens a new session for the user and scores it against the 10:00
// anchor. Check-in always creates a new record.
func (s *Service) CheckIn(ctx context.Context, userID int64, dto CheckinDTO) (*Record, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("check-in validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	now := s.now()
	rec := &Record{
		UserID:     userID,
		Checkin:    &now,
		Date:       Midnight(now),
		WorkStatus: dto.WorkStatus,
		TodayTask:  dto.TodayTask,
	}

	if err := s.repo.CreateCheckin(rec); err != nil {
		s.logger.Error("failed to create check-in record", "error", err, "user_id", userID)
		return nil, err
	}

	delta := CheckinDelta(now)
	if _, err := s.ledger.ApplyDelta(ctx, userID, delta, "checkin"); err != nil {
		return nil, err
	}

	s.logger.Info("check-in recorded",
		"user_id", userID,
		"record_id", rec.ID,
		"work_status", dto.WorkStatus,
		"delta", delta)

	return rec, nil
}

// CheckOut closes the user's open session and scores it against the 18:00
// anchor. No open session is a caller error, not a silent no-op.
func (s *Service) CheckOut(ctx context.Context, userID int64, dto CheckoutDTO) (*Record, error) {
	open, err := s.repo.FindOpenSession(userID)
	if err != nil {
		s.logger.Error("failed to look up open session", "error", err, "user_id", userID)
		return nil, err
	}
	if open == nil {
		return nil, internal.ErrNoActiveCheckin
	}

	now := s.now()
	rec, err := s.repo.CloseSession(open.ID, now, dto.DayReport)
	if err != nil {
		s.logger.Error("failed to close session", "error", err, "record_id", open.ID)
		return nil, err
	}

	delta := CheckoutDelta(now)
	if _, err := s.ledger.ApplyDelta(ctx, userID, delta, "checkout"); err != nil {
		return nil, err
	}

	s.logger.Info("check-out recorded",
		"user_id", userID,
		"record_id", rec.ID,
		"delta", delta)

	return rec, nil
}

func (s *Service) ListAll() ([]*Record, error) {
	records, err := s.repo.ListAll()
	if err != nil {
		s.logger.Error("failed to list attendance records", "error", err)
		return nil, err
	}
	return records, nil
}

func (s *Service) ListByDate(day time.Time) ([]*Record, error) {
	records, err := s.repo.ListByDate(Midnight(day))
	if err != nil {
		s.logger.Error("failed to list attendance by date", "error", err, "date", day)
		return nil, err
	}
	return records, nil
}

func (s *Service) ListByUser(userID int64) ([]*Record, error) {
	if userID <= 0 {
		return nil, internal.NewValidationError("user id is required", internal.ErrCodeMissingField)
	}
	records, err := s.repo.ListByUser(userID)
	if err != nil {
		s.logger.Error("failed to list attendance for user", "error", err, "user_id", userID)
		return nil, err
	}
	return records, nil
}

func (s *Service) ListByUserAndDate(userID int64, day time.Time) ([]*Record, error) {
	if userID <= 0 {
		return nil, internal.NewValidationError("user id is required", internal.ErrCodeMissingField)
	}
	records, err := s.repo.ListByUserAndDate(userID, Midnight(day))
	if err != nil {
		s.logger.Error("failed to list attendance for user and date", "error", err, "user_id", userID, "date", day)
		return nil, err
	}
	return records, nil
}

// Update is the admin edit of a record's fields; no rescoring happens here.
func (s *Service) Update(id int64, dto UpdateAttendanceDTO) (*Record, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.repo.Update(id, dto)
	if err != nil {
		s.logger.Error("failed to update attendance record", "error", err, "record_id", id)
		return nil, err
	}

	s.logger.Info("attendance record updated", "record_id", id)
	return rec, nil
}

func (s *Service) DeleteByUserAndDate(userID int64, day time.Time) (int64, error) {
	deleted, err := s.repo.DeleteByUserAndDate(userID, Midnight(day))
	if err != nil {
		s.logger.Error("failed to delete attendance records", "error", err, "user_id", userID, "date", day)
		return 0, err
	}

	s.logger.Info("attendance records deleted", "user_id", userID, "count", deleted)
	return deleted, nil
}
