package attendance_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/teampulse/attendance-points/internal"
	"github.com/teampulse/attendance-points/internal/attendance"
)

// Mock repository for testing
type mockAttendanceRepository struct {
	records     map[int64]*attendance.Record
	createError error
	findError   error
	closeError  error
	nextID      int64
}

func newMockAttendanceRepository() *mockAttendanceRepository {
	return &mockAttendanceRepository{
		records: make(map[int64]*attendance.Record),
		nextID:  1,
	}
}

func (m *mockAttendanceRepository) CreateCheckin(rec *attendance.Record) error {
	if m.createError != nil {
		return m.createError
	}
	rec.ID = m.nextID
	m.nextID++
	rec.CreatedAt = time.Now()
	m.records[rec.ID] = rec
	return nil
}

func (m *mockAttendanceRepository) FindOpenSession(userID int64) (*attendance.Record, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	var latest *attendance.Record
	for _, rec := range m.records {
		if rec.UserID != userID || rec.Checkout != nil {
			continue
		}
		if latest == nil || rec.Checkin.After(*latest.Checkin) {
			latest = rec
		}
	}
	return latest, nil
}

func (m *mockAttendanceRepository) CloseSession(id int64, checkout time.Time, dayReport *string) (*attendance.Record, error) {
	if m.closeError != nil {
		return nil, m.closeError
	}
	rec, exists := m.records[id]
	if !exists {
		return nil, internal.ErrRecordNotFound
	}
	rec.Checkout = &checkout
	if dayReport != nil {
		rec.DayReport = dayReport
	}
	return rec, nil
}

func (m *mockAttendanceRepository) ListAll() ([]*attendance.Record, error) {
	out := make([]*attendance.Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

func (m *mockAttendanceRepository) ListByDate(day time.Time) ([]*attendance.Record, error) {
	var out []*attendance.Record
	for _, rec := range m.records {
		if rec.Date.Equal(day) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepository) ListByUser(userID int64) ([]*attendance.Record, error) {
	var out []*attendance.Record
	for _, rec := range m.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepository) ListByUserAndDate(userID int64, day time.Time) ([]*attendance.Record, error) {
	var out []*attendance.Record
	for _, rec := range m.records {
		if rec.UserID == userID && rec.Date.Equal(day) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepository) Update(id int64, dto attendance.UpdateAttendanceDTO) (*attendance.Record, error) {
	rec, exists := m.records[id]
	if !exists {
		return nil, internal.ErrRecordNotFound
	}
	if dto.WorkStatus != nil {
		rec.WorkStatus = *dto.WorkStatus
	}
	if dto.DayReport != nil {
		rec.DayReport = dto.DayReport
	}
	return rec, nil
}

func (m *mockAttendanceRepository) DeleteByUserAndDate(userID int64, day time.Time) (int64, error) {
	var deleted int64
	for id, rec := range m.records {
		if rec.UserID == userID && rec.Date.Equal(day) {
			delete(m.records, id)
			deleted++
		}
	}
	return deleted, nil
}

type mockLedger struct {
	deltas   []int
	sources  []string
	balance  int
	applyErr error
}

func (m *mockLedger) ApplyDelta(ctx context.Context, userID int64, delta int, source string) (int, error) {
	if m.applyErr != nil {
		return 0, m.applyErr
	}
	m.balance += delta
	m.deltas = append(m.deltas, delta)
	m.sources = append(m.sources, source)
	return m.balance, nil
}

var _ = Describe("AttendanceService", func() {
	var (
		service  *attendance.Service
		mockRepo *mockAttendanceRepository
		ledger   *mockLedger
		logger   *slog.Logger
	)

	clockAt := func(hour, minute int) func() time.Time {
		return func() time.Time {
			return time.Date(2026, time.March, 2, hour, minute, 0, 0, time.Local)
		}
	}

	BeforeEach(func() {
		mockRepo = newMockAttendanceRepository()
		ledger = &mockLedger{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = attendance.NewService(mockRepo, ledger, logger)
	})

	Describe("CheckIn", func() {
		Context("before the 10:00 anchor", func() {
			It("opens a session and awards the early bonus", func() {
				service.WithClock(clockAt(9, 30))

				rec, err := service.CheckIn(context.Background(), 1, attendance.CheckinDTO{WorkStatus: attendance.WorkStatusOnsite})

				Expect(err).ToNot(HaveOccurred())
				Expect(rec.ID).To(BeNumerically(">", 0))
				Expect(rec.Checkin).ToNot(BeNil())
				Expect(rec.Checkout).To(BeNil())
				Expect(ledger.deltas).To(Equal([]int{200}))
				Expect(ledger.sources).To(Equal([]string{"checkin"}))
			})
		})

		Context("after the anchor", func() {
			It("applies the per-minute penalty", func() {
				service.WithClock(clockAt(11, 30))

				_, err := service.CheckIn(context.Background(), 1, attendance.CheckinDTO{WorkStatus: attendance.WorkStatusHybrid})

				Expect(err).ToNot(HaveOccurred())
				Expect(ledger.deltas).To(Equal([]int{-4500}))
			})
		})

		It("normalizes the record date to midnight", func() {
			service.WithClock(clockAt(9, 30))

			rec, err := service.CheckIn(context.Background(), 1, attendance.CheckinDTO{WorkStatus: attendance.WorkStatusOnsite})

			Expect(err).ToNot(HaveOccurred())
			Expect(rec.Date.Hour()).To(Equal(0))
			Expect(rec.Date.Minute()).To(Equal(0))
			Expect(rec.Date.Day()).To(Equal(2))
		})

		It("rejects an unknown work status without touching the ledger", func() {
			_, err := service.CheckIn(context.Background(), 1, attendance.CheckinDTO{WorkStatus: "REMOTE"})

			Expect(err).To(HaveOccurred())
			Expect(ledger.deltas).To(BeEmpty())
			Expect(mockRepo.records).To(BeEmpty())
		})

		It("allows a second check-in the same day as a new session", func() {
			service.WithClock(clockAt(9, 0))
			_, err := service.CheckIn(context.Background(), 1, attendance.CheckinDTO{WorkStatus: attendance.WorkStatusOnsite})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CheckOut(context.Background(), 1, attendance.CheckoutDTO{})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CheckIn(context.Background(), 1, attendance.CheckinDTO{WorkStatus: attendance.WorkStatusOnsite})
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.records).To(HaveLen(2))
		})
	})

	Describe("CheckOut", func() {
		Context("with an open session", func() {
			It("closes it and scores against the 18:00 anchor", func() {
				service.WithClock(clockAt(9, 0))
				_, err := service.CheckIn(context.Background(), 1, attendance.CheckinDTO{WorkStatus: attendance.WorkStatusOnsite})
				Expect(err).ToNot(HaveOccurred())

				service.WithClock(clockAt(19, 0))
				report := "shipped the report"
				rec, err := service.CheckOut(context.Background(), 1, attendance.CheckoutDTO{DayReport: &report})

				Expect(err).ToNot(HaveOccurred())
				Expect(rec.Checkout).ToNot(BeNil())
				Expect(rec.DayReport).To(Equal(&report))
				Expect(ledger.deltas).To(Equal([]int{200, 200}))
				Expect(ledger.sources).To(Equal([]string{"checkin", "checkout"}))
			})

			It("deducts for leaving early", func() {
				service.WithClock(clockAt(9, 0))
				_, err := service.CheckIn(context.Background(), 1, attendance.CheckinDTO{WorkStatus: attendance.WorkStatusOnsite})
				Expect(err).ToNot(HaveOccurred())

				service.WithClock(clockAt(16, 0))
				_, err = service.CheckOut(context.Background(), 1, attendance.CheckoutDTO{})

				Expect(err).ToNot(HaveOccurred())
				Expect(ledger.deltas[1]).To(Equal(-400))
			})
		})

		Context("without an open session", func() {
			It("fails and applies no delta", func() {
				_, err := service.CheckOut(context.Background(), 1, attendance.CheckoutDTO{})

				Expect(err).To(MatchError(internal.ErrNoActiveCheckin))
				Expect(ledger.deltas).To(BeEmpty())
			})

			It("fails after the session was already closed", func() {
				service.WithClock(clockAt(9, 0))
				_, err := service.CheckIn(context.Background(), 1, attendance.CheckinDTO{WorkStatus: attendance.WorkStatusOnsite})
				Expect(err).ToNot(HaveOccurred())

				service.WithClock(clockAt(18, 0))
				_, err = service.CheckOut(context.Background(), 1, attendance.CheckoutDTO{})
				Expect(err).ToNot(HaveOccurred())

				_, err = service.CheckOut(context.Background(), 1, attendance.CheckoutDTO{})
				Expect(err).To(MatchError(internal.ErrNoActiveCheckin))
			})
		})

		Context("when the repository lookup fails", func() {
			It("propagates the error", func() {
				mockRepo.findError = errors.New("connection lost")

				_, err := service.CheckOut(context.Background(), 1, attendance.CheckoutDTO{})
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Update", func() {
		It("edits a record without any ledger write", func() {
			service.WithClock(clockAt(9, 0))
			rec, err := service.CheckIn(context.Background(), 1, attendance.CheckinDTO{WorkStatus: attendance.WorkStatusOnsite})
			Expect(err).ToNot(HaveOccurred())
			ledgerWrites := len(ledger.deltas)

			ws := attendance.WorkStatusWorkFromHome
			updated, err := service.Update(rec.ID, attendance.UpdateAttendanceDTO{WorkStatus: &ws})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.WorkStatus).To(Equal(attendance.WorkStatusWorkFromHome))
			Expect(ledger.deltas).To(HaveLen(ledgerWrites))
		})

		It("rejects an empty update", func() {
			_, err := service.Update(1, attendance.UpdateAttendanceDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DeleteByUserAndDate", func() {
		It("removes all of the user's records for the day", func() {
			service.WithClock(clockAt(9, 0))
			_, err := service.CheckIn(context.Background(), 1, attendance.CheckinDTO{WorkStatus: attendance.WorkStatusOnsite})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.CheckOut(context.Background(), 1, attendance.CheckoutDTO{})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.CheckIn(context.Background(), 1, attendance.CheckinDTO{WorkStatus: attendance.WorkStatusOnsite})
			Expect(err).ToNot(HaveOccurred())

			deleted, err := service.DeleteByUserAndDate(1, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.Local))

			Expect(err).ToNot(HaveOccurred())
			Expect(deleted).To(Equal(int64(2)))
			Expect(mockRepo.records).To(BeEmpty())
		})
	})
})
