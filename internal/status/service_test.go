package status_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/teampulse/attendance-points/internal"
	"github.com/teampulse/attendance-points/internal/core/events"
	"github.com/teampulse/attendance-points/internal/points"
	"github.com/teampulse/attendance-points/internal/status"
)

// Mock repository for testing. It mimics the upsert semantics: one record per
// (user, category, day), with the point delta applied on every submission.
type mockStatusRepository struct {
	records     map[string]*status.Record
	balances    map[int64]int
	submitError error
	listError   error
	updateError error
	deleteError error
	batchCalls  int
	nextID      int64
}

func newMockStatusRepository() *mockStatusRepository {
	return &mockStatusRepository{
		records:  make(map[string]*status.Record),
		balances: make(map[int64]int),
		nextID:   1,
	}
}

func recordKey(userID int64, category points.Category, day time.Time) string {
	return fmt.Sprintf("%d/%s/%s", userID, category, day.Format("2006-01-02"))
}

func (m *mockStatusRepository) SubmitBatch(category points.Category, entries []status.Entry) ([]status.Result, error) {
	m.batchCalls++
	if m.submitError != nil {
		return nil, m.submitError
	}

	results := make([]status.Result, 0, len(entries))
	for _, entry := range entries {
		key := recordKey(entry.UserID, category, entry.Day)
		rec, exists := m.records[key]
		if exists {
			rec.Status = entry.Status
			rec.CreatedAt = time.Now()
		} else {
			rec = &status.Record{
				ID:        m.nextID,
				UserID:    entry.UserID,
				Category:  category,
				Status:    entry.Status,
				Date:      entry.Day,
				CreatedAt: time.Now(),
			}
			m.nextID++
			m.records[key] = rec
		}

		m.balances[entry.UserID] += entry.Delta
		results = append(results, status.Result{Record: rec, NewBalance: m.balances[entry.UserID]})
	}
	return results, nil
}

func (m *mockStatusRepository) List(category points.Category) ([]*status.Record, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var out []*status.Record
	for _, rec := range m.records {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockStatusRepository) ListByUser(category points.Category, userID int64) ([]*status.Record, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var out []*status.Record
	for _, rec := range m.records {
		if rec.Category == category && rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockStatusRepository) UpdateStatus(id int64, s points.Status) (*status.Record, error) {
	if m.updateError != nil {
		return nil, m.updateError
	}
	for _, rec := range m.records {
		if rec.ID == id {
			rec.Status = s
			return rec, nil
		}
	}
	return nil, internal.ErrRecordNotFound
}

func (m *mockStatusRepository) Delete(id int64) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	for key, rec := range m.records {
		if rec.ID == id {
			delete(m.records, key)
			return nil
		}
	}
	return internal.ErrRecordNotFound
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) {
	m.published = append(m.published, event)
}

var _ = Describe("StatusService", func() {
	var (
		service   *status.Service
		mockRepo  *mockStatusRepository
		publisher *mockPublisher
		logger    *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockStatusRepository()
		publisher = &mockPublisher{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = status.NewService(mockRepo, publisher, logger)
	})

	Describe("Submit", func() {
		Context("with a valid batch", func() {
			It("creates one record per entry and applies the policy deltas", func() {
				dto := status.SubmitStatusDTO{Statuses: []status.StatusEntryDTO{
					{UserID: 1, Status: "EARLY"},
					{UserID: 2, Status: "LATE"},
				}}

				records, err := service.Submit(context.Background(), points.CategoryBreak, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(records).To(HaveLen(2))
				Expect(mockRepo.balances[1]).To(Equal(100))
				Expect(mockRepo.balances[2]).To(Equal(-50))
			})

			It("publishes one audit event per entry", func() {
				dto := status.SubmitStatusDTO{Statuses: []status.StatusEntryDTO{
					{UserID: 1, Status: "ONTIME"},
					{UserID: 2, Status: "EARLY"},
				}}

				_, err := service.Submit(context.Background(), points.CategoryMeeting, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(publisher.published).To(HaveLen(2))
			})
		})

		Context("when resubmitting for the same day", func() {
			It("overwrites the record but applies the delta again", func() {
				dto := status.SubmitStatusDTO{Statuses: []status.StatusEntryDTO{
					{UserID: 1, Status: "EARLY"},
				}}

				_, err := service.Submit(context.Background(), points.CategoryBreak, dto)
				Expect(err).ToNot(HaveOccurred())

				records, err := service.Submit(context.Background(), points.CategoryBreak, dto)
				Expect(err).ToNot(HaveOccurred())

				Expect(records).To(HaveLen(1))
				Expect(mockRepo.records).To(HaveLen(1))
				Expect(mockRepo.balances[1]).To(Equal(200))
			})
		})

		Context("when the batch contains an invalid status", func() {
			It("rejects the whole batch before touching the repository", func() {
				dto := status.SubmitStatusDTO{Statuses: []status.StatusEntryDTO{
					{UserID: 1, Status: "EARLY"},
					{UserID: 2, Status: "ONTIME"},
					{UserID: 3, Status: "WHENEVER"},
					{UserID: 4, Status: "LATE"},
					{UserID: 5, Status: "EARLY"},
				}}

				_, err := service.Submit(context.Background(), points.CategoryBreak, dto)

				Expect(err).To(HaveOccurred())
				Expect(mockRepo.batchCalls).To(Equal(0))
				Expect(mockRepo.balances).To(BeEmpty())
				Expect(publisher.published).To(BeEmpty())
			})

			It("rejects MISSED for breaks", func() {
				dto := status.SubmitStatusDTO{Statuses: []status.StatusEntryDTO{
					{UserID: 1, Status: "MISSED"},
				}}

				_, err := service.Submit(context.Background(), points.CategoryBreak, dto)
				Expect(err).To(HaveOccurred())
			})

			It("accepts MISSED for meetings", func() {
				dto := status.SubmitStatusDTO{Statuses: []status.StatusEntryDTO{
					{UserID: 1, Status: "MISSED"},
				}}

				_, err := service.Submit(context.Background(), points.CategoryMeeting, dto)
				Expect(err).ToNot(HaveOccurred())
				Expect(mockRepo.balances[1]).To(Equal(-500))
			})
		})

		Context("when the repository transaction fails", func() {
			It("returns the error and publishes nothing", func() {
				mockRepo.submitError = errors.New("deadlock detected")
				dto := status.SubmitStatusDTO{Statuses: []status.StatusEntryDTO{
					{UserID: 1, Status: "EARLY"},
				}}

				_, err := service.Submit(context.Background(), points.CategoryBreak, dto)

				Expect(err).To(HaveOccurred())
				Expect(publisher.published).To(BeEmpty())
			})
		})

		Context("with an empty batch", func() {
			It("fails validation", func() {
				_, err := service.Submit(context.Background(), points.CategoryBreak, status.SubmitStatusDTO{})
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("UpdateStatus", func() {
		It("rewrites the status without any point delta", func() {
			dto := status.SubmitStatusDTO{Statuses: []status.StatusEntryDTO{
				{UserID: 1, Status: "LATE"},
			}}
			records, err := service.Submit(context.Background(), points.CategoryBreak, dto)
			Expect(err).ToNot(HaveOccurred())
			balanceBefore := mockRepo.balances[1]

			updated, err := service.UpdateStatus(points.CategoryBreak, records[0].ID, status.UpdateStatusDTO{Status: "EARLY"})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Status).To(Equal(points.StatusEarly))
			Expect(mockRepo.balances[1]).To(Equal(balanceBefore))
		})

		It("rejects a status the category does not allow", func() {
			_, err := service.UpdateStatus(points.CategoryProject, 1, status.UpdateStatusDTO{Status: "MISSED"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("propagates not found from the repository", func() {
			err := service.Delete(42)
			Expect(err).To(MatchError(internal.ErrRecordNotFound))
		})
	})

	Describe("ListByUser", func() {
		It("requires a positive user id", func() {
			_, err := service.ListByUser(points.CategoryBreak, 0)
			Expect(err).To(HaveOccurred())
		})
	})
})
