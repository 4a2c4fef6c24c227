package points

import (
	"context"
	"log/slog"

	"github.com/teampulse/attendance-points/internal/core/events"
)

// Repository is the data access contract for the ledger. AdjustPoints must be
// a single atomic read-modify-write: concurrent deltas for the same user may
// never lose updates.
type Repository interface {
	AdjustPoints(userID int64, delta int) (newBalance int, err error)
}

// Publisher is the slice of the event bus the ledger needs.
type Publisher interface {
	Publish(ctx context.Context, event events.Event)
}

// Ledger is the only code path allowed to mutate a user's point balance.
type Ledger struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
}

func NewLedger(repo Repository, publisher Publisher, logger *slog.Logger) *Ledger {
	return &Ledger{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// ApplyDelta adds delta to the user's balance and returns the new balance.
// Delta may be negative and zero is a legal no-op; balances are not clamped.
// Source names the caller for the audit trail ("checkin", "break", ...).
func (l *Ledger) ApplyDelta(ctx context.Context, userID int64, delta int, source string) (int, error) {
	newBalance, err := l.repo.AdjustPoints(userID, delta)
	if err != nil {
		l.logger.Error("failed to adjust points", "error", err, "user_id", userID, "delta", delta)
		return 0, err
	}

	l.logger.Info("points adjusted",
		"user_id", userID,
		"delta", delta,
		"new_balance", newBalance,
		"source", source)

	if l.publisher != nil {
		l.publisher.Publish(ctx, events.NewPointsAdjustedEvent(userID, delta, newBalance, source))
	}

	return newBalance, nil
}
