package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePointsAdjusted = "points.adjusted"
)

// PointsAdjustedEvent is emitted after every successful ledger write so the
// audit subscriber can record who gained or lost points and why.
type PointsAdjustedEvent struct {
	BaseEvent
	UserID     int64  `json:"user_id"`
	Delta      int    `json:"delta"`
	NewBalance int    `json:"new_balance"`
	Source     string `json:"source"`
}

func NewPointsAdjustedEvent(userID int64, delta, newBalance int, source string) *PointsAdjustedEvent {
	return &PointsAdjustedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePointsAdjusted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":     userID,
				"delta":       delta,
				"new_balance": newBalance,
				"source":      source,
			},
		},
		UserID:     userID,
		Delta:      delta,
		NewBalance: newBalance,
		Source:     source,
	}
}
