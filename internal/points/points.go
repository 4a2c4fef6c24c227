package points

import (
	"fmt"

	"github.com/teampulse/attendance-points/internal"
)

// Category identifies which kind of punctuality report a status belongs to.
type Category string

const (
	CategoryBreak   Category = "BREAK"
	CategoryMeeting Category = "MEETING"
	CategoryProject Category = "PROJECT"
)

// Status is the punctuality outcome reported for a scheduled event.
type Status string

const (
	StatusEarly  Status = "EARLY"
	StatusOnTime Status = "ONTIME"
	StatusLate   Status = "LATE"
	StatusMissed Status = "MISSED"
)

// deltas is the canonical point table. Every category scores the same;
// MISSED only exists for meetings.
var deltas = map[Status]int{
	StatusEarly:  100,
	StatusOnTime: 50,
	StatusLate:   -50,
	StatusMissed: -500,
}

var allowedStatuses = map[Category][]Status{
	CategoryBreak:   {StatusEarly, StatusOnTime, StatusLate},
	CategoryMeeting: {StatusEarly, StatusOnTime, StatusLate, StatusMissed},
	CategoryProject: {StatusEarly, StatusOnTime, StatusLate},
}

func ValidCategory(c Category) bool {
	_, ok := allowedStatuses[c]
	return ok
}

func ValidStatus(c Category, s Status) bool {
	for _, allowed := range allowedStatuses[c] {
		if s == allowed {
			return true
		}
	}
	return false
}

// Delta maps a (category, status) pair to its signed point delta. It is pure:
// no I/O, no side effects.
func Delta(c Category, s Status) (int, error) {
	if !ValidStatus(c, s) {
		return 0, internal.NewValidationError(
			fmt.Sprintf("status %q is not valid for category %q", s, c),
			internal.ErrCodeInvalidStatus)
	}
	return deltas[s], nil
}
