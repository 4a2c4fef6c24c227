package attendance

import (
	"time"

	"github.com/teampulse/attendance-points/internal"
)

type CheckinDTO struct {
	WorkStatus string  `json:"workStatus"`
	TodayTask  *string `json:"todayTask,omitempty"`
}

func (dto CheckinDTO) Validate() error {
	if !ValidWorkStatus(dto.WorkStatus) {
		return internal.NewValidationError("invalid work status provided", internal.ErrCodeInvalidWorkStatus)
	}
	return nil
}

type CheckoutDTO struct {
	DayReport *string `json:"dayReport,omitempty"`
}

// UpdateAttendanceDTO is the admin edit of a record; all fields optional.
type UpdateAttendanceDTO struct {
	Checkin    *time.Time `json:"checkin,omitempty"`
	Checkout   *time.Time `json:"checkout,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	WorkStatus *string    `json:"workStatus,omitempty"`
	TodayTask  *string    `json:"todayTask,omitempty"`
	DayReport  *string    `json:"dayReport,omitempty"`
}

func (dto UpdateAttendanceDTO) Validate() error {
	if dto.Checkin == nil && dto.Checkout == nil && dto.Date == nil &&
		dto.WorkStatus == nil && dto.TodayTask == nil && dto.DayReport == nil {
		return internal.NewValidationError("nothing to update", internal.ErrCodeMissingField)
	}
	if dto.WorkStatus != nil && !ValidWorkStatus(*dto.WorkStatus) {
		return internal.NewValidationError("invalid work status provided", internal.ErrCodeInvalidWorkStatus)
	}
	return nil
}

// DeleteAttendanceDTO identifies a user's records on one calendar day.
type DeleteAttendanceDTO struct {
	UserID int64  `json:"id"`
	Date   string `json:"date"`
}

func (dto DeleteAttendanceDTO) Validate() error {
	if dto.UserID <= 0 || dto.Date == "" {
		return internal.NewValidationError("user id and date are required", internal.ErrCodeMissingField)
	}
	return nil
}
