package status

import (
	"github.com/teampulse/attendance-points/internal"
)

// SubmitStatusDTO carries an ordered batch of per-user statuses for one category.
type SubmitStatusDTO struct {
	Statuses []StatusEntryDTO `json:"statuses"`
}

type StatusEntryDTO struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

func (dto SubmitStatusDTO) Validate() error {
	if len(dto.Statuses) == 0 {
		return internal.NewValidationError("statuses must be a non-empty array", internal.ErrCodeMissingField)
	}
	for _, entry := range dto.Statuses {
		if entry.UserID <= 0 {
			return internal.NewValidationError("userId is required for every status entry", internal.ErrCodeMissingField)
		}
		if entry.Status == "" {
			return internal.NewValidationError("status is required for every status entry", internal.ErrCodeMissingField)
		}
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() error {
	if dto.Status == "" {
		return internal.NewValidationError("status is required", internal.ErrCodeMissingField)
	}
	return nil
}
