package hr

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange      = errors.New("end date before start date")
	ErrOverlap           = errors.New("period overlaps an approved or pending request")
	ErrAllowanceExceeded = errors.New("requested days exceed remaining allowance")
	ErrAlreadyDecided    = errors.New("request already decided")
)

// VacationDays returns the inclusive day count between start and end.
func VacationDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// Overlaps reports whether two inclusive date ranges intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// ValidateRequest checks a new vacation request against the
// employee's existing requests and remaining allowance. Rejected
// requests do not count against either.
func ValidateRequest(start, end time.Time, existing []VacationRequest, usedDays int) (int, error) {
	days, err := VacationDays(start, end)
	if err != nil {
		return 0, err
	}
	for _, req := range existing {
		if req.Status == VacationRejected {
			continue
		}
		if Overlaps(start, end, req.StartDate, req.EndDate) {
			return 0, ErrOverlap
		}
	}
	if usedDays+days > VacationAllowanceDays {
		return 0, ErrAllowanceExceeded
	}
	return days, nil
}

// Decide transitions a pending request. Approvals and rejections are
// both terminal.
func Decide(req *VacationRequest, approve bool, decidedBy string, now time.Time) error {
	if req.Status != VacationPending {
		return ErrAlreadyDecided
	}
	if approve {
		req.Status = VacationApproved
	} else {
		req.Status = VacationRejected
	}
	req.DecidedBy = decidedBy
	req.DecidedAt = &now
	return nil
}
