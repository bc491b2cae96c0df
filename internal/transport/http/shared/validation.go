package shared

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"civitec/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator accumulates per-field issues across a payload so the
// response reports everything wrong at once. Fields keep the order in
// which the handler checked them.
type Validator struct {
	reasons map[string][]string
	order   []string
}

func NewValidator() *Validator {
	return &Validator{reasons: make(map[string][]string)}
}

func (v *Validator) Add(field, reason string) {
	if v == nil || strings.TrimSpace(reason) == "" {
		return
	}
	field = strings.TrimSpace(field)
	if _, seen := v.reasons[field]; !seen {
		v.order = append(v.order, field)
	}
	v.reasons[field] = append(v.reasons[field], strings.TrimSpace(reason))
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

// MinLen counts runes, not bytes, so accented names are not penalized.
func (v *Validator) MinLen(field, value string, min int) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		v.Add(field, fmt.Sprintf("must have at least %d characters", min))
	}
}

// Positive flags zero and negative amounts. Absent optional amounts
// should be checked with Required before calling this.
func (v *Validator) Positive(field string, value float64) {
	if value <= 0 {
		v.Add(field, "must be greater than zero")
	}
}

func (v *Validator) Enum(field, value string, allowed []string, reason string) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return
	}
	for _, candidate := range allowed {
		if normalized == strings.ToLower(strings.TrimSpace(candidate)) {
			return
		}
	}
	v.Add(field, reason)
}

func (v *Validator) Date(field, raw string) (time.Time, bool) {
	parsed, err := ParseDate(strings.TrimSpace(raw))
	if err != nil || parsed.IsZero() {
		v.Add(field, "must be a date in YYYY-MM-DD or DD/MM/YYYY format")
		return time.Time{}, false
	}
	return parsed, true
}

func (v *Validator) DateOrder(startField string, start time.Time, endField string, end time.Time) {
	if start.IsZero() || end.IsZero() {
		return
	}
	if end.Before(start) {
		v.Add(startField, "must be on or before "+endField)
		v.Add(endField, "must be on or after "+startField)
	}
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.order) > 0
}

func (v *Validator) Issues() []ValidationIssue {
	if !v.HasIssues() {
		return nil
	}
	var out []ValidationIssue
	for _, field := range v.order {
		for _, reason := range v.reasons[field] {
			out = append(out, ValidationIssue{Field: field, Reason: reason})
		}
	}
	return out
}

// Reject writes the 400 envelope when any issue was recorded and
// reports whether it did, so handlers can bail with a single if.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": v.Issues()},
		requestID,
	)
	return true
}
