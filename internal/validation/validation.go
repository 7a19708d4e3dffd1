package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID      = fmt.Errorf("invalid UUID format")
	ErrInvalidDateRange = fmt.Errorf("invalid date range")
	ErrEmptySlice       = fmt.Errorf("slice cannot be empty")
)

// DateLayout is the calendar date format accepted in requests.
const DateLayout = "2006-01-02"

var fundCodePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,16}$`)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ValidateUUIDs validates a slice of UUIDs
func ValidateUUIDs(ids []string) error {
	if len(ids) == 0 {
		return ErrEmptySlice
	}
	for _, id := range ids {
		if err := ValidateUUID(id); err != nil {
			return err
		}
	}
	return nil
}

// ValidFundCode reports whether code looks like a fund code: 1 to 16 letters,
// digits, dots, dashes or underscores.
func ValidFundCode(code string) bool {
	return fundCodePattern.MatchString(code)
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
// Note: mirrors repository.ParseTime; both are kept local to avoid cross-layer imports.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(DateLayout, str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// ParseDateRange parses optional start and end query values.
// Empty values yield nil. Returns ErrInvalidDateRange when start is after end.
func ParseDateRange(startStr, endStr string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if startStr != "" {
		t, err := time.Parse(DateLayout, startStr)
		if err != nil {
			return nil, nil, &Error{Fields: map[string]string{"start": "start must be YYYY-MM-DD"}}
		}
		start = &t
	}
	if endStr != "" {
		t, err := time.Parse(DateLayout, endStr)
		if err != nil {
			return nil, nil, &Error{Fields: map[string]string{"end": "end must be YYYY-MM-DD"}}
		}
		end = &t
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidDateRange, startStr, endStr)
	}
	return start, end, nil
}
