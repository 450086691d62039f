package domain

import (
	"fmt"
	"regexp"
	"time"
)

// LocalDate is a validated "YYYY-MM-DD" local calendar date. Like LocalTime,
// the zero value is invalid; every instance came from a factory.
type LocalDate struct {
	value string
}

var localDatePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

// InvalidLocalDateError reports a value a LocalDate factory could not parse.
type InvalidLocalDateError struct {
	Input string
}

func (e *InvalidLocalDateError) Error() string {
	return fmt.Sprintf("invalid local date %q", e.Input)
}

// NewLocalDate validates a canonical "YYYY-MM-DD" string, including that the
// day is valid for its month (no 2025-02-30).
func NewLocalDate(s string) (LocalDate, error) {
	if !localDatePattern.MatchString(s) {
		return LocalDate{}, &InvalidLocalDateError{Input: s}
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return LocalDate{}, &InvalidLocalDateError{Input: s}
	}
	return LocalDate{value: s}, nil
}

// MustLocalDate panics on an invalid input; reserved for literals.
func MustLocalDate(s string) LocalDate {
	d, err := NewLocalDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// LocalDateFromInstant derives the calendar date of an instant in the given
// location (process locale when loc is nil).
func LocalDateFromInstant(t time.Time, loc *time.Location) LocalDate {
	if loc != nil {
		t = t.In(loc)
	}
	return LocalDate{value: t.Format("2006-01-02")}
}

func (d LocalDate) String() string { return d.value }

func (d LocalDate) IsZero() bool { return d.value == "" }

// ToTime parses d as midnight in the given location (time.Local when loc is
// nil), for arithmetic that needs the standard library's calendar math.
func (d LocalDate) ToTime(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t, _ := time.ParseInLocation("2006-01-02", d.value, loc)
	return t
}

// AddDays returns d shifted by n calendar days, correctly crossing month and
// year boundaries (delegates to time.Time arithmetic, never string math).
func AddDays(d LocalDate, n int) LocalDate {
	t := d.ToTime(time.UTC).AddDate(0, 0, n)
	return LocalDate{value: t.Format("2006-01-02")}
}

// CompareLocalDate returns -1, 0, or 1 as a is before, equal to, or after b.
func CompareLocalDate(a, b LocalDate) int {
	switch {
	case a.value < b.value:
		return -1
	case a.value > b.value:
		return 1
	default:
		return 0
	}
}
