package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LocalTime is a validated "HH:MM" 24-hour wall-clock string. The zero value
// is not a valid LocalTime; every instance in the system was produced by a
// factory function and is safe to use without re-validating.
type LocalTime struct {
	value string
}

var localTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// InvalidLocalTimeError reports a value a LocalTime factory could not parse
// or normalize.
type InvalidLocalTimeError struct {
	Input string
}

func (e *InvalidLocalTimeError) Error() string {
	return fmt.Sprintf("invalid local time %q", e.Input)
}

// NewLocalTime validates an already-canonical "HH:MM" string.
func NewLocalTime(s string) (LocalTime, error) {
	if !localTimePattern.MatchString(s) {
		return LocalTime{}, &InvalidLocalTimeError{Input: s}
	}
	return LocalTime{value: s}, nil
}

// MustLocalTime panics on an invalid input; reserved for literals in tests
// and fixtures where the value is known to be valid.
func MustLocalTime(s string) LocalTime {
	t, err := NewLocalTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseLocalTime accepts the variant forms callers write times in: canonical
// "HH:MM", single-digit hour "H:MM", an ISO datetime's time-of-day prefix
// ("2025-01-10T09:00:00..."), and 12-hour "h:MM AM/PM".
func ParseLocalTime(s string) (LocalTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LocalTime{}, &InvalidLocalTimeError{Input: s}
	}

	if localTimePattern.MatchString(s) {
		return LocalTime{value: s}, nil
	}

	if idx := strings.IndexByte(s, 'T'); idx >= 0 {
		rest := s[idx+1:]
		if len(rest) >= 5 {
			return ParseLocalTime(rest[:5])
		}
	}

	if up := strings.ToUpper(s); strings.HasSuffix(up, "AM") || strings.HasSuffix(up, "PM") {
		return parseTwelveHour(s)
	}

	parts := strings.Split(s, ":")
	if len(parts) == 2 {
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil && h >= 0 && h <= 23 && m >= 0 && m <= 59 {
			return LocalTime{value: fmt.Sprintf("%02d:%02d", h, m)}, nil
		}
	}

	return LocalTime{}, &InvalidLocalTimeError{Input: s}
}

func parseTwelveHour(s string) (LocalTime, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	suffix := up[len(up)-2:]
	body := strings.TrimSpace(up[:len(up)-2])
	parts := strings.Split(body, ":")
	if len(parts) != 2 {
		return LocalTime{}, &InvalidLocalTimeError{Input: s}
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 1 || h > 12 || m < 0 || m > 59 {
		return LocalTime{}, &InvalidLocalTimeError{Input: s}
	}
	switch {
	case suffix == "AM" && h == 12:
		h = 0
	case suffix == "PM" && h != 12:
		h += 12
	}
	return LocalTime{value: fmt.Sprintf("%02d:%02d", h, m)}, nil
}

// LocalTimeFromInstant derives the wall-clock time of an instant in the
// given location (the process locale when loc is nil).
func LocalTimeFromInstant(t time.Time, loc *time.Location) LocalTime {
	if loc != nil {
		t = t.In(loc)
	}
	return LocalTime{value: fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())}
}

// String returns the canonical "HH:MM" representation. This is the only
// sanctioned way to obtain the raw string back out of a LocalTime.
func (t LocalTime) String() string { return t.value }

// IsZero reports whether t was never assigned by a factory.
func (t LocalTime) IsZero() bool { return t.value == "" }

// ToMinutes returns minutes since local midnight, 0..1439.
func (t LocalTime) ToMinutes() int {
	h, _ := strconv.Atoi(t.value[0:2])
	m, _ := strconv.Atoi(t.value[3:5])
	return h*60 + m
}

// LocalTimeFromMinutes builds a LocalTime from minutes since midnight.
// Panics if m is outside [0, 1440) — callers are expected to normalize
// with a mod-1440 helper (AddMinutes) before calling this directly.
func LocalTimeFromMinutes(m int) LocalTime {
	if m < 0 || m >= 1440 {
		panic(fmt.Sprintf("minutes out of range: %d", m))
	}
	return LocalTime{value: fmt.Sprintf("%02d:%02d", m/60, m%60)}
}

// CompareLocalTime returns -1, 0, or 1 as a is before, equal to, or after b.
func CompareLocalTime(a, b LocalTime) int {
	switch {
	case a.value < b.value:
		return -1
	case a.value > b.value:
		return 1
	default:
		return 0
	}
}

// AddMinutes returns t shifted by n minutes (may be negative), wrapping
// modulo one day. The wrap never errors: 23:50 + 20 == 00:10.
func AddMinutes(t LocalTime, n int) LocalTime {
	total := ((t.ToMinutes()+n)%1440 + 1440) % 1440
	return LocalTimeFromMinutes(total)
}

// MinutesBetween returns b - a in minutes, same-day only (not overnight
// aware — a caller crossing midnight must account for that separately).
func MinutesBetween(a, b LocalTime) int {
	return b.ToMinutes() - a.ToMinutes()
}

// IsBetween reports whether t falls in [start, end). When start > end the
// range is treated as crossing midnight: membership is t >= start || t <
// end.
func IsBetween(t, start, end LocalTime) bool {
	if CompareLocalTime(start, end) <= 0 {
		return CompareLocalTime(t, start) >= 0 && CompareLocalTime(t, end) < 0
	}
	return CompareLocalTime(t, start) >= 0 || CompareLocalTime(t, end) < 0
}
