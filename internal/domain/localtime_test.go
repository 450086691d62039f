package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalTime_Valid(t *testing.T) {
	lt, err := NewLocalTime("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", lt.String())
}

func TestNewLocalTime_Invalid(t *testing.T) {
	_, err := NewLocalTime("9:30")
	assert.Error(t, err)
	_, err = NewLocalTime("24:00")
	assert.Error(t, err)
}

func TestParseLocalTime_Variants(t *testing.T) {
	cases := map[string]string{
		"9:30":                  "09:30",
		"09:30":                 "09:30",
		"2025-01-10T09:30:00Z":  "09:30",
		"2:15 PM":               "14:15",
		"12:00 AM":              "00:00",
		"12:00 PM":              "12:00",
	}
	for input, want := range cases {
		got, err := ParseLocalTime(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got.String(), input)
	}
}

func TestAddMinutes_WrapsMidnight(t *testing.T) {
	t1 := MustLocalTime("23:50")
	assert.Equal(t, "00:10", AddMinutes(t1, 20).String())
}

func TestIsBetween_OvernightRange(t *testing.T) {
	start := MustLocalTime("22:00")
	end := MustLocalTime("06:00")
	assert.True(t, IsBetween(MustLocalTime("23:00"), start, end))
	assert.True(t, IsBetween(MustLocalTime("02:00"), start, end))
	assert.False(t, IsBetween(MustLocalTime("12:00"), start, end))
}

func TestMinutesBetween(t *testing.T) {
	assert.Equal(t, 90, MinutesBetween(MustLocalTime("09:00"), MustLocalTime("10:30")))
}

func TestCompareLocalTime(t *testing.T) {
	assert.Equal(t, -1, CompareLocalTime(MustLocalTime("09:00"), MustLocalTime("10:00")))
	assert.Equal(t, 0, CompareLocalTime(MustLocalTime("09:00"), MustLocalTime("09:00")))
	assert.Equal(t, 1, CompareLocalTime(MustLocalTime("10:00"), MustLocalTime("09:00")))
}
