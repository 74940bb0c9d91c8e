package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "00:00", FormatMillis(0))
	assert.Equal(t, "00:00", FormatMillis(-500))
	assert.Equal(t, "00:05", FormatMillis(5999))
	assert.Equal(t, "01:30", FormatMillis(90000))
	assert.Equal(t, "1:00:01", FormatMillis(3601000))
}

func TestFormatSelection(t *testing.T) {
	assert.Equal(t, "00:05 sec - 00:15 sec", FormatSelection(5000, 15000))
}

func TestParseMillis(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"00:05", 5000},
		{"1:30", 90000},
		{"1:00:01", 3601000},
		{"12.5", 12500},
		{" 7 ", 7000},
	}
	for _, tt := range tests {
		got, err := ParseMillis(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "abc", "1:60", "1:5", "-3", "1:2:3:4", "a:00"} {
		_, err := ParseMillis(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, bad)
	}
}

func TestParseSelection(t *testing.T) {
	start, end, err := ParseSelection(FormatSelection(5000, 15000))
	require.NoError(t, err)
	assert.Equal(t, int64(5000), start)
	assert.Equal(t, int64(15000), end)

	start, end, err = ParseSelection("0:59 sec - 1:00:00 sec")
	require.NoError(t, err)
	assert.Equal(t, int64(59000), start)
	assert.Equal(t, int64(3600000), end)
}

func TestParseSelection_FailsFast(t *testing.T) {
	for _, bad := range []string{"", "00:05 sec", "00:05 - 00:10 - 00:15", "five to ten"} {
		_, _, err := ParseSelection(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, bad)
	}
}
