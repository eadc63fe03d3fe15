package terms

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetDays(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"Net 1", 1},
		{"Net 7", 7},
		{"Net 14", 14},
		{"Net 30", 30},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := OffsetDays(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsUnknownCodes(t *testing.T) {
	for _, code := range []string{"", "Net 15", "net 14", "Net14", " Net 14", "Net 14 ", "14"} {
		t.Run(code, func(t *testing.T) {
			_, err := Parse(code)
			require.ErrorIs(t, err, ErrInvalidTerm)

			var termErr *InvalidTermError
			require.True(t, errors.As(err, &termErr))
			assert.Equal(t, code, termErr.Code)
		})
	}
}

func TestDueDateKeepsTimeOfDay(t *testing.T) {
	issue := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	due, err := DueDate(issue, "Net 14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), due)
}

func TestDueDateCrossesMonthAndLeapDay(t *testing.T) {
	due, err := DueDate(time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), "Net 30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC), due)

	due, err = DueDate(time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC), "Net 1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), due)
}

func TestDueDateInvalidTerm(t *testing.T) {
	_, err := DueDate(time.Now(), "Net 60")
	require.ErrorIs(t, err, ErrInvalidTerm)
}

func TestAllIsSorted(t *testing.T) {
	prev := 0
	for _, term := range All() {
		assert.Greater(t, term.Days(), prev)
		prev = term.Days()
	}
}
