package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestBarSetValidateOK(t *testing.T) {
	s := NewBarSet("600519", []Bar{
		{Time: day(0), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1000},
		{Time: day(1), Open: 10.5, High: 12, Low: 10, Close: 11, Volume: 900},
	})
	assert.NoError(t, s.Validate())
}

func TestBarSetValidateUnsorted(t *testing.T) {
	s := NewBarSet("600519", []Bar{
		{Time: day(1), Close: 10},
		{Time: day(0), Close: 11},
	})
	err := s.Validate()
	assert.ErrorIs(t, err, ErrUnsortedInput)
	assert.Contains(t, err.Error(), "bar 1")
}

func TestBarSetValidateDuplicateTimestamp(t *testing.T) {
	s := NewBarSet("600519", []Bar{
		{Time: day(0), Close: 10},
		{Time: day(0), Close: 11},
	})
	assert.ErrorIs(t, s.Validate(), ErrUnsortedInput)
}

func TestBarSetValidateInvalidBar(t *testing.T) {
	s := NewBarSet("600519", []Bar{
		{Time: day(0), Close: -1},
	})
	assert.ErrorIs(t, s.Validate(), ErrInvalidBar)

	s = NewBarSet("600519", []Bar{{Close: 10}})
	assert.ErrorIs(t, s.Validate(), ErrInvalidBar)
}

func TestBarUsable(t *testing.T) {
	assert.True(t, Bar{Close: 10}.Usable())
	// Suspended-session rows come through with a zero close.
	assert.False(t, Bar{Close: 0}.Usable())
}

func TestBarSetWindow(t *testing.T) {
	bars := []Bar{
		{Time: day(0), Close: 1},
		{Time: day(1), Close: 2},
		{Time: day(2), Close: 3},
		{Time: day(3), Close: 4},
	}
	s := NewBarSet("600519", bars)

	w := s.Window(day(1), day(3))
	assert.Len(t, w, 2)
	assert.Equal(t, 2.0, w[0].Close)
	assert.Equal(t, 3.0, w[1].Close)

	assert.Len(t, s.Window(time.Time{}, time.Time{}), 4)
}
