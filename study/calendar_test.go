package study

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func TestBusinessDayCount(t *testing.T) {
	cases := []struct {
		name   string
		event  string
		market string
		want   int
	}{
		{"same day", "2021-10-11", "2021-10-11", 0},
		{"two days after", "2021-10-11", "2021-10-13", 2},
		{"friday before monday", "2021-10-11", "2021-10-08", -1},
		{"two weeks after", "2021-10-11", "2021-10-25", 10},
		{"saturday after", "2021-10-11", "2021-10-16", 5},
		{"sunday before monday", "2021-10-11", "2021-10-10", 0},
		{"whole year", "2021-01-01", "2021-12-31", 260},
		{"whole year backwards", "2021-12-31", "2021-01-01", -260},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, BusinessDayCount(day(c.event), day(c.market)))
		})
	}
}

func TestBusinessDayCountIgnoresHolidays(t *testing.T) {
	// 2021-12-24 / 2021-12-27 are market holidays in many places but still count
	assert.Equal(t, 5, BusinessDayCount(day("2021-12-20"), day("2021-12-27")))
}

func TestWeekdayAtRoundTrip(t *testing.T) {
	for k := -140; k <= 15; k++ {
		assert.Equal(t, k, BusinessDayCount(testEventDate, weekdayAt(testEventDate, k)))
	}
}
