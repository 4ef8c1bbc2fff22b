package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func session(weekday string, start, end int, parity WeekParity) CourseSession {
	return CourseSession{Weekday: weekday, StartPeriod: start, EndPeriod: end, WeekParity: parity}
}

func TestSessionOverlaps(t *testing.T) {
	cases := []struct {
		name          string
		a, b          CourseSession
		respectParity bool
		want          bool
	}{
		{"different weekdays", session("Mon", 1, 2, WeekParityAll), session("Tue", 1, 2, WeekParityAll), false, false},
		{"disjoint periods", session("Mon", 1, 2, WeekParityAll), session("Mon", 3, 4, WeekParityAll), false, false},
		{"touching boundaries collide", session("Mon", 1, 2, WeekParityAll), session("Mon", 2, 3, WeekParityAll), false, true},
		{"containment", session("Mon", 1, 6, WeekParityAll), session("Mon", 3, 4, WeekParityAll), false, true},
		{"identical", session("Wed", 5, 6, WeekParityAll), session("Wed", 5, 6, WeekParityAll), false, true},
		{"odd vs even, parity ignored", session("Mon", 1, 2, WeekParityOdd), session("Mon", 1, 2, WeekParityEven), false, true},
		{"odd vs even, parity respected", session("Mon", 1, 2, WeekParityOdd), session("Mon", 1, 2, WeekParityEven), true, false},
		{"odd vs all, parity respected", session("Mon", 1, 2, WeekParityOdd), session("Mon", 1, 2, WeekParityAll), true, true},
		{"odd vs odd, parity respected", session("Mon", 1, 2, WeekParityOdd), session("Mon", 1, 2, WeekParityOdd), true, true},
		{"empty parity treated as all", session("Mon", 1, 2, ""), session("Mon", 1, 2, WeekParityEven), true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b, tc.respectParity))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a, tc.respectParity))
		})
	}
}

func TestCourseCapacityHelpers(t *testing.T) {
	limit := 30
	limited := Course{Capacity: &limit, EnrolledCount: 30}
	assert.True(t, limited.Limited())
	assert.True(t, limited.AtOrOverCapacity())

	limited.EnrolledCount = 29
	assert.False(t, limited.AtOrOverCapacity())

	unlimited := Course{EnrolledCount: 500}
	assert.False(t, unlimited.Limited())
	assert.False(t, unlimited.AtOrOverCapacity())

	zero := 0
	zeroCapacity := Course{Capacity: &zero, EnrolledCount: 1}
	assert.False(t, zeroCapacity.Limited())
}

func TestBatchStatusAt(t *testing.T) {
	batch := ElectiveBatch{
		StartTime: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, BatchStatusUpcoming, batch.StatusAt(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, BatchStatusActive, batch.StatusAt(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, BatchStatusClosed, batch.StatusAt(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)))
}
