package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusflow/course-select-api/internal/models"
)

func enrolledSession(courseID int64, name, weekday string, start, end int) models.SessionWithCourse {
	return models.SessionWithCourse{
		CourseSession: models.CourseSession{CourseID: courseID, Weekday: weekday, StartPeriod: start, EndPeriod: end},
		CourseName:    name,
	}
}

func TestFindConflictsReportsEachPair(t *testing.T) {
	detector := ConflictDetector{}
	enrolled := []models.SessionWithCourse{
		enrolledSession(10, "Physics", "Mon", 1, 2),
		enrolledSession(11, "Chemistry", "Mon", 3, 4),
		enrolledSession(12, "History", "Fri", 1, 2),
	}
	candidate := []models.CourseSession{
		{CourseID: 20, Weekday: "Mon", StartPeriod: 2, EndPeriod: 3},
	}

	conflicts := detector.FindConflicts(enrolled, candidate)
	require.Len(t, conflicts, 2)
	assert.Equal(t, int64(10), conflicts[0].CourseID)
	assert.Equal(t, int64(11), conflicts[1].CourseID)
}

func TestFindConflictsNone(t *testing.T) {
	detector := ConflictDetector{}
	enrolled := []models.SessionWithCourse{enrolledSession(10, "Physics", "Mon", 1, 2)}
	candidate := []models.CourseSession{{CourseID: 20, Weekday: "Tue", StartPeriod: 1, EndPeriod: 2}}

	assert.Empty(t, detector.FindConflicts(enrolled, candidate))
	assert.Empty(t, detector.Warning("Algebra", 20, nil))
}

func TestFindConflictsRespectsParityWhenEnabled(t *testing.T) {
	enrolled := []models.SessionWithCourse{{
		CourseSession: models.CourseSession{CourseID: 10, Weekday: "Mon", StartPeriod: 1, EndPeriod: 2, WeekParity: models.WeekParityOdd},
		CourseName:    "Physics",
	}}
	candidate := []models.CourseSession{
		{CourseID: 20, Weekday: "Mon", StartPeriod: 1, EndPeriod: 2, WeekParity: models.WeekParityEven},
	}

	assert.Len(t, ConflictDetector{}.FindConflicts(enrolled, candidate), 1)
	assert.Empty(t, ConflictDetector{RespectWeekParity: true}.FindConflicts(enrolled, candidate))
}

func TestConflictWarningFormat(t *testing.T) {
	detector := ConflictDetector{}
	conflicts := []models.SessionConflict{
		{CourseID: 202, CourseName: "Physics", Weekday: "Mon", StartPeriod: 1, EndPeriod: 2},
		{CourseID: 303, CourseName: "Chemistry", Weekday: "Wed", StartPeriod: 5, EndPeriod: 6},
	}

	warning := detector.Warning("Calculus", 101, conflicts)
	assert.Contains(t, warning, `new course "Calculus" (no. 00000101)`)
	assert.Contains(t, warning, `enrolled course "Physics" (no. 00000202) on Mon periods 1-2`)
	assert.Contains(t, warning, `enrolled course "Chemistry" (no. 00000303) on Wed periods 5-6`)
	assert.Equal(t, 2, strings.Count(warning, "schedule conflict:"))
	assert.Contains(t, warning, "; ")
}

func TestConflictWarningUnknownNames(t *testing.T) {
	warning := ConflictDetector{}.Warning("", 1, []models.SessionConflict{{CourseID: 2, Weekday: "Mon", StartPeriod: 1, EndPeriod: 1}})
	assert.Contains(t, warning, `new course "unknown course"`)
	assert.Contains(t, warning, `enrolled course "unknown course"`)
}

func TestCapacityCheckerPolicies(t *testing.T) {
	limit := 3
	full := &models.Course{ID: 7, Capacity: &limit, EnrolledCount: 3}

	hard := CapacityChecker{Policy: "hard"}.Evaluate(full)
	require.NotNil(t, hard.Denial)
	assert.False(t, hard.Allowed)
	assert.Equal(t, 3, hard.Denial.Current)
	assert.Equal(t, 3, hard.Denial.Capacity)

	soft := CapacityChecker{Policy: "soft"}.Evaluate(full)
	assert.True(t, soft.Allowed)
	assert.Nil(t, soft.Denial)
	assert.Contains(t, soft.Warning, "current: 3/3")

	open := &models.Course{ID: 7, Capacity: &limit, EnrolledCount: 2}
	decision := CapacityChecker{Policy: "hard"}.Evaluate(open)
	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.Warning)
}

func TestJoinWarnings(t *testing.T) {
	assert.Equal(t, "", joinWarnings("", ""))
	assert.Equal(t, "a", joinWarnings("a", ""))
	assert.Equal(t, "b", joinWarnings("", "b"))
	assert.Equal(t, "a; b", joinWarnings("a", "b"))
}
