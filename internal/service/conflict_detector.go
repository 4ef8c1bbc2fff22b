package service

import (
	"fmt"
	"strings"

	"github.com/campusflow/course-select-api/internal/models"
)

// ConflictDetector finds schedule collisions between a student's enrolled
// sessions and a candidate course. Conflicts never block an enrollment; they
// only produce a warning on the success response.
type ConflictDetector struct {
	// RespectWeekParity makes odd-week and even-week sessions coexist on the
	// same weekday. Off by default: overlapping periods on a shared weekday
	// are flagged regardless of parity.
	RespectWeekParity bool
}

// FindConflicts returns one descriptor per (enrolled, candidate) session pair
// that overlaps. An empty result means no warning.
func (d ConflictDetector) FindConflicts(enrolled []models.SessionWithCourse, candidate []models.CourseSession) []models.SessionConflict {
	var conflicts []models.SessionConflict
	for _, cand := range candidate {
		for _, existing := range enrolled {
			if !cand.Overlaps(existing.CourseSession, d.RespectWeekParity) {
				continue
			}
			conflicts = append(conflicts, models.SessionConflict{
				CourseID:    existing.CourseID,
				CourseName:  existing.CourseName,
				Weekday:     existing.Weekday,
				StartPeriod: existing.StartPeriod,
				EndPeriod:   existing.EndPeriod,
			})
		}
	}
	return conflicts
}

// Warning renders conflicts into the human-readable message attached to the
// enrollment response. Course numbers are zero-padded to eight digits as on
// printed timetables.
func (d ConflictDetector) Warning(candidateName string, candidateID int64, conflicts []models.SessionConflict) string {
	if len(conflicts) == 0 {
		return ""
	}
	if candidateName == "" {
		candidateName = "unknown course"
	}
	parts := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		name := c.CourseName
		if name == "" {
			name = "unknown course"
		}
		parts = append(parts, fmt.Sprintf(
			"schedule conflict: new course %q (no. %08d) clashes with enrolled course %q (no. %08d) on %s periods %d-%d",
			candidateName, candidateID, name, c.CourseID, c.Weekday, c.StartPeriod, c.EndPeriod))
	}
	return strings.Join(parts, "; ")
}
