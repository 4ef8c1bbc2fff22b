package models

// WeekParity narrows a session to all weeks, odd weeks or even weeks.
type WeekParity string

const (
	WeekParityAll  WeekParity = "all"
	WeekParityOdd  WeekParity = "odd"
	WeekParityEven WeekParity = "even"
)

// Weekday names accepted by session records.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Periods are bounded to [1,12] per the timetable grid.
const (
	MinPeriod = 1
	MaxPeriod = 12
)

// CourseSession is one recurring weekly time block owned by a course.
type CourseSession struct {
	ID          int64      `db:"session_id" json:"session_id"`
	CourseID    int64      `db:"course_id" json:"course_id"`
	Weekday     string     `db:"weekday" json:"weekday"`
	StartPeriod int        `db:"start_period" json:"start_period"`
	EndPeriod   int        `db:"end_period" json:"end_period"`
	WeekParity  WeekParity `db:"week_parity" json:"week_parity"`
}

// Overlaps reports whether two sessions collide. Same weekday and any period
// intersection collide; touching boundaries count as overlap. Week parity is
// ignored unless respectParity is set, in which case odd and even weeks on
// the same weekday coexist.
func (s CourseSession) Overlaps(other CourseSession, respectParity bool) bool {
	if s.Weekday != other.Weekday {
		return false
	}
	if s.StartPeriod > other.EndPeriod || s.EndPeriod < other.StartPeriod {
		return false
	}
	if respectParity && !parityCompatible(s.WeekParity, other.WeekParity) {
		return false
	}
	return true
}

// parityCompatible reports whether two sessions can fall in the same week.
// "all" meets everything; odd meets odd, even meets even.
func parityCompatible(a, b WeekParity) bool {
	if a == WeekParityAll || a == "" || b == WeekParityAll || b == "" {
		return true
	}
	return a == b
}

// SessionWithCourse joins a session with its owning course's name, used when
// reporting conflicts.
type SessionWithCourse struct {
	CourseSession
	CourseName string `db:"course_name" json:"course_name"`
}

// SessionConflict describes one collision between a candidate course and an
// already-enrolled course's session.
type SessionConflict struct {
	CourseID    int64  `json:"course_id"`
	CourseName  string `json:"course_name"`
	Weekday     string `json:"weekday"`
	StartPeriod int    `json:"start_period"`
	EndPeriod   int    `json:"end_period"`
}
