package export

import "fmt"

// Entry is one timetable line: a course session with its course details.
type Entry struct {
	CourseID   int64
	CourseName string
	Instructor string
	Weekday    string
	Periods    string
	Weeks      string
	Classroom  string
	Credits    int
}

// Timetable is an export-ready view of a student's enrolled sessions.
type Timetable struct {
	Title   string
	Entries []Entry
}

var timetableHeaders = []string{"Course No.", "Course", "Instructor", "Weekday", "Periods", "Weeks", "Classroom", "Credits"}

func (e Entry) record() []string {
	return []string{
		fmt.Sprintf("%08d", e.CourseID),
		e.CourseName,
		e.Instructor,
		e.Weekday,
		e.Periods,
		e.Weeks,
		e.Classroom,
		fmt.Sprintf("%d", e.Credits),
	}
}
