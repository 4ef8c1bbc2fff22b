package models

// Course represents an offered course. EnrolledCount is denormalized and must
// equal the number of ledger rows with status ENROLLED for this course; it is
// only written inside enrollment transactions.
type Course struct {
	ID             int64  `db:"course_id" json:"course_id"`
	Name           string `db:"course_name" json:"course_name"`
	Credits        int    `db:"credits" json:"credits"`
	Type           string `db:"course_type" json:"course_type"`
	Description    string `db:"description" json:"description"`
	College        string `db:"college" json:"college"`
	InstructorName string `db:"instructor_name" json:"instructor_name"`
	Campus         string `db:"campus" json:"campus"`
	Classroom      string `db:"classroom" json:"classroom"`
	StartWeek      int    `db:"start_week" json:"start_week"`
	EndWeek        int    `db:"end_week" json:"end_week"`
	Capacity       *int   `db:"capacity" json:"capacity,omitempty"`
	EnrolledCount  int    `db:"enrolled_count" json:"enrolled_count"`
}

// Limited reports whether the course enforces a seat limit. A nil or
// non-positive capacity means unlimited.
func (c *Course) Limited() bool {
	return c.Capacity != nil && *c.Capacity > 0
}

// AtOrOverCapacity reports whether the enrolled count has reached the seat
// limit. Unlimited courses are never at capacity.
func (c *Course) AtOrOverCapacity() bool {
	return c.Limited() && c.EnrolledCount >= *c.Capacity
}

// CourseFilter holds optional course-field conditions. Each populated field
// contributes one predicate; empty fields contribute nothing (AND-composed).
type CourseFilter struct {
	ID             *int64
	Name           string
	Credits        *int
	Type           string
	Description    string
	College        string
	InstructorName string
	Campus         string
	Classroom      string
	StartWeek      *int
	EndWeek        *int
	Capacity       *int
}

// Empty reports whether no condition is set.
func (f CourseFilter) Empty() bool {
	return f.ID == nil && f.Name == "" && f.Credits == nil && f.Type == "" &&
		f.Description == "" && f.College == "" && f.InstructorName == "" &&
		f.Campus == "" && f.Classroom == "" && f.StartWeek == nil &&
		f.EndWeek == nil && f.Capacity == nil
}

// SessionWindowFilter matches courses whose session interval covers the
// requested window on any of the requested weekdays.
type SessionWindowFilter struct {
	Weekdays    []string
	StartPeriod *int
	EndPeriod   *int
}

// Empty reports whether no session condition is set.
func (f SessionWindowFilter) Empty() bool {
	return len(f.Weekdays) == 0 && f.StartPeriod == nil && f.EndPeriod == nil
}

// CourseWithSessions is the catalog projection returned to clients.
type CourseWithSessions struct {
	Course
	Sessions   []CourseSession `json:"sessions"`
	IsEnrolled *bool           `json:"is_enrolled,omitempty"`
}
