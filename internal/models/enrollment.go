package models

import (
	"fmt"
	"time"
)

// EnrollmentStatus is the ledger lifecycle state of one enrollment row.
type EnrollmentStatus string

// Rows are never deleted: enroll appends an ENROLLED row, drop flips it to
// WITHDRAWN, the registrar flips it to COMPLETED after grading. COMPLETED
// rows feed graduation credit accounting.
const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "ENROLLED"
	EnrollmentStatusWithdrawn EnrollmentStatus = "WITHDRAWN"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
)

// Enrollment is one ledger row binding a student to a course, optionally
// scoped to an elective batch. At most one ENROLLED row may exist per
// (student, course, batch).
type Enrollment struct {
	ID         string           `db:"id" json:"id"`
	StudentID  int64            `db:"student_id" json:"student_id"`
	CourseID   int64            `db:"course_id" json:"course_id"`
	BatchID    *int64           `db:"batch_id" json:"batch_id,omitempty"`
	Status     EnrollmentStatus `db:"status" json:"status"`
	EnrolledAt time.Time        `db:"enrolled_at" json:"enrolled_at"`
	FinalGrade *float64         `db:"final_grade" json:"final_grade,omitempty"`
}

// EnrollmentResult is the structured outcome returned to callers. Warning is
// informational only and never implies failure.
type EnrollmentResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Warning      string `json:"warning,omitempty"`
	EnrollmentID string `json:"enrollment_id,omitempty"`
}

// CourseFullError carries the occupancy numbers behind a hard-policy denial.
type CourseFullError struct {
	CourseID int64 `json:"course_id"`
	Current  int   `json:"current"`
	Capacity int   `json:"capacity"`
}

// Error implements the error interface.
func (e *CourseFullError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("course %d is full (%d/%d)", e.CourseID, e.Current, e.Capacity)
}
