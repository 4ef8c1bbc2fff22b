package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campusflow/course-select-api/internal/models"
)

// SessionRepository reads course session (weekly slot) records.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// ListByCourse returns all sessions owned by one course.
func (r *SessionRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.CourseSession, error) {
	const query = `SELECT session_id, course_id, weekday, start_period, end_period, week_parity
        FROM course_sessions WHERE course_id = $1 ORDER BY session_id`
	var sessions []models.CourseSession
	if err := r.db.SelectContext(ctx, &sessions, query, courseID); err != nil {
		return nil, fmt.Errorf("list sessions for course: %w", err)
	}
	return sessions, nil
}

// ListByCourses batch-loads sessions for many courses in one query, avoiding
// N+1 lookups when assembling catalog responses.
func (r *SessionRepository) ListByCourses(ctx context.Context, courseIDs []int64) (map[int64][]models.CourseSession, error) {
	grouped := make(map[int64][]models.CourseSession, len(courseIDs))
	if len(courseIDs) == 0 {
		return grouped, nil
	}
	placeholders := make([]string, len(courseIDs))
	args := make([]interface{}, len(courseIDs))
	for i, id := range courseIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT session_id, course_id, weekday, start_period, end_period, week_parity
        FROM course_sessions WHERE course_id IN (%s) ORDER BY session_id`, strings.Join(placeholders, ","))
	var sessions []models.CourseSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions for courses: %w", err)
	}
	for _, s := range sessions {
		grouped[s.CourseID] = append(grouped[s.CourseID], s)
	}
	return grouped, nil
}

// ListWithCourseNames returns sessions for the given courses joined with the
// owning course's name, as needed for conflict reporting.
func (r *SessionRepository) ListWithCourseNames(ctx context.Context, courseIDs []int64) ([]models.SessionWithCourse, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(courseIDs))
	args := make([]interface{}, len(courseIDs))
	for i, id := range courseIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT s.session_id, s.course_id, s.weekday, s.start_period, s.end_period, s.week_parity,
        c.course_name
        FROM course_sessions s
        JOIN courses c ON c.course_id = s.course_id
        WHERE s.course_id IN (%s)`, strings.Join(placeholders, ","))
	var sessions []models.SessionWithCourse
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions with course names: %w", err)
	}
	return sessions, nil
}
