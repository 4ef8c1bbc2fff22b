package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campusflow/course-select-api/internal/models"
)

const courseColumns = `course_id, course_name, credits, course_type, description, college,
        instructor_name, campus, classroom, start_week, end_week, capacity, enrolled_count`

// CourseRepository handles course persistence, including the enrolled_count
// denormalization. The counter mutators only exist in transaction-scoped
// variants so no code path can adjust it outside an enrollment transaction.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE course_id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDForUpdateTx loads a course inside tx with a row lock, serializing
// concurrent enrollments against the same course.
func (r *CourseRepository) FindByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE course_id = $1 FOR UPDATE", courseColumns)
	var course models.Course
	if err := tx.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// IncrementEnrolledTx bumps the enrolled counter by one inside tx.
func (r *CourseRepository) IncrementEnrolledTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	const query = `UPDATE courses SET enrolled_count = enrolled_count + 1 WHERE course_id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment enrolled count: %w", err)
	}
	return nil
}

// DecrementEnrolledTx lowers the enrolled counter by the given amount inside
// tx, clamped so it never goes below zero even if by exceeds the current
// count.
func (r *CourseRepository) DecrementEnrolledTx(ctx context.Context, tx *sqlx.Tx, id int64, by int) error {
	if by <= 0 {
		return nil
	}
	const query = `UPDATE courses SET enrolled_count = GREATEST(enrolled_count - $2, 0) WHERE course_id = $1`
	if _, err := tx.ExecContext(ctx, query, id, by); err != nil {
		return fmt.Errorf("decrement enrolled count: %w", err)
	}
	return nil
}

// List returns courses matching the optional field conditions and, when a
// session window is given, owning at least one session on one of the
// requested weekdays whose period range covers the window.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter, window models.SessionWindowFilter) ([]models.Course, error) {
	var conditions []string
	var args []interface{}

	add := func(clause string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(clause, len(args)+1))
		args = append(args, value)
	}

	if filter.ID != nil {
		add("c.course_id = $%d", *filter.ID)
	}
	if filter.Name != "" {
		add("c.course_name ILIKE $%d", "%"+filter.Name+"%")
	}
	if filter.Credits != nil {
		add("c.credits = $%d", *filter.Credits)
	}
	if filter.Type != "" {
		add("c.course_type = $%d", filter.Type)
	}
	if filter.Description != "" {
		add("c.description ILIKE $%d", "%"+filter.Description+"%")
	}
	if filter.College != "" {
		add("c.college = $%d", filter.College)
	}
	if filter.InstructorName != "" {
		add("c.instructor_name ILIKE $%d", "%"+filter.InstructorName+"%")
	}
	if filter.Campus != "" {
		add("c.campus = $%d", filter.Campus)
	}
	if filter.Classroom != "" {
		add("c.classroom = $%d", filter.Classroom)
	}
	if filter.StartWeek != nil {
		add("c.start_week >= $%d", *filter.StartWeek)
	}
	if filter.EndWeek != nil {
		add("c.end_week <= $%d", *filter.EndWeek)
	}
	if filter.Capacity != nil {
		add("c.capacity = $%d", *filter.Capacity)
	}

	if !window.Empty() {
		var sessionConds []string
		if len(window.Weekdays) > 0 {
			placeholders := make([]string, len(window.Weekdays))
			for i, day := range window.Weekdays {
				placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
				args = append(args, day)
			}
			sessionConds = append(sessionConds, fmt.Sprintf("s.weekday IN (%s)", strings.Join(placeholders, ",")))
		}
		if window.StartPeriod != nil {
			sessionConds = append(sessionConds, fmt.Sprintf("s.start_period <= $%d", len(args)+1))
			args = append(args, *window.StartPeriod)
		}
		if window.EndPeriod != nil {
			sessionConds = append(sessionConds, fmt.Sprintf("s.end_period >= $%d", len(args)+1))
			args = append(args, *window.EndPeriod)
		}
		sub := fmt.Sprintf("EXISTS (SELECT 1 FROM course_sessions s WHERE s.course_id = c.course_id AND %s)",
			strings.Join(sessionConds, " AND "))
		conditions = append(conditions, sub)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT c.course_id, c.course_name, c.credits, c.course_type, c.description,
        c.college, c.instructor_name, c.campus, c.classroom, c.start_week, c.end_week, c.capacity, c.enrolled_count
        FROM courses c%s ORDER BY c.course_id`, clause)

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListByIDs returns courses for the given ids, preserving no particular order.
func (r *CourseRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf("SELECT %s FROM courses WHERE course_id IN (%s)", courseColumns, strings.Join(placeholders, ","))
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses by ids: %w", err)
	}
	return courses, nil
}

// ListByType returns all courses of one credit category.
func (r *CourseRepository) ListByType(ctx context.Context, courseType string) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE course_type = $1", courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, courseType); err != nil {
		return nil, fmt.Errorf("list courses by type: %w", err)
	}
	return courses, nil
}
