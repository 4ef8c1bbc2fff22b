package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusflow/course-select-api/internal/models"
)

// EnrollmentRepository is the append-only enrollment ledger. Rows are never
// deleted; drops flip ENROLLED rows to WITHDRAWN so the academic history
// stays queryable.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindActiveTx returns the ENROLLED row for (student, course, batch) inside
// tx, or sql.ErrNoRows. A nil batch matches rows without a batch scope.
func (r *EnrollmentRepository) FindActiveTx(ctx context.Context, tx *sqlx.Tx, studentID, courseID int64, batchID *int64) (*models.Enrollment, error) {
	query := `SELECT id, student_id, course_id, batch_id, status, enrolled_at, final_grade
        FROM enrollments WHERE student_id = $1 AND course_id = $2 AND status = $3`
	args := []interface{}{studentID, courseID, models.EnrollmentStatusEnrolled}
	if batchID != nil {
		query += fmt.Sprintf(" AND batch_id = $%d", len(args)+1)
		args = append(args, *batchID)
	} else {
		query += " AND batch_id IS NULL"
	}
	query += " LIMIT 1"
	var enrollment models.Enrollment
	if err := tx.GetContext(ctx, &enrollment, query, args...); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListActiveByStudent returns every ENROLLED row for a student.
func (r *EnrollmentRepository) ListActiveByStudent(ctx context.Context, studentID int64) ([]models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, batch_id, status, enrolled_at, final_grade
        FROM enrollments WHERE student_id = $1 AND status = $2`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID, models.EnrollmentStatusEnrolled); err != nil {
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}
	return enrollments, nil
}

// ListActiveByStudentTx is ListActiveByStudent under the caller's transaction.
func (r *EnrollmentRepository) ListActiveByStudentTx(ctx context.Context, tx *sqlx.Tx, studentID int64) ([]models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, batch_id, status, enrolled_at, final_grade
        FROM enrollments WHERE student_id = $1 AND status = $2`
	var enrollments []models.Enrollment
	if err := tx.SelectContext(ctx, &enrollments, query, studentID, models.EnrollmentStatusEnrolled); err != nil {
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}
	return enrollments, nil
}

// CreateTx inserts a new ENROLLED row inside tx. The partial unique index on
// (student_id, course_id, batch_id) WHERE status = 'ENROLLED' backstops the
// duplicate check performed by the orchestrator.
func (r *EnrollmentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusEnrolled
	}
	const query = `INSERT INTO enrollments (id, student_id, course_id, batch_id, status, enrolled_at, final_grade)
        VALUES (:id, :student_id, :course_id, :batch_id, :status, :enrolled_at, :final_grade)`
	if _, err := tx.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// WithdrawAllTx flips every ENROLLED row for (student, course) to WITHDRAWN
// inside tx and returns the affected row ids. A course with multiple sessions
// may carry several active rows; all of them are withdrawn together.
func (r *EnrollmentRepository) WithdrawAllTx(ctx context.Context, tx *sqlx.Tx, studentID, courseID int64) ([]string, error) {
	const query = `UPDATE enrollments SET status = $3
        WHERE student_id = $1 AND course_id = $2 AND status = $4
        RETURNING id`
	var ids []string
	if err := tx.SelectContext(ctx, &ids, query, studentID, courseID,
		models.EnrollmentStatusWithdrawn, models.EnrollmentStatusEnrolled); err != nil {
		return nil, fmt.Errorf("withdraw enrollments: %w", err)
	}
	return ids, nil
}

// ListByStudentAndStatuses returns a student's rows in any of the given
// states. Graduation accounting reads COMPLETED; recommendations exclude
// ENROLLED and COMPLETED.
func (r *EnrollmentRepository) ListByStudentAndStatuses(ctx context.Context, studentID int64, statuses ...models.EnrollmentStatus) ([]models.Enrollment, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(statuses))
	args := make([]interface{}, 0, len(statuses)+1)
	args = append(args, studentID)
	for i, st := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
		args = append(args, st)
	}
	query := fmt.Sprintf(`SELECT id, student_id, course_id, batch_id, status, enrolled_at, final_grade
        FROM enrollments WHERE student_id = $1 AND status IN (%s)`, strings.Join(placeholders, ","))
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments by status: %w", err)
	}
	return enrollments, nil
}
