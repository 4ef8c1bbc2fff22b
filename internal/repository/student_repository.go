package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusflow/course-select-api/internal/models"
)

// StudentRepository handles student account persistence.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns a student by numeric id.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	const query = `SELECT student_id, student_name, college, birth_date, password_hash
        FROM students WHERE student_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByName returns a student by exact name. Login accepts either the
// student id or the name as username.
func (r *StudentRepository) FindByName(ctx context.Context, name string) (*models.Student, error) {
	const query = `SELECT student_id, student_name, college, birth_date, password_hash
        FROM students WHERE student_name = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, name); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student account.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (student_id, student_name, college, birth_date, password_hash)
        VALUES (:student_id, :student_name, :college, :birth_date, :password_hash)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
