package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campusflow/course-select-api/internal/models"
	appErrors "github.com/campusflow/course-select-api/pkg/errors"
)

type txRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type enrollmentLedger interface {
	FindActiveTx(ctx context.Context, tx *sqlx.Tx, studentID, courseID int64, batchID *int64) (*models.Enrollment, error)
	ListActiveByStudent(ctx context.Context, studentID int64) ([]models.Enrollment, error)
	ListActiveByStudentTx(ctx context.Context, tx *sqlx.Tx, studentID int64) ([]models.Enrollment, error)
	CreateTx(ctx context.Context, tx *sqlx.Tx, enrollment *models.Enrollment) error
	WithdrawAllTx(ctx context.Context, tx *sqlx.Tx, studentID, courseID int64) ([]string, error)
}

type courseStore interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	FindByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Course, error)
	IncrementEnrolledTx(ctx context.Context, tx *sqlx.Tx, id int64) error
	DecrementEnrolledTx(ctx context.Context, tx *sqlx.Tx, id int64, by int) error
	ListByIDs(ctx context.Context, ids []int64) ([]models.Course, error)
}

type sessionReader interface {
	ListByCourse(ctx context.Context, courseID int64) ([]models.CourseSession, error)
	ListByCourses(ctx context.Context, courseIDs []int64) (map[int64][]models.CourseSession, error)
	ListWithCourseNames(ctx context.Context, courseIDs []int64) ([]models.SessionWithCourse, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

// EnrollRequest submits an enrollment attempt, optionally scoped to an
// elective batch.
type EnrollRequest struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	CourseID  int64  `json:"course_id" validate:"required,gt=0"`
	BatchID   *int64 `json:"batch_id,omitempty"`
}

// DropRequest withdraws a student from a course.
type DropRequest struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
	CourseID  int64 `json:"course_id" validate:"required,gt=0"`
}

// EnrollmentService is the transactional enrollment orchestrator: validate,
// duplicate check, capacity check, conflict check, commit. Steps two through
// commit run in a single REPEATABLE READ transaction with the course row
// locked, so the ledger and the enrolled counter move together or not at all.
type EnrollmentService struct {
	store     txRunner
	ledger    enrollmentLedger
	courses   courseStore
	sessions  sessionReader
	students  studentReader
	detector  ConflictDetector
	capacity  CapacityChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(store txRunner, ledger enrollmentLedger, courses courseStore, sessions sessionReader, students studentReader, detector ConflictDetector, capacity CapacityChecker, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		store:     store,
		ledger:    ledger,
		courses:   courses,
		sessions:  sessions,
		students:  students,
		detector:  detector,
		capacity:  capacity,
		validator: validate,
		logger:    logger,
	}
}

// Enroll attempts to register a student for a course. Warnings (over
// capacity under the soft policy, schedule conflicts) ride on the success
// response; failures leave no partial state behind.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*models.EnrollmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	var result models.EnrollmentResult
	err := s.store.RunInTx(ctx, func(tx *sqlx.Tx) error {
		course, err := s.courses.FindByIDForUpdateTx(ctx, tx, req.CourseID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "course not found or not open for enrollment")
			}
			return err
		}

		if _, err := s.ledger.FindActiveTx(ctx, tx, req.StudentID, req.CourseID, req.BatchID); err == nil {
			return appErrors.Clone(appErrors.ErrDuplicateEnrollment, "already enrolled in this course for the current round")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		decision := s.capacity.Evaluate(course)
		if decision.Denial != nil {
			return appErrors.Wrap(decision.Denial, appErrors.ErrCourseFull.Code, appErrors.ErrCourseFull.Status, decision.Denial.Error())
		}

		conflictWarning, err := s.conflictWarning(ctx, tx, req.StudentID, course)
		if err != nil {
			return err
		}
		warning := joinWarnings(decision.Warning, conflictWarning)

		enrollment := &models.Enrollment{
			StudentID: req.StudentID,
			CourseID:  req.CourseID,
			BatchID:   req.BatchID,
			Status:    models.EnrollmentStatusEnrolled,
		}
		if err := s.ledger.CreateTx(ctx, tx, enrollment); err != nil {
			return err
		}
		if err := s.courses.IncrementEnrolledTx(ctx, tx, req.CourseID); err != nil {
			return err
		}

		result = models.EnrollmentResult{
			Success:      true,
			Message:      "enrolled successfully",
			Warning:      warning,
			EnrollmentID: enrollment.ID,
		}
		return nil
	})
	if err != nil {
		return nil, s.asDomainError(err, "enrollment transaction failed")
	}
	return &result, nil
}

// Drop withdraws every active enrollment of the student in the course and
// lowers the counter by the number of rows withdrawn, clamped at zero.
func (s *EnrollmentService) Drop(ctx context.Context, req DropRequest) (*models.EnrollmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid drop payload")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	var result models.EnrollmentResult
	err := s.store.RunInTx(ctx, func(tx *sqlx.Tx) error {
		// Same lock order as Enroll so the two cannot deadlock.
		if _, err := s.courses.FindByIDForUpdateTx(ctx, tx, req.CourseID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "course not found")
			}
			return err
		}

		ids, err := s.ledger.WithdrawAllTx(ctx, tx, req.StudentID, req.CourseID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return appErrors.Clone(appErrors.ErrNotEnrolled, "not enrolled in this course or already dropped")
		}
		if err := s.courses.DecrementEnrolledTx(ctx, tx, req.CourseID, len(ids)); err != nil {
			return err
		}

		result = models.EnrollmentResult{
			Success:      true,
			Message:      "dropped successfully",
			EnrollmentID: ids[0],
		}
		return nil
	})
	if err != nil {
		return nil, s.asDomainError(err, "drop transaction failed")
	}
	return &result, nil
}

// ListStudentCourses returns the courses a student is currently enrolled in,
// each with its weekly sessions.
func (s *EnrollmentService) ListStudentCourses(ctx context.Context, studentID int64) ([]models.CourseWithSessions, error) {
	enrollments, err := s.ledger.ListActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	courseIDs := distinctCourseIDs(enrollments)
	if len(courseIDs) == 0 {
		return []models.CourseWithSessions{}, nil
	}
	courses, err := s.courses.ListByIDs(ctx, courseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	sessions, err := s.sessions.ListByCourses(ctx, courseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	out := make([]models.CourseWithSessions, 0, len(courses))
	for _, course := range courses {
		out = append(out, models.CourseWithSessions{
			Course:   course,
			Sessions: orEmptySessions(sessions[course.ID]),
		})
	}
	return out, nil
}

// ListActiveCourseIDs returns just the course ids a student is enrolled in.
func (s *EnrollmentService) ListActiveCourseIDs(ctx context.Context, studentID int64) ([]int64, error) {
	enrollments, err := s.ledger.ListActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return distinctCourseIDs(enrollments), nil
}

// conflictWarning computes the schedule conflict warning for the candidate
// course against the student's active enrollments, inside the caller's
// transaction.
func (s *EnrollmentService) conflictWarning(ctx context.Context, tx *sqlx.Tx, studentID int64, candidate *models.Course) (string, error) {
	enrollments, err := s.ledger.ListActiveByStudentTx(ctx, tx, studentID)
	if err != nil {
		return "", err
	}
	courseIDs := distinctCourseIDs(enrollments)
	if len(courseIDs) == 0 {
		return "", nil
	}
	enrolledSessions, err := s.sessions.ListWithCourseNames(ctx, courseIDs)
	if err != nil {
		return "", err
	}
	candidateSessions, err := s.sessions.ListByCourse(ctx, candidate.ID)
	if err != nil {
		return "", err
	}
	conflicts := s.detector.FindConflicts(enrolledSessions, candidateSessions)
	return s.detector.Warning(candidate.Name, candidate.ID, conflicts), nil
}

// asDomainError passes typed domain errors through and folds anything else
// into the retryable storage taxonomy; RunInTx has already rolled back.
func (s *EnrollmentService) asDomainError(err error, message string) error {
	var typed *appErrors.Error
	if errors.As(err, &typed) {
		return typed
	}
	s.logger.Error("enrollment storage failure", zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, message)
}

func joinWarnings(a, b string) string {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "; " + b
	}
}

func distinctCourseIDs(enrollments []models.Enrollment) []int64 {
	seen := make(map[int64]struct{}, len(enrollments))
	var ids []int64
	for _, e := range enrollments {
		if _, ok := seen[e.CourseID]; ok {
			continue
		}
		seen[e.CourseID] = struct{}{}
		ids = append(ids, e.CourseID)
	}
	return ids
}

func orEmptySessions(sessions []models.CourseSession) []models.CourseSession {
	if sessions == nil {
		return []models.CourseSession{}
	}
	return sessions
}
