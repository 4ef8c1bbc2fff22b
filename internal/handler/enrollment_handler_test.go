package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusflow/course-select-api/internal/middleware"
	"github.com/campusflow/course-select-api/internal/models"
	"github.com/campusflow/course-select-api/internal/service"
	"github.com/campusflow/course-select-api/pkg/export"
)

type fakeStore struct{}

func (f *fakeStore) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type fakeLedger struct {
	active    []models.Enrollment
	created   *models.Enrollment
	withdrawn []string
}

func (f *fakeLedger) FindActiveTx(ctx context.Context, tx *sqlx.Tx, studentID, courseID int64, batchID *int64) (*models.Enrollment, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeLedger) ListActiveByStudent(ctx context.Context, studentID int64) ([]models.Enrollment, error) {
	return f.active, nil
}

func (f *fakeLedger) ListActiveByStudentTx(ctx context.Context, tx *sqlx.Tx, studentID int64) ([]models.Enrollment, error) {
	return f.active, nil
}

func (f *fakeLedger) CreateTx(ctx context.Context, tx *sqlx.Tx, enrollment *models.Enrollment) error {
	enrollment.ID = "enr-1"
	f.created = enrollment
	return nil
}

func (f *fakeLedger) WithdrawAllTx(ctx context.Context, tx *sqlx.Tx, studentID, courseID int64) ([]string, error) {
	return f.withdrawn, nil
}

type fakeCourses struct {
	courses map[int64]models.Course
}

func (f *fakeCourses) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourses) FindByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Course, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeCourses) IncrementEnrolledTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	return nil
}

func (f *fakeCourses) DecrementEnrolledTx(ctx context.Context, tx *sqlx.Tx, id int64, by int) error {
	return nil
}

func (f *fakeCourses) ListByIDs(ctx context.Context, ids []int64) ([]models.Course, error) {
	var out []models.Course
	for _, id := range ids {
		if c, ok := f.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeSessions struct {
	byCourse map[int64][]models.CourseSession
}

func (f *fakeSessions) ListByCourse(ctx context.Context, courseID int64) ([]models.CourseSession, error) {
	return f.byCourse[courseID], nil
}

func (f *fakeSessions) ListByCourses(ctx context.Context, courseIDs []int64) (map[int64][]models.CourseSession, error) {
	return f.byCourse, nil
}

func (f *fakeSessions) ListWithCourseNames(ctx context.Context, courseIDs []int64) ([]models.SessionWithCourse, error) {
	return nil, nil
}

type fakeStudents struct{}

func (f *fakeStudents) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	return &models.Student{ID: id, Name: "Ada Li"}, nil
}

func newEnrollmentHandlerFixture() (*EnrollmentHandler, *fakeLedger) {
	ledger := &fakeLedger{}
	courses := &fakeCourses{courses: map[int64]models.Course{
		101: {ID: 101, Name: "Calculus", InstructorName: "Prof Gauss", Classroom: "B201", StartWeek: 1, EndWeek: 16, Credits: 4},
	}}
	svc := service.NewEnrollmentService(&fakeStore{}, ledger, courses,
		&fakeSessions{byCourse: map[int64][]models.CourseSession{}}, &fakeStudents{},
		service.ConflictDetector{}, service.CapacityChecker{Policy: "soft"}, nil, zap.NewNop())
	return NewEnrollmentHandler(svc, nil, export.NewCSVExporter(), export.NewPDFExporter()), ledger
}

func authedContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{StudentID: 9, Name: "Ada Li"})
	return c, rec
}

func TestEnrollmentHandlerEnrollRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newEnrollmentHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/enrollments", strings.NewReader(`{"course_id":101}`))

	handler.Enroll(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEnrollmentHandlerEnrollRejectsBadPayload(t *testing.T) {
	handler, _ := newEnrollmentHandlerFixture()
	c, rec := authedContext(t, http.MethodPost, "/enrollments", `{"course_id":"abc"}`)

	handler.Enroll(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnrollmentHandlerEnrollUsesTokenStudent(t *testing.T) {
	handler, ledger := newEnrollmentHandlerFixture()
	c, rec := authedContext(t, http.MethodPost, "/enrollments", `{"course_id":101}`)

	handler.Enroll(c)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, ledger.created)
	assert.Equal(t, int64(9), ledger.created.StudentID)
	assert.Equal(t, int64(101), ledger.created.CourseID)
}

func TestEnrollmentHandlerDropNotEnrolled(t *testing.T) {
	handler, _ := newEnrollmentHandlerFixture()
	c, rec := authedContext(t, http.MethodPost, "/enrollments/drop", `{"course_id":101}`)

	handler.Drop(c)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "NOT_ENROLLED", envelope.Error.Code)
}

func TestEnrollmentHandlerExportCSV(t *testing.T) {
	handler, ledger := newEnrollmentHandlerFixture()
	ledger.active = []models.Enrollment{{StudentID: 9, CourseID: 101, Status: models.EnrollmentStatusEnrolled}}
	c, rec := authedContext(t, http.MethodGet, "/enrollments/my/export?format=csv", "")

	handler.Export(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Course No.")
	assert.Contains(t, body, "00000101")
	assert.Contains(t, body, "Calculus")
}

func TestEnrollmentHandlerExportRejectsUnknownFormat(t *testing.T) {
	handler, _ := newEnrollmentHandlerFixture()
	c, rec := authedContext(t, http.MethodGet, "/enrollments/my/export?format=xlsx", "")

	handler.Export(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
