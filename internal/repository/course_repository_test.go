package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusflow/course-select-api/internal/models"
)

func courseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"course_id", "course_name", "credits", "course_type", "description", "college",
		"instructor_name", "campus", "classroom", "start_week", "end_week", "capacity", "enrolled_count",
	})
}

func TestCourseRepositoryFindByIDForUpdateTx(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT .+ FROM courses WHERE course_id = \$1 FOR UPDATE`).
		WithArgs(int64(101)).
		WillReturnRows(courseRows().
			AddRow(int64(101), "Calculus", 4, "math", "", "Science", "Prof Gauss", "Main", "B201", 1, 16, 50, 12))

	tx, err := db.Beginx()
	require.NoError(t, err)

	course, err := repo.FindByIDForUpdateTx(context.Background(), tx, 101)
	require.NoError(t, err)
	assert.Equal(t, "Calculus", course.Name)
	assert.Equal(t, 12, course.EnrolledCount)
	require.NotNil(t, course.Capacity)
	assert.Equal(t, 50, *course.Capacity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryIncrementEnrolledTx(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE courses SET enrolled_count = enrolled_count \+ 1 WHERE course_id = \$1`).
		WithArgs(int64(101)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.IncrementEnrolledTx(context.Background(), tx, 101))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDecrementEnrolledTxClampsAtZero(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE courses SET enrolled_count = GREATEST\(enrolled_count - \$2, 0\) WHERE course_id = \$1`).
		WithArgs(int64(101), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.DecrementEnrolledTx(context.Background(), tx, 101, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDecrementEnrolledTxNoOpForZero(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	tx, err := db.Beginx()
	require.NoError(t, err)

	// No Exec expectation: a non-positive amount must not touch the database.
	require.NoError(t, repo.DecrementEnrolledTx(context.Background(), tx, 101, 0))
	require.NoError(t, repo.DecrementEnrolledTx(context.Background(), tx, 101, -2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListComposesConditions(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	credits := 4
	start := 3
	end := 4
	mock.ExpectQuery(`(?s)FROM courses c WHERE c\.course_name ILIKE \$1 AND c\.credits = \$2 AND c\.college = \$3 AND EXISTS \(SELECT 1 FROM course_sessions s WHERE s\.course_id = c\.course_id AND s\.weekday IN \(\$4,\$5\) AND s\.start_period <= \$6 AND s\.end_period >= \$7\) ORDER BY c\.course_id`).
		WithArgs("%Calc%", 4, "Science", "Mon", "Wed", 3, 4).
		WillReturnRows(courseRows().
			AddRow(int64(101), "Calculus", 4, "math", "", "Science", "Prof Gauss", "Main", "B201", 1, 16, nil, 0))

	filter := models.CourseFilter{Name: "Calc", Credits: &credits, College: "Science"}
	window := models.SessionWindowFilter{Weekdays: []string{"Mon", "Wed"}, StartPeriod: &start, EndPeriod: &end}

	courses, err := repo.List(context.Background(), filter, window)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Nil(t, courses[0].Capacity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListNoConditions(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(`(?s)FROM courses c ORDER BY c\.course_id`).
		WillReturnRows(courseRows())

	courses, err := repo.List(context.Background(), models.CourseFilter{}, models.SessionWindowFilter{})
	require.NoError(t, err)
	assert.Empty(t, courses)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListByIDs(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(`(?s)FROM courses WHERE course_id IN \(\$1,\$2\)`).
		WithArgs(int64(101), int64(102)).
		WillReturnRows(courseRows().
			AddRow(int64(101), "Calculus", 4, "math", "", "Science", "Prof Gauss", "Main", "B201", 1, 16, nil, 0).
			AddRow(int64(102), "Physics", 3, "science", "", "Science", "Prof Noether", "Main", "B202", 1, 16, nil, 0))

	courses, err := repo.ListByIDs(context.Background(), []int64{101, 102})
	require.NoError(t, err)
	assert.Len(t, courses, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListByIDsEmpty(t *testing.T) {
	db, _, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	courses, err := repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, courses)
}
