package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusflow/course-select-api/internal/models"
	"github.com/campusflow/course-select-api/internal/service"
)

type capturingCatalog struct {
	lastFilter models.CourseFilter
	lastWindow models.SessionWindowFilter
	courses    []models.Course
}

func (c *capturingCatalog) List(ctx context.Context, filter models.CourseFilter, window models.SessionWindowFilter) ([]models.Course, error) {
	c.lastFilter = filter
	c.lastWindow = window
	return c.courses, nil
}

func (c *capturingCatalog) ListByIDs(ctx context.Context, ids []int64) ([]models.Course, error) {
	return nil, nil
}

func newCourseHandlerFixture() (*CourseHandler, *capturingCatalog) {
	catalog := &capturingCatalog{}
	svc := service.NewCourseService(catalog, &fakeSessions{byCourse: map[int64][]models.CourseSession{}}, &fakeLedger{}, nil, zap.NewNop())
	return NewCourseHandler(svc), catalog
}

func TestCourseHandlerSearchParsesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, catalog := newCourseHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/courses?course_name=Calc&credits=4&college=Science&weekday=Mon,%20Wed&start_period=3&end_period=4", nil)

	handler.Search(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "Calc", catalog.lastFilter.Name)
	require.NotNil(t, catalog.lastFilter.Credits)
	assert.Equal(t, 4, *catalog.lastFilter.Credits)
	assert.Equal(t, "Science", catalog.lastFilter.College)

	assert.Equal(t, []string{"Mon", "Wed"}, catalog.lastWindow.Weekdays)
	require.NotNil(t, catalog.lastWindow.StartPeriod)
	assert.Equal(t, 3, *catalog.lastWindow.StartPeriod)
	require.NotNil(t, catalog.lastWindow.EndPeriod)
	assert.Equal(t, 4, *catalog.lastWindow.EndPeriod)
}

func TestCourseHandlerSearchEmptyQueryMeansNoConditions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, catalog := newCourseHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses", nil)

	handler.Search(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, catalog.lastFilter.Empty())
	assert.True(t, catalog.lastWindow.Empty())
}

func TestCourseHandlerAttributeValuesUnknown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newCourseHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/attributes/password", nil)
	c.Params = gin.Params{{Key: "name", Value: "password"}}

	handler.AttributeValues(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandlerAttributeValuesKnown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, catalog := newCourseHandlerFixture()
	catalog.courses = []models.Course{{ID: 1, Type: "math"}, {ID: 2, Type: "pe"}}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/attributes/course_type", nil)
	c.Params = gin.Params{{Key: "name", Value: "course_type"}}

	handler.AttributeValues(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "math")
	assert.Contains(t, rec.Body.String(), "pe")
}
