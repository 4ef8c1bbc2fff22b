package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusflow/course-select-api/internal/models"
	"github.com/campusflow/course-select-api/internal/service"
	"github.com/campusflow/course-select-api/pkg/response"
)

// CourseHandler exposes the course catalog.
type CourseHandler struct {
	courses *service.CourseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// Search godoc
// @Summary Search the course catalog
// @Description Combined search over course fields and session time windows. All conditions are optional and AND-composed.
// @Tags Courses
// @Produce json
// @Param course_name query string false "Course name (substring)"
// @Param course_type query string false "Course type"
// @Param college query string false "Offering college"
// @Param instructor_name query string false "Instructor"
// @Param campus query string false "Campus"
// @Param classroom query string false "Classroom"
// @Param credits query int false "Exact credits"
// @Param weekday query string false "Comma-separated weekdays (Mon..Sun)"
// @Param start_period query int false "Window start period"
// @Param end_period query int false "Window end period"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) Search(c *gin.Context) {
	query := service.CombinedCourseQuery{
		Course:  courseFilterFromQuery(c),
		Session: sessionWindowFromQuery(c),
	}
	if claims := claimsFromContext(c); claims != nil {
		studentID := claims.StudentID
		query.StudentID = &studentID
	}

	courses, err := h.courses.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// AttributeValues godoc
// @Summary Enumerate distinct values of one course attribute
// @Tags Courses
// @Produce json
// @Param name path string true "Attribute name"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/attributes/{name} [get]
func (h *CourseHandler) AttributeValues(c *gin.Context) {
	values, err := h.courses.AttributeValues(c.Request.Context(), c.Param("name"), courseFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, values, nil)
}

func courseFilterFromQuery(c *gin.Context) models.CourseFilter {
	filter := models.CourseFilter{
		Name:           c.Query("course_name"),
		Type:           c.Query("course_type"),
		Description:    c.Query("description"),
		College:        c.Query("college"),
		InstructorName: c.Query("instructor_name"),
		Campus:         c.Query("campus"),
		Classroom:      c.Query("classroom"),
	}
	filter.ID = intQuery(c, "course_id")
	filter.Credits = intPtrQuery(c, "credits")
	filter.StartWeek = intPtrQuery(c, "start_week")
	filter.EndWeek = intPtrQuery(c, "end_week")
	filter.Capacity = intPtrQuery(c, "capacity")
	return filter
}

func sessionWindowFromQuery(c *gin.Context) models.SessionWindowFilter {
	window := models.SessionWindowFilter{
		StartPeriod: intPtrQuery(c, "start_period"),
		EndPeriod:   intPtrQuery(c, "end_period"),
	}
	if raw := c.Query("weekday"); raw != "" {
		for _, day := range strings.Split(raw, ",") {
			day = strings.TrimSpace(day)
			if day != "" {
				window.Weekdays = append(window.Weekdays, day)
			}
		}
	}
	return window
}

func intQuery(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func intPtrQuery(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
