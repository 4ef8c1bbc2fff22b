package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusflow/course-select-api/internal/models"
	"github.com/campusflow/course-select-api/internal/service"
	appErrors "github.com/campusflow/course-select-api/pkg/errors"
	"github.com/campusflow/course-select-api/pkg/export"
	"github.com/campusflow/course-select-api/pkg/response"
)

// EnrollmentHandler exposes the enrollment workflow: enroll, drop, list, and
// timetable export. The acting student always comes from the token.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	metrics     *service.MetricsService
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, metrics *service.MetricsService, csv *export.CSVExporter, pdf *export.PDFExporter) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, metrics: metrics, csv: csv, pdf: pdf}
}

type enrollPayload struct {
	CourseID int64  `json:"course_id" binding:"required,gt=0"`
	BatchID  *int64 `json:"batch_id,omitempty"`
}

type dropPayload struct {
	CourseID int64 `json:"course_id" binding:"required,gt=0"`
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body enrollPayload true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload enrollPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.enrollments.Enroll(c.Request.Context(), service.EnrollRequest{
		StudentID: claims.StudentID,
		CourseID:  payload.CourseID,
		BatchID:   payload.BatchID,
	})
	h.metrics.RecordEnrollment("enroll", enrollmentOutcome(err))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Drop godoc
// @Summary Drop a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dropPayload true "Drop payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments/drop [post]
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload dropPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.enrollments.Drop(c.Request.Context(), service.DropRequest{
		StudentID: claims.StudentID,
		CourseID:  payload.CourseID,
	})
	h.metrics.RecordEnrollment("drop", enrollmentOutcome(err))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// My godoc
// @Summary List my enrolled courses
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /enrollments/my [get]
func (h *EnrollmentHandler) My(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	courses, err := h.enrollments.ListStudentCourses(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Export godoc
// @Summary Export my timetable
// @Description Renders the enrolled timetable as CSV or PDF.
// @Tags Enrollments
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /enrollments/my/export [get]
func (h *EnrollmentHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	courses, err := h.enrollments.ListStudentCourses(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	table := buildTimetable(claims.Name, courses)

	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	switch format {
	case "csv":
		data, err := h.csv.Render(table)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="timetable.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
	case "pdf":
		data, err := h.pdf.Render(table)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="timetable.pdf"`)
		c.Data(http.StatusOK, "application/pdf", data)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

func buildTimetable(studentName string, courses []models.CourseWithSessions) export.Timetable {
	table := export.Timetable{Title: fmt.Sprintf("Timetable for %s", studentName)}
	for _, course := range courses {
		weeks := fmt.Sprintf("%d-%d", course.StartWeek, course.EndWeek)
		if len(course.Sessions) == 0 {
			table.Entries = append(table.Entries, export.Entry{
				CourseID:   course.ID,
				CourseName: course.Name,
				Instructor: course.InstructorName,
				Weeks:      weeks,
				Classroom:  course.Classroom,
				Credits:    course.Credits,
			})
			continue
		}
		for _, session := range course.Sessions {
			periods := fmt.Sprintf("%d-%d", session.StartPeriod, session.EndPeriod)
			if session.WeekParity == models.WeekParityOdd || session.WeekParity == models.WeekParityEven {
				weeks = fmt.Sprintf("%d-%d (%s)", course.StartWeek, course.EndWeek, session.WeekParity)
			}
			table.Entries = append(table.Entries, export.Entry{
				CourseID:   course.ID,
				CourseName: course.Name,
				Instructor: course.InstructorName,
				Weekday:    session.Weekday,
				Periods:    periods,
				Weeks:      weeks,
				Classroom:  course.Classroom,
				Credits:    course.Credits,
			})
		}
	}
	return table
}

// enrollmentOutcome maps an orchestrator error to a metrics label.
func enrollmentOutcome(err error) string {
	switch {
	case err == nil:
		return service.EnrollOutcomeSuccess
	case appErrors.Is(err, appErrors.ErrDuplicateEnrollment):
		return service.EnrollOutcomeDuplicate
	case appErrors.Is(err, appErrors.ErrCourseFull):
		return service.EnrollOutcomeFull
	case appErrors.Is(err, appErrors.ErrNotFound):
		return service.EnrollOutcomeNotFound
	default:
		return service.EnrollOutcomeStorage
	}
}
