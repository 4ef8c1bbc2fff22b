package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusflow/course-select-api/internal/service"
	appErrors "github.com/campusflow/course-select-api/pkg/errors"
	"github.com/campusflow/course-select-api/pkg/response"
)

// GraduationHandler exposes credit progress and recommendations.
type GraduationHandler struct {
	graduation *service.GraduationService
}

// NewGraduationHandler constructs GraduationHandler.
func NewGraduationHandler(graduation *service.GraduationService) *GraduationHandler {
	return &GraduationHandler{graduation: graduation}
}

// Status godoc
// @Summary Credit progress toward graduation
// @Tags Graduation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /graduation/status [get]
func (h *GraduationHandler) Status(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	status, err := h.graduation.Status(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Recommendations godoc
// @Summary Recommend courses for unmet credit categories
// @Tags Graduation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /graduation/recommendations [get]
func (h *GraduationHandler) Recommendations(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	recs, err := h.graduation.Recommend(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recs, nil)
}
