package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusflow/course-select-api/internal/models"
	"github.com/campusflow/course-select-api/internal/service"
	appErrors "github.com/campusflow/course-select-api/pkg/errors"
	"github.com/campusflow/course-select-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth and captcha services.
type AuthHandler struct {
	auth     *service.AuthService
	captchas *service.CaptchaService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(auth *service.AuthService, captchas *service.CaptchaService) *AuthHandler {
	return &AuthHandler{auth: auth, captchas: captchas}
}

// Login godoc
// @Summary Authenticate student
// @Description Authenticate by student id or name plus password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Register godoc
// @Summary Register student account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Register payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid register payload"))
		return
	}

	info, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, info)
}

// Captcha godoc
// @Summary Issue a login captcha
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/captcha [get]
func (h *AuthHandler) Captcha(c *gin.Context) {
	captcha, err := h.captchas.Issue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, captcha, nil)
}

// Me godoc
// @Summary Get current student
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	info := models.StudentInfo{
		ID:      claims.StudentID,
		Name:    claims.Name,
		College: claims.College,
	}
	response.JSON(c, http.StatusOK, info, nil)
}
