package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a student. Username may
// be the numeric student id or the student name.
type LoginRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// LoginResponse returns the issued token and student info.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	IssuedAt    time.Time   `json:"issued_at"`
	Student     StudentInfo `json:"student"`
}

// RegisterRequest creates a new student account.
type RegisterRequest struct {
	StudentID int64  `json:"student_id" validate:"required,gt=0"`
	Name      string `json:"student_name" validate:"required"`
	College   string `json:"college" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// StudentInfo describes the authenticated student in responses.
type StudentInfo struct {
	ID      int64  `json:"student_id"`
	Name    string `json:"student_name"`
	College string `json:"college"`
}

// Captcha is a short-lived verification code. Text is returned to the edge
// layer, which owns rendering; the server only stores the code under TTL.
type Captcha struct {
	ID        string    `json:"captcha_id"`
	Text      string    `json:"captcha_text"`
	ExpiresAt time.Time `json:"expires_at"`
}

// JWTClaims is the access token payload.
type JWTClaims struct {
	StudentID int64  `json:"student_id"`
	Name      string `json:"student_name"`
	College   string `json:"college"`
	jwt.RegisteredClaims
}
