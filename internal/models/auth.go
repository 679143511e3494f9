package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role distinguishes the teacher dashboard from the student portal.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// JWTClaims represents the JWT payload for access tokens. StudentID is set
// only for student portal sessions.
type JWTClaims struct {
	Role      Role   `json:"role"`
	StudentID string `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}

// Session is returned on successful login.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	Role        Role      `json:"role"`
	Student     *Student  `json:"student,omitempty"`
}
