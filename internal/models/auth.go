package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the two roles of the timetable system.
type UserRole string

const (
	RoleCoordinator UserRole = "COORDINATOR"
	RoleFaculty     UserRole = "FACULTY"
)

// LoginRequest holds credentials for authenticating a user. FacultyID is
// required only for the faculty role.
type LoginRequest struct {
	Role      UserRole `json:"role" validate:"required,oneof=COORDINATOR FACULTY"`
	FacultyID string   `json:"facultyId" validate:"required_if=Role FACULTY"`
	Password  string   `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and subject info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	Role        UserRole  `json:"role"`
	FacultyID   string    `json:"faculty_id,omitempty"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Role      UserRole `json:"role"`
	FacultyID string   `json:"faculty_id,omitempty"`
	jwt.RegisteredClaims
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
