package model

import "time"

// Role distinguishes student and admin portal users.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Student is a registered examination candidate.
type Student struct {
	ExamNumber    string     `json:"examNumber"`
	Surname       string     `json:"surname"`
	FirstName     string     `json:"firstName"`
	FullName      string     `json:"fullName"`
	Email         string     `json:"email"`
	PhoneNumber   string     `json:"phoneNumber,omitempty"`
	Sex           string     `json:"sex,omitempty"`
	StateOfOrigin string     `json:"stateOfOrigin,omitempty"`
	Nationality   string     `json:"nationality,omitempty"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	ExamGroup     int        `json:"examGroup,omitempty"`
	ExamDateTime  *time.Time `json:"examDateTime,omitempty"`
}

// LoginRequest is the credential payload proxied to the backend.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterStudentRequest is the admin payload for registering a candidate.
type RegisterStudentRequest struct {
	Surname       string `json:"surname" binding:"required,max=100"`
	FirstName     string `json:"firstName" binding:"required,max=100"`
	Email         string `json:"email" binding:"required,email"`
	PhoneNumber   string `json:"phoneNumber" binding:"omitempty,max=20"`
	Sex           string `json:"sex" binding:"omitempty,oneof=Male Female"`
	StateOfOrigin string `json:"stateOfOrigin" binding:"omitempty,max=100"`
	Nationality   string `json:"nationality" binding:"omitempty,max=100"`
	DateOfBirth   string `json:"dateOfBirth" binding:"omitempty"`
	ExamGroup     int    `json:"examGroup" binding:"omitempty,min=1"`
}
