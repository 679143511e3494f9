package dto

// TeacherLoginRequest carries the shared dashboard access code.
type TeacherLoginRequest struct {
	AccessCode string `json:"accessCode" validate:"required"`
}

// StudentLoginRequest opens the student portal for one student id.
type StudentLoginRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}
