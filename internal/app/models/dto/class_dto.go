package dto

// CreateClassRequest represents the payload for creating a class
type CreateClassRequest struct {
	Name         string  `json:"name" binding:"required"`
	GradeLevel   string  `json:"gradeLevel" binding:"required"`
	AcademicYear string  `json:"academicYear" binding:"required"`
	TeacherID    *int64  `json:"teacherId,omitempty"`
	Room         *string `json:"room,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// UpdateClassRequest represents a partial class update
type UpdateClassRequest struct {
	Name         *string `json:"name,omitempty"`
	GradeLevel   *string `json:"gradeLevel,omitempty"`
	AcademicYear *string `json:"academicYear,omitempty"`
	TeacherID    *int64  `json:"teacherId,omitempty"`
	Room         *string `json:"room,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// ClassFilter represents the query parameters of the class listing
type ClassFilter struct {
	AcademicYear string `form:"academicYear"`
	TeacherID    *int64 `form:"teacherId"`
	Page         int    `form:"page,default=1"`
	Limit        int    `form:"limit,default=20"`
}

// EnrollStudentRequest represents the payload for enrolling a student
type EnrollStudentRequest struct {
	StudentID int64   `json:"studentId" binding:"required,min=1"`
	Note      *string `json:"note,omitempty"`
}
