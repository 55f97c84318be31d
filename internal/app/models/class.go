package models

import (
	"time"
)

// Class defines the class model based on the 'classes' table
type Class struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name" example:"Lớp Chiên Ngoan 1"`
	GradeLevel   string    `json:"gradeLevel" db:"grade_level" example:"Thiếu Nhi"`
	AcademicYear string    `json:"academicYear" db:"academic_year" example:"2024-2025"`
	TeacherID    *int64    `json:"teacherId,omitempty" db:"teacher_id"`
	Room         *string   `json:"room,omitempty" db:"room" example:"Phòng 101"`
	Description  *string   `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Teacher *User     `json:"teacher,omitempty"`
	Roster  []Student `json:"students,omitempty"`
}

// Enrollment defines the class membership based on the 'class_enrollments'
// table. LeftAt nil means the student is currently enrolled.
type Enrollment struct {
	ID        int64      `json:"id" db:"id"`
	ClassID   int64      `json:"classId" db:"class_id"`
	StudentID int64      `json:"studentId" db:"student_id"`
	JoinedAt  time.Time  `json:"joinedAt" db:"joined_at"`
	LeftAt    *time.Time `json:"leftAt,omitempty" db:"left_at"`
	Note      *string    `json:"note,omitempty" db:"note"`

	Class *Class `json:"class,omitempty"`
}
