package models

import (
	"time"
)

// Student defines the student model based on the 'students' table.
// FullName is always derived as "LastName FirstName" (Vietnamese name order).
// A student owns its guardians; at least one guardian exists at all times and
// exactly one of them is marked primary.
type Student struct {
	ID            int64      `json:"id" db:"id" example:"1"`
	Code          string     `json:"code" db:"code" example:"HS001"` // Unique human-readable student code
	SaintName     *string    `json:"saintName,omitempty" db:"saint_name" example:"Maria"`
	FirstName     string     `json:"firstName" db:"first_name" example:"An"`
	LastName      string     `json:"lastName" db:"last_name" example:"Nguyễn"`
	FullName      string     `json:"fullName" db:"full_name" example:"Nguyễn An"`
	Gender        Gender     `json:"gender" db:"gender" example:"FEMALE"`
	DateOfBirth   time.Time  `json:"dateOfBirth" db:"date_of_birth"`
	DateOfBaptism *time.Time `json:"dateOfBaptism,omitempty" db:"date_of_baptism"`
	Address       *string    `json:"address,omitempty" db:"address"`
	Note          *string    `json:"note,omitempty" db:"note"`
	ParishID      *int64     `json:"parishId,omitempty" db:"parish_id"`
	IsActive      bool       `json:"isActive" db:"is_active" example:"true"` // Soft-delete marker
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Parish      *Parish      `json:"parish,omitempty"`
	Guardians   []Guardian   `json:"guardians,omitempty"`
	Enrollments []Enrollment `json:"classEnrollments,omitempty"`
}

// Guardian defines the guardian model based on the 'guardians' table.
// A guardian belongs to exactly one student.
type Guardian struct {
	ID           int64     `json:"id" db:"id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	Name         string    `json:"name" db:"name" example:"Nguyễn Văn A"`
	Relationship string    `json:"relationship" db:"relationship" example:"Bố"`
	Phone        string    `json:"phone" db:"phone" example:"0987654321"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Address      *string   `json:"address,omitempty" db:"address"`
	IsPrimary    bool      `json:"isPrimary" db:"is_primary"` // Main contact for the student
	Note         *string   `json:"note,omitempty" db:"note"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
