package dto

import (
	"github.com/qlgl/catechism-backend/internal/app/models"
)

// CreateStudentRequest represents the payload for creating a student.
// Guardians may be supplied inline so the student is never persisted
// without at least one guardian.
type CreateStudentRequest struct {
	Code          string                   `json:"code" binding:"required"`
	SaintName     *string                  `json:"saintName,omitempty"`
	FirstName     string                   `json:"firstName" binding:"required"`
	LastName      string                   `json:"lastName" binding:"required"`
	Gender        models.Gender            `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	DateOfBirth   string                   `json:"dateOfBirth" binding:"required"`
	DateOfBaptism *string                  `json:"dateOfBaptism,omitempty"`
	Address       *string                  `json:"address,omitempty"`
	Note          *string                  `json:"note,omitempty"`
	ParishID      *int64                   `json:"parishId,omitempty"`
	Guardians     []CreateGuardianRequest  `json:"guardians,omitempty" binding:"omitempty,dive"`
}

// UpdateStudentRequest represents a partial student update. Nil fields are
// left untouched.
type UpdateStudentRequest struct {
	SaintName     *string        `json:"saintName,omitempty"`
	FirstName     *string        `json:"firstName,omitempty"`
	LastName      *string        `json:"lastName,omitempty"`
	Gender        *models.Gender `json:"gender,omitempty" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	DateOfBirth   *string        `json:"dateOfBirth,omitempty"`
	DateOfBaptism *string        `json:"dateOfBaptism,omitempty"`
	Address       *string        `json:"address,omitempty"`
	Note          *string        `json:"note,omitempty"`
	ParishID      *int64         `json:"parishId,omitempty"`
}

// CreateGuardianRequest represents the payload for adding a guardian
type CreateGuardianRequest struct {
	Name         string  `json:"name" binding:"required"`
	Relationship string  `json:"relationship" binding:"required"`
	Phone        string  `json:"phone" binding:"required"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Address      *string `json:"address,omitempty"`
	IsPrimary    bool    `json:"isPrimary"`
	Note         *string `json:"note,omitempty"`
}

// UpdateGuardianRequest represents a partial guardian update
type UpdateGuardianRequest struct {
	Name         *string `json:"name,omitempty"`
	Relationship *string `json:"relationship,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Address      *string `json:"address,omitempty"`
	IsPrimary    *bool   `json:"isPrimary,omitempty"`
	Note         *string `json:"note,omitempty"`
}

// StudentFilter represents the query parameters of the student listing.
type StudentFilter struct {
	Search    string `form:"search"`
	Gender    string `form:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	ParishID  *int64 `form:"parishId"`
	ClassID   *int64 `form:"classId"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	SortBy    string `form:"sortBy,default=fullName"`
	SortOrder string `form:"sortOrder,default=asc" binding:"omitempty,oneof=asc desc"`
}

// ParishStat is one entry of the top-parishes statistic
type ParishStat struct {
	Parish string `json:"parish"`
	Count  int64  `json:"count"`
}

// StudentStats aggregates counts over active students
type StudentStats struct {
	Total    int64            `json:"total"`
	ByGender map[string]int64 `json:"byGender"`
	ByParish []ParishStat     `json:"byParish"`
}
