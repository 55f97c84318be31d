package dto

import (
	"github.com/qlgl/catechism-backend/internal/app/models"
)

// CreateGradeColumnRequest represents the payload for creating a grade column
type CreateGradeColumnRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Type        models.GradeColumnType `json:"type" binding:"required,oneof=ORAL FIFTEEN_MIN ONE_PERIOD FINAL"`
	Weight      int                    `json:"weight" binding:"required,min=1"`
	MaxScore    float64                `json:"maxScore,omitempty"`
	Position    int                    `json:"position,omitempty"`
	IsPublished bool                   `json:"isPublished"`
}

// UpdateGradeColumnRequest represents a partial grade column update
type UpdateGradeColumnRequest struct {
	Name        *string                 `json:"name,omitempty"`
	Type        *models.GradeColumnType `json:"type,omitempty" binding:"omitempty,oneof=ORAL FIFTEEN_MIN ONE_PERIOD FINAL"`
	Weight      *int                    `json:"weight,omitempty" binding:"omitempty,min=1"`
	MaxScore    *float64                `json:"maxScore,omitempty"`
	Position    *int                    `json:"position,omitempty"`
	IsPublished *bool                   `json:"isPublished,omitempty"`
}

// UpsertGradeRequest represents the payload for setting a student's score
type UpsertGradeRequest struct {
	StudentID int64   `json:"studentId" binding:"required,min=1"`
	Score     float64 `json:"score" binding:"min=0"`
	Note      *string `json:"note,omitempty"`
}

// ClassGrades is the grade matrix for a class: the ordered columns and one
// row per actively enrolled student.
type ClassGrades struct {
	ClassID int64                    `json:"classId"`
	Columns []models.GradeColumn     `json:"columns"`
	Rows    []models.StudentGradeRow `json:"rows"`
}
