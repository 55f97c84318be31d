package models

// GradeColumn defines a weighted grade column for a class based on the
// 'grade_columns' table
type GradeColumn struct {
	ID          int64           `json:"id" db:"id"`
	ClassID     int64           `json:"classId" db:"class_id"`
	Name        string          `json:"name" db:"name" example:"Điểm miệng"`
	Type        GradeColumnType `json:"type" db:"type" example:"ORAL"`
	Weight      int             `json:"weight" db:"weight" example:"1"`
	MaxScore    float64         `json:"maxScore" db:"max_score" example:"10"`
	Position    int             `json:"position" db:"position"`
	IsPublished bool            `json:"isPublished" db:"is_published"`
}

// Grade defines a student's numeric score in a grade column based on the
// 'grades' table. One record per (column, student), score in [0, MaxScore].
type Grade struct {
	ID            int64   `json:"id" db:"id"`
	GradeColumnID int64   `json:"gradeColumnId" db:"grade_column_id"`
	StudentID     int64   `json:"studentId" db:"student_id"`
	Score         float64 `json:"score" db:"score" example:"8.5"`
	Note          *string `json:"note,omitempty" db:"note"`
}

// StudentGradeRow holds one roster row of the class grade matrix: every
// column's score (nil when unscored) plus the weighted average.
type StudentGradeRow struct {
	StudentID   int64              `json:"studentId"`
	StudentName string             `json:"studentName"`
	Scores      map[int64]*float64 `json:"scores"` // keyed by grade column id
	Average     *float64           `json:"average,omitempty"`
}
