package dto

import (
	"github.com/qlgl/catechism-backend/internal/app/models"
)

// CreateSessionRequest represents the payload for creating a class session
type CreateSessionRequest struct {
	Date        string  `json:"date" binding:"required"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AttendanceEntry is one student's attendance mark for a session
type AttendanceEntry struct {
	StudentID int64                   `json:"studentId" binding:"required,min=1"`
	Status    models.AttendanceStatus `json:"status" binding:"required,oneof=PRESENT LATE ABSENT_EXCUSED ABSENT_UNEXCUSED"`
	Note      *string                 `json:"note,omitempty"`
}

// RecordAttendanceRequest represents the payload for recording attendance
// for a session. Entries are upserted per student.
type RecordAttendanceRequest struct {
	Entries []AttendanceEntry `json:"entries" binding:"required,min=1,dive"`
}
