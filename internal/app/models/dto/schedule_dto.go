package dto

// CreateScheduleRequest represents the payload for creating a teaching
// schedule entry
type CreateScheduleRequest struct {
	ClassID   int64   `json:"classId" binding:"required,min=1"`
	TeacherID int64   `json:"teacherId" binding:"required,min=1"`
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"startTime" binding:"required"`
	EndTime   string  `json:"endTime" binding:"required"`
	Lesson    *string `json:"lesson,omitempty"`
	Note      *string `json:"note,omitempty"`
}

// UpdateScheduleRequest represents a partial schedule update
type UpdateScheduleRequest struct {
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Lesson    *string `json:"lesson,omitempty"`
	Note      *string `json:"note,omitempty"`
}

// ScheduleFilter represents the query parameters of the schedule listing
type ScheduleFilter struct {
	ClassID   *int64 `form:"classId"`
	TeacherID *int64 `form:"teacherId"`
	From      string `form:"from"`
	To        string `form:"to"`
}
