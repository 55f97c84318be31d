package models

import (
	"time"
)

// Session defines a single class meeting based on the 'sessions' table
type Session struct {
	ID          int64     `json:"id" db:"id"`
	ClassID     int64     `json:"classId" db:"class_id"`
	Date        time.Time `json:"date" db:"date"`
	Title       *string   `json:"title,omitempty" db:"title" example:"Bài 1: Thiên Chúa là Tình Yêu"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Attendance defines a per-student attendance record based on the
// 'attendances' table. One record per (session, student).
type Attendance struct {
	ID        int64            `json:"id" db:"id"`
	SessionID int64            `json:"sessionId" db:"session_id"`
	StudentID int64            `json:"studentId" db:"student_id"`
	Status    AttendanceStatus `json:"status" db:"status" example:"PRESENT"`
	Note      *string          `json:"note,omitempty" db:"note"`

	Student *Student `json:"student,omitempty"`
}

// AttendanceSummary aggregates a session's attendance counts per status.
type AttendanceSummary struct {
	SessionID       int64 `json:"sessionId"`
	TotalStudents   int   `json:"totalStudents"`
	PresentCount    int   `json:"presentCount"`
	LateCount       int   `json:"lateCount"`
	AbsentExcused   int   `json:"absentExcused"`
	AbsentUnexcused int   `json:"absentUnexcused"`
}
