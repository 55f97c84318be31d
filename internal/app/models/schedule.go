package models

import (
	"time"
)

// TeachingSchedule defines a planned lesson based on the
// 'teaching_schedules' table
type TeachingSchedule struct {
	ID        int64     `json:"id" db:"id"`
	ClassID   int64     `json:"classId" db:"class_id"`
	TeacherID int64     `json:"teacherId" db:"teacher_id"`
	Date      time.Time `json:"date" db:"date"`
	StartTime string    `json:"startTime" db:"start_time" example:"08:00"`
	EndTime   string    `json:"endTime" db:"end_time" example:"09:30"`
	Lesson    *string   `json:"lesson,omitempty" db:"lesson"`
	Note      *string   `json:"note,omitempty" db:"note"`

	Class   *Class `json:"class,omitempty"`
	Teacher *User  `json:"teacher,omitempty"`
}
