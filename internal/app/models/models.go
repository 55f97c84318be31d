package models

// UserRole defines the user role type
type UserRole string

const (
	RoleSuperAdmin  UserRole = "SUPER_ADMIN"  // Full system access
	RoleParishAdmin UserRole = "GIAO_XU_ADMIN" // Parish-level administrator
	RoleCatechist   UserRole = "GIAO_LY_VIEN"  // Catechist / teacher
)

// IsValid reports whether the role is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleParishAdmin, RoleCatechist:
		return true
	}
	return false
}

// Gender defines the student gender type
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// IsValid reports whether the gender is one of the known values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// AttendanceStatus defines the per-student attendance state for a session
type AttendanceStatus string

const (
	AttendancePresent         AttendanceStatus = "PRESENT"
	AttendanceLate            AttendanceStatus = "LATE"
	AttendanceAbsentExcused   AttendanceStatus = "ABSENT_EXCUSED"
	AttendanceAbsentUnexcused AttendanceStatus = "ABSENT_UNEXCUSED"
)

// IsValid reports whether the status is one of the known values.
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsentExcused, AttendanceAbsentUnexcused:
		return true
	}
	return false
}

// GradeColumnType defines the kind of a grade column
type GradeColumnType string

const (
	GradeColumnOral       GradeColumnType = "ORAL"
	GradeColumnFifteenMin GradeColumnType = "FIFTEEN_MIN"
	GradeColumnOnePeriod  GradeColumnType = "ONE_PERIOD"
	GradeColumnFinal      GradeColumnType = "FINAL"
)

// IsValid reports whether the column type is one of the known values.
func (t GradeColumnType) IsValid() bool {
	switch t {
	case GradeColumnOral, GradeColumnFifteenMin, GradeColumnOnePeriod, GradeColumnFinal:
		return true
	}
	return false
}
