package validation

import (
	"regexp"
)

// Validation rule patterns. Email, username and password constraints live
// in the DTO binding tags.
var (
	// Student code pattern, e.g. HS001
	StudentCodePattern = `^[A-Z]{2,4}\d{3,6}$`

	// Vietnamese phone number pattern
	PhonePattern = `^0\d{9,10}$`

	// 24-hour wall clock pattern, e.g. 08:00
	TimeOfDayPattern = `^([01]\d|2[0-3]):[0-5]\d$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	StudentCode *regexp.Regexp
	Phone       *regexp.Regexp
	TimeOfDay   *regexp.Regexp
}{
	StudentCode: regexp.MustCompile(StudentCodePattern),
	Phone:       regexp.MustCompile(PhonePattern),
	TimeOfDay:   regexp.MustCompile(TimeOfDayPattern),
}

// IsValidStudentCode reports whether the code matches the expected format.
func IsValidStudentCode(code string) bool {
	return CompiledPatterns.StudentCode.MatchString(code)
}

// IsValidPhone reports whether the number matches the local phone format.
func IsValidPhone(phone string) bool {
	return CompiledPatterns.Phone.MatchString(phone)
}

// IsValidTimeOfDay reports whether the value is a 24-hour HH:MM time.
func IsValidTimeOfDay(value string) bool {
	return CompiledPatterns.TimeOfDay.MatchString(value)
}
