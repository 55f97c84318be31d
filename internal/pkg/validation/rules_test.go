package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStudentCode(t *testing.T) {
	valid := []string{"HS001", "GL123456", "ABCD999"}
	invalid := []string{"", "hs001", "H001", "HS01", "HS0000001", "HS001x"}

	for _, code := range valid {
		assert.True(t, IsValidStudentCode(code), code)
	}
	for _, code := range invalid {
		assert.False(t, IsValidStudentCode(code), code)
	}
}

func TestIsValidPhone(t *testing.T) {
	valid := []string{"0987654321", "02812345678"}
	invalid := []string{"", "987654321", "0abc123456", "012345", "+84987654321"}

	for _, phone := range valid {
		assert.True(t, IsValidPhone(phone), phone)
	}
	for _, phone := range invalid {
		assert.False(t, IsValidPhone(phone), phone)
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "08:30", "19:05", "23:59"}
	invalid := []string{"", "24:00", "8:30", "08:60", "08-30", "08:30:00"}

	for _, value := range valid {
		assert.True(t, IsValidTimeOfDay(value), value)
	}
	for _, value := range invalid {
		assert.False(t, IsValidTimeOfDay(value), value)
	}
}
