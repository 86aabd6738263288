package services

import (
	"strings"
	"time"
)

const clockLayout = "15:04"

func validateRating(v *ValidationError, field string, value int) {
	if value < 0 || value > 5 {
		v.add(field, "must be between 0 and 5")
	}
}

func validateRequired(v *ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

// validateEventTimes checks the "15:04" clock strings and requires the end to
// be strictly after the start.
func validateEventTimes(v *ValidationError, startTime, endTime string) {
	start, startErr := time.Parse(clockLayout, startTime)
	if startErr != nil {
		v.add("start_time", "must be a clock time in HH:MM format")
	}
	end, endErr := time.Parse(clockLayout, endTime)
	if endErr != nil {
		v.add("end_time", "must be a clock time in HH:MM format")
	}
	if startErr == nil && endErr == nil && !end.After(start) {
		v.add("end_time", "end time must be after start time")
	}
}

func validateHolesCompleted(v *ValidationError, holes int) {
	if holes < 1 || holes > 18 {
		v.add("holes_completed", "must be between 1 and 18")
	}
}
