package habit

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/errs"
)

const (
	DateLayout     = "2006-01-02"
	ReminderLayout = "15:04"

	maxTitleLength = 100
)

// Weekdays are the accepted repeat days, in display order.
var Weekdays = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}

// Normalize trims text fields, upper-cases repeat days and drops duplicates.
func Normalize(req api.HabitRequest) api.HabitRequest {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.StartAt = strings.TrimSpace(req.StartAt)
	req.ReminderTime = strings.TrimSpace(req.ReminderTime)

	days := make([]string, 0, len(req.RepeatDays))
	for _, d := range req.RepeatDays {
		d = strings.ToUpper(strings.TrimSpace(d))
		if !slices.Contains(days, d) {
			days = append(days, d)
		}
	}
	slices.SortFunc(days, func(a, b string) int {
		return slices.Index(Weekdays, a) - slices.Index(Weekdays, b)
	})
	req.RepeatDays = days

	if !req.IsAlarmEnabled {
		req.ReminderTime = ""
	}
	return req
}

// Validate checks a normalized habit request.
func Validate(req api.HabitRequest) error {
	if req.Title == "" {
		return errs.Rejected("Title is required.")
	}
	if utf8.RuneCountInString(req.Title) > maxTitleLength {
		return errs.Rejected(fmt.Sprintf("Title must be at most %d characters.", maxTitleLength))
	}
	if _, err := time.Parse(DateLayout, req.StartAt); err != nil {
		return errs.Rejected("Start date must be formatted as YYYY-MM-DD.")
	}
	if len(req.RepeatDays) == 0 {
		return errs.Rejected("Pick at least one repeat day.")
	}
	for _, d := range req.RepeatDays {
		if !slices.Contains(Weekdays, d) {
			return errs.Rejected(fmt.Sprintf("Unknown repeat day %q.", d))
		}
	}
	if req.IsAlarmEnabled {
		if _, err := time.Parse(ReminderLayout, req.ReminderTime); err != nil {
			return errs.Rejected("Reminder time must be formatted as HH:mm.")
		}
	}
	return nil
}
