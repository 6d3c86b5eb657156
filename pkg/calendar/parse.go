package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

var weekdayNames = map[string]models.ISOWeekday{
	"mon": models.Monday, "monday": models.Monday,
	"tue": models.Tuesday, "tuesday": models.Tuesday,
	"wed": models.Wednesday, "wednesday": models.Wednesday,
	"thu": models.Thursday, "thursday": models.Thursday,
	"fri": models.Friday, "friday": models.Friday,
	"sat": models.Saturday, "saturday": models.Saturday,
	"sun": models.Sunday, "sunday": models.Sunday,
}

// ParseWeekday accepts an ISO number ("1".."7") or an English day name.
// An empty string means Monday.
func ParseWeekday(s string) (models.ISOWeekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return models.Monday, nil
	}
	if wd, ok := weekdayNames[s]; ok {
		return wd, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !models.ISOWeekday(n).Valid() {
		return 0, fmt.Errorf("%w: %q, want 1..7 or a day name", ErrInvalidWeekday, s)
	}
	return models.ISOWeekday(n), nil
}

// ValidateHoliday rejects (day, month) pairs that never occur
func ValidateHoliday(r models.HolidayRule) error {
	if r.Month < time.January || r.Month > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidHoliday, r.Month)
	}
	// 2000 is a leap year so 29 February passes.
	d := time.Date(2000, r.Month, r.Day, 0, 0, 0, 0, time.UTC)
	if r.Day < 1 || d.Month() != r.Month {
		return fmt.Errorf("%w: %d.%d is not a calendar date", ErrInvalidHoliday, r.Day, r.Month)
	}
	return nil
}

// ParseHoliday parses "DD.MM", "DD.MM." or "DD/MM"
func ParseHoliday(s string) (models.HolidayRule, error) {
	raw := strings.TrimSuffix(strings.TrimSpace(s), ".")
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '.' || r == '/' })
	if len(parts) != 2 {
		return models.HolidayRule{}, fmt.Errorf("%w: %q, want DD.MM", ErrInvalidHoliday, s)
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return models.HolidayRule{}, fmt.Errorf("%w: %q, want DD.MM", ErrInvalidHoliday, s)
	}
	r := models.HolidayRule{Day: day, Month: time.Month(month)}
	if err := ValidateHoliday(r); err != nil {
		return models.HolidayRule{}, err
	}
	return r, nil
}

// ParseHolidays parses each entry; empty entries are ignored
func ParseHolidays(in []string) ([]models.HolidayRule, error) {
	out := make([]models.HolidayRule, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) == "" {
			continue
		}
		r, err := ParseHoliday(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
