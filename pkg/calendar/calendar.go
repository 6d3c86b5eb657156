// Package calendar generates weekly meeting slots inside a season window and
// replicates them into enough seats for a roster.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

var (
	ErrInvalidWindow     = errors.New("invalid window")
	ErrInvalidWeekday    = errors.New("invalid weekday")
	ErrInvalidHoliday    = errors.New("invalid holiday")
	ErrNoEligibleSlots   = errors.New("no eligible slots")
	ErrInsufficientSlots = errors.New("insufficient slots")
)

var rruleWeekdays = [...]rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// ValidateWindow checks that start <= end and that the window covers at most
// one season, i.e. end falls in start's year or the year after.
func ValidateWindow(w models.Window) error {
	start, end := models.DateOf(w.Start), models.DateOf(w.End)
	if end.Before(start) {
		return fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidWindow, start.Format(models.DateLayout), end.Format(models.DateLayout))
	}
	if y := end.Year() - start.Year(); y > 1 {
		return fmt.Errorf("%w: %s..%s spans %d year boundaries, at most one season allowed",
			ErrInvalidWindow, start.Format(models.DateLayout), end.Format(models.DateLayout), y)
	}
	return nil
}

// ResolveHolidays turns each rule into concrete dates for year and year+1.
// Rules that do not exist in a given year (29 February) are skipped for it.
func ResolveHolidays(rules []models.HolidayRule, year int) ([]time.Time, error) {
	out := make([]time.Time, 0, 2*len(rules))
	for _, r := range rules {
		if err := ValidateHoliday(r); err != nil {
			return nil, err
		}
		for _, y := range []int{year, year + 1} {
			d := time.Date(y, r.Month, r.Day, 0, 0, 0, 0, time.UTC)
			if d.Month() != r.Month {
				continue
			}
			out = append(out, d)
		}
	}
	return out, nil
}

// GenerateSlots returns every date in [w.Start, w.End] (end inclusive) that
// falls on weekday and does not collide with a holiday. Holidays are resolved
// against the start year and the following year only.
func GenerateSlots(w models.Window, holidays []models.HolidayRule, weekday models.ISOWeekday) ([]time.Time, error) {
	if err := ValidateWindow(w); err != nil {
		return nil, err
	}
	if !weekday.Valid() {
		return nil, fmt.Errorf("%w: %d, want 1 (Monday) through 7 (Sunday)", ErrInvalidWeekday, weekday)
	}
	start, end := models.DateOf(w.Start), models.DateOf(w.End)

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   start,
		Until:     end,
		Byweekday: []rrule.Weekday{rruleWeekdays[weekday-1]},
	})
	if err != nil {
		return nil, fmt.Errorf("build weekly rule: %w", err)
	}

	var set rrule.Set
	set.RRule(r)

	exdates, err := ResolveHolidays(holidays, start.Year())
	if err != nil {
		return nil, err
	}
	for _, ex := range exdates {
		set.ExDate(ex)
	}

	slots := set.All()
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: no %s between %s and %s outside holidays",
			ErrNoEligibleSlots, time.Weekday(int(weekday)%7),
			start.Format(models.DateLayout), end.Format(models.DateLayout))
	}
	return slots, nil
}

// Expand replicates each slot k = ceil(personCount/len(slots)) times so the
// occurrences can seat everyone. Repeats of one slot stay adjacent.
func Expand(slots []time.Time, personCount int) ([]models.Occurrence, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: cannot seat %d people in zero slots", ErrInsufficientSlots, personCount)
	}
	k := ReplicationFactor(len(slots), personCount)
	occ := make([]models.Occurrence, 0, k*len(slots))
	for si, d := range slots {
		for seat := 0; seat < k; seat++ {
			occ = append(occ, models.Occurrence{
				Index:     len(occ),
				SlotIndex: si,
				Seat:      seat,
				Date:      d,
			})
		}
	}
	return occ, nil
}

// ReplicationFactor is ceil(people/slots); slots must be positive.
func ReplicationFactor(slots, people int) int {
	return (people + slots - 1) / slots
}
