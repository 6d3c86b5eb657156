package models

import "time"

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Person represents one roster entry. People are identified by their
// position in the roster, names need not be unique.
type Person struct {
	Name       string    `json:"name"`
	AnchorDate time.Time `json:"anchor_date"`
}

// HolidayRule is a (day, month) pair excluded every year
type HolidayRule struct {
	Day   int        `json:"day"`
	Month time.Month `json:"month"`
}

// Window bounds slot generation. Both ends are calendar dates and End is
// reachable by the weekly stepping.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ISOWeekday numbers weekdays 1 (Monday) through 7 (Sunday)
type ISOWeekday int

const (
	Monday ISOWeekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Valid reports whether w is within 1..7
func (w ISOWeekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// ISOWeekdayOf returns the ISO weekday of t
func ISOWeekdayOf(t time.Time) ISOWeekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return ISOWeekday(wd)
}

// Occurrence is one bookable seat at a slot. Repeats of the same slot share
// SlotIndex and Date and are adjacent in the occurrence list.
type Occurrence struct {
	Index     int       `json:"index"`
	SlotIndex int       `json:"slot_index"`
	Seat      int       `json:"seat"`
	Date      time.Time `json:"date"`
}

// Assignment pairs a person (row) with an occurrence (column)
type Assignment struct {
	PersonIndex     int   `json:"person_index"`
	OccurrenceIndex int   `json:"occurrence_index"`
	Cost            int64 `json:"cost"`
}

// ScheduleEntry is one line of the produced schedule
type ScheduleEntry struct {
	OccurrenceIndex int       `json:"occurrence_index"`
	MeetingDate     time.Time `json:"meeting_date"`
	PersonIndex     int       `json:"person_index"`
	Name            string    `json:"name"`
	AnchorDate      time.Time `json:"anchor_date"`
	Days            int64     `json:"days"`
}

// Stats summarises how far people ended up from their anchor dates
type Stats struct {
	MeanDays      float64 `json:"mean_days"`
	MaxDays       int64   `json:"max_days"`
	StdDevDays    float64 `json:"stddev_days"`
	FairnessScore float64 `json:"fairness_score"`
}

// PersonInput is the JSON form of a roster entry
type PersonInput struct {
	Name       string `json:"name" binding:"required"`
	AnchorDate string `json:"anchor_date" binding:"required"`
}

// ScheduleInput is the data structure for the scheduling endpoint
type ScheduleInput struct {
	People   []PersonInput `json:"people"`
	Start    string        `json:"start" binding:"required"`
	End      string        `json:"end" binding:"required"`
	Weekday  string        `json:"weekday"`
	Holidays []string      `json:"holidays"`
}

// ScheduleResponse is the data structure for the scheduling result
type ScheduleResponse struct {
	Schedule    []ScheduleEntry `json:"schedule"`
	Slots       []string        `json:"slots"`
	Replication int             `json:"replication"`
	Occurrences int             `json:"occurrences"`
	TotalCost   int64           `json:"total_cost"`
	Stats       Stats           `json:"stats"`
}

// ValidationResult reports the shape of a run without solving it
type ValidationResult struct {
	Valid       bool   `json:"valid"`
	Error       string `json:"error,omitempty"`
	People      int    `json:"people"`
	Slots       int    `json:"slots"`
	Replication int    `json:"replication"`
	Occurrences int    `json:"occurrences"`
}

// DateOf truncates t to midnight UTC of its calendar date
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date at midnight UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
