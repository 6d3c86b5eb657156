// Package scheduler assigns every person on a roster to one meeting seat so
// that the summed distance between anchor dates and meeting dates is minimal.
package scheduler

import (
	"math"
	"time"

	"github.com/arnavshah/rota-api-go/pkg/calendar"
	"github.com/arnavshah/rota-api-go/pkg/models"
)

// Scheduler holds the inputs of one run. It does not mutate them.
type Scheduler struct {
	People   []models.Person
	Window   models.Window
	Holidays []models.HolidayRule
	Weekday  models.ISOWeekday
}

// Plan is the outcome of a successful run
type Plan struct {
	Slots       []time.Time
	Occurrences []models.Occurrence
	Replication int
	Matrix      Matrix
	Solution    Solution
	Schedule    []models.ScheduleEntry
	Stats       models.Stats
}

// NewScheduler creates a new scheduler instance
func NewScheduler(people []models.Person, window models.Window, holidays []models.HolidayRule, weekday models.ISOWeekday) *Scheduler {
	return &Scheduler{
		People:   people,
		Window:   window,
		Holidays: holidays,
		Weekday:  weekday,
	}
}

// Occurrences runs slot generation and expansion only
func (s *Scheduler) Occurrences() ([]time.Time, []models.Occurrence, error) {
	slots, err := calendar.GenerateSlots(s.Window, s.Holidays, s.Weekday)
	if err != nil {
		return nil, nil, err
	}
	occ, err := calendar.Expand(slots, len(s.People))
	if err != nil {
		return nil, nil, err
	}
	return slots, occ, nil
}

// Plan runs the full pipeline. Any error aborts the run without a partial
// schedule.
func (s *Scheduler) Plan() (*Plan, error) {
	slots, occ, err := s.Occurrences()
	if err != nil {
		return nil, err
	}

	m := BuildMatrix(s.People, occ)
	sol, err := Solve(m)
	if err != nil {
		return nil, err
	}
	entries, err := Project(sol, s.People, occ)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Slots:       slots,
		Occurrences: occ,
		Replication: calendar.ReplicationFactor(len(slots), len(s.People)),
		Matrix:      m,
		Solution:    sol,
		Schedule:    entries,
		Stats:       CalculateStats(entries),
	}, nil
}

// CalculateStats summarises day distances. FairnessScore is 100 when every
// person is equally far from their anchor date and drops towards 0 as the
// standard deviation approaches the mean.
func CalculateStats(entries []models.ScheduleEntry) models.Stats {
	if len(entries) == 0 {
		return models.Stats{FairnessScore: 100}
	}

	var sum float64
	var maxDays int64
	for _, e := range entries {
		sum += float64(e.Days)
		if e.Days > maxDays {
			maxDays = e.Days
		}
	}
	mean := sum / float64(len(entries))

	var varianceSum float64
	for _, e := range entries {
		diff := float64(e.Days) - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(entries)))

	st := models.Stats{MeanDays: mean, MaxDays: maxDays, StdDevDays: stdDev, FairnessScore: 100}
	if mean > 0 {
		st.FairnessScore = math.Max(0, (1.0-stdDev/mean)*100.0)
	}
	return st
}
