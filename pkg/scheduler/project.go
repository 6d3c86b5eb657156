package scheduler

import (
	"fmt"
	"sort"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

// Project turns a solution into schedule entries ordered by occurrence
// index, which is chronological and keeps people sharing a meeting date
// together. Day distances are taken from the solution, not recomputed.
func Project(sol Solution, people []models.Person, occurrences []models.Occurrence) ([]models.ScheduleEntry, error) {
	entries := make([]models.ScheduleEntry, 0, len(sol.Pairs))
	for _, a := range sol.Pairs {
		if a.PersonIndex < 0 || a.PersonIndex >= len(people) {
			return nil, fmt.Errorf("assignment references person %d of %d", a.PersonIndex, len(people))
		}
		if a.OccurrenceIndex < 0 || a.OccurrenceIndex >= len(occurrences) {
			return nil, fmt.Errorf("assignment references occurrence %d of %d", a.OccurrenceIndex, len(occurrences))
		}
		p := people[a.PersonIndex]
		entries = append(entries, models.ScheduleEntry{
			OccurrenceIndex: a.OccurrenceIndex,
			MeetingDate:     occurrences[a.OccurrenceIndex].Date,
			PersonIndex:     a.PersonIndex,
			Name:            p.Name,
			AnchorDate:      p.AnchorDate,
			Days:            a.Cost,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurrenceIndex < entries[j].OccurrenceIndex
	})
	return entries, nil
}
