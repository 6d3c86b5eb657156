package roster

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

// CSVHeader names the schedule columns
var CSVHeader = []string{"meeting", "name", "anchor", "days"}

// WriteCSV writes one row per entry in schedule order
func WriteCSV(w io.Writer, entries []models.ScheduleEntry, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{
			e.MeetingDate.Format(models.DateLayout),
			e.Name,
			e.AnchorDate.Format(models.DateLayout),
			strconv.FormatInt(e.Days, 10),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the entries as an indented JSON array
func WriteJSON(w io.Writer, entries []models.ScheduleEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// ICSOptions customises the calendar export
type ICSOptions struct {
	ProductID string
	// SummaryFormat receives the person's name, e.g. "Birthday meeting: %s"
	SummaryFormat string
}

var icsNamespace = uuid.MustParse("6f1c2a8e-3c1d-4b7e-9a55-0d8e2f1b7c40")

// WriteICS writes one all-day event per entry. UIDs and timestamps derive
// from the entry itself so identical schedules serialise identically.
func WriteICS(w io.Writer, entries []models.ScheduleEntry, opts ICSOptions) error {
	if opts.ProductID == "" {
		opts.ProductID = "-//rota-api-go//schedule//EN"
	}
	if opts.SummaryFormat == "" {
		opts.SummaryFormat = "%s"
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(opts.ProductID)

	for _, e := range entries {
		key := fmt.Sprintf("%d|%s|%s", e.OccurrenceIndex, e.MeetingDate.Format(models.DateLayout), e.Name)
		ev := cal.AddEvent(uuid.NewSHA1(icsNamespace, []byte(key)).String())
		ev.SetDtStampTime(e.MeetingDate)
		ev.SetAllDayStartAt(e.MeetingDate)
		ev.SetAllDayEndAt(e.MeetingDate.AddDate(0, 0, 1))
		ev.SetSummary(fmt.Sprintf(opts.SummaryFormat, e.Name))
		ev.SetDescription(fmt.Sprintf("Anchor date %s, %d day(s) away",
			e.AnchorDate.Format(models.DateLayout), e.Days))
	}
	return cal.SerializeTo(w)
}
