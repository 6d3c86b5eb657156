// Package roster reads people from delimited text and writes finished
// schedules as CSV, iCalendar or JSON.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

var ErrMalformedRoster = errors.New("malformed roster")

// DefaultCutoverMonth splits a season: day-month dates before August belong
// to the second year of the season.
const DefaultCutoverMonth = time.August

var fullDateLayouts = []string{"2006-01-02", "02.01.2006", "2.1.2006", "02/01/2006"}

var dayMonthPattern = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})\.?$`)

// ReaderOptions controls how a roster file is decoded
type ReaderOptions struct {
	Delimiter rune
	Encoding  string // any WHATWG label, e.g. "utf-8" or "windows-1250"
	HasHeader bool

	// SeasonYear is the year the season starts in. Dates given without a
	// year are placed in SeasonYear, or SeasonYear+1 before CutoverMonth.
	SeasonYear   int
	CutoverMonth time.Month

	// KeepYear uses full dates as written. By default only their day and
	// month are kept and the year comes from the season, so birth dates
	// such as 15.03.1995 land in the planned season.
	KeepYear bool
}

// SeasonYearOf returns the year in which the season containing t started.
func SeasonYearOf(t time.Time, cutover time.Month) int {
	if cutover == 0 {
		cutover = DefaultCutoverMonth
	}
	if t.Month() < cutover {
		return t.Year() - 1
	}
	return t.Year()
}

// Reader parses roster records of the form name;date
type Reader struct {
	opts ReaderOptions
}

// NewReader fills in defaults for zero-valued options
func NewReader(opts ReaderOptions) *Reader {
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}
	if opts.Encoding == "" {
		opts.Encoding = "utf-8"
	}
	if opts.CutoverMonth == 0 {
		opts.CutoverMonth = DefaultCutoverMonth
	}
	if opts.SeasonYear == 0 {
		opts.SeasonYear = SeasonYearOf(time.Now(), opts.CutoverMonth)
	}
	return &Reader{opts: opts}
}

func (r *Reader) decoder(in io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(r.opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrMalformedRoster, r.opts.Encoding)
	}
	return transform.NewReader(in, unicode.BOMOverride(enc.NewDecoder())), nil
}

// Read returns the people in file order. The first malformed record fails
// the whole read.
func (r *Reader) Read(in io.Reader) ([]models.Person, error) {
	dec, err := r.decoder(in)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(dec)
	cr.Comma = r.opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var people []models.Person
	for first := true; ; first = false {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRoster, err)
		}
		if first && r.opts.HasHeader {
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d: want name and date, got %d field(s)", ErrMalformedRoster, line, len(record))
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, fmt.Errorf("%w: line %d: empty name", ErrMalformedRoster, line)
		}
		anchor, err := r.ParseDate(record[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		people = append(people, models.Person{Name: name, AnchorDate: anchor})
	}
	return people, nil
}

// ParseDate accepts a full date or a day-month pair. The year of a
// day-month pair, and of a full date unless KeepYear is set, is inferred
// from the season.
func (r *Reader) ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range fullDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			if r.opts.KeepYear {
				return t, nil
			}
			return r.inSeason(raw, t.Day(), t.Month())
		}
	}

	m := dayMonthPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: date %q, want YYYY-MM-DD, DD.MM.YYYY or DD.MM.", ErrMalformedRoster, raw)
	}
	day, _ := strconv.Atoi(m[1])
	mon, _ := strconv.Atoi(m[2])
	month := time.Month(mon)
	if month < time.January || month > time.December {
		return time.Time{}, fmt.Errorf("%w: date %q has month %d", ErrMalformedRoster, raw, month)
	}
	return r.inSeason(raw, day, month)
}

func (r *Reader) inSeason(raw string, day int, month time.Month) (time.Time, error) {
	year := r.opts.SeasonYear
	if month < r.opts.CutoverMonth {
		year++
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: date %q does not exist in %d", ErrMalformedRoster, raw, year)
	}
	return t, nil
}
