// Package cli implements the rota command line tool.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arnavshah/rota-api-go/internal/config"
	"github.com/arnavshah/rota-api-go/internal/logger"
	"github.com/arnavshah/rota-api-go/pkg/calendar"
	"github.com/arnavshah/rota-api-go/pkg/models"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "rota",
	Short:        "Plan a fair meeting rota from a roster of anchor dates",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		logger.Configure(logger.Options{Level: cfg.Logging.Level, Format: "console"})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// windowFlags are shared by every command that generates slots
type windowFlags struct {
	start    string
	end      string
	weekday  string
	holidays []string
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "first day of the window (YYYY-MM-DD), default 1 October of the current season")
	cmd.Flags().StringVar(&f.end, "end", "", "last day of the window (YYYY-MM-DD), default 25 June after start")
	cmd.Flags().StringVar(&f.weekday, "weekday", "", "meeting weekday (name or 1-7, Monday=1)")
	cmd.Flags().StringSliceVar(&f.holidays, "holiday", nil, "excluded day as DD.MM, repeatable")
}

// resolve fills the window, weekday and holiday rules, using config values
// for anything not given on the command line.
func (f *windowFlags) resolve(cmd *cobra.Command, now time.Time) (models.Window, models.ISOWeekday, []models.HolidayRule, error) {
	w := DefaultSeason(now)
	if f.start != "" {
		s, err := models.ParseDate(f.start)
		if err != nil {
			return w, 0, nil, fmt.Errorf("%w: start %q is not YYYY-MM-DD", calendar.ErrInvalidWindow, f.start)
		}
		w = DefaultSeason(s)
		w.Start = s
		if w.End.Before(s) {
			// late June and July start the next season early
			w.End = w.End.AddDate(1, 0, 0)
		}
	}
	if f.end != "" {
		e, err := models.ParseDate(f.end)
		if err != nil {
			return w, 0, nil, fmt.Errorf("%w: end %q is not YYYY-MM-DD", calendar.ErrInvalidWindow, f.end)
		}
		w.End = e
	}

	weekday := f.weekday
	if weekday == "" {
		weekday = cfg.Schedule.Weekday
	}
	wd, err := calendar.ParseWeekday(weekday)
	if err != nil {
		return w, 0, nil, err
	}

	raw := cfg.Schedule.Holidays
	if cmd.Flags().Changed("holiday") {
		raw = f.holidays
	}
	rules, err := calendar.ParseHolidays(raw)
	if err != nil {
		return w, 0, nil, err
	}
	return w, wd, rules, nil
}

// DefaultSeason returns the season containing t: 1 October to 25 June of
// the following year. Dates before August belong to the season that
// started the previous October.
func DefaultSeason(t time.Time) models.Window {
	year := t.Year()
	if t.Month() < time.August {
		year--
	}
	return models.Window{
		Start: time.Date(year, time.October, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year+1, time.June, 25, 0, 0, 0, 0, time.UTC),
	}
}
