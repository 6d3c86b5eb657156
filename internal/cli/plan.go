package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arnavshah/rota-api-go/internal/logger"
	"github.com/arnavshah/rota-api-go/pkg/models"
	"github.com/arnavshah/rota-api-go/pkg/roster"
	"github.com/arnavshah/rota-api-go/pkg/scheduler"
)

type planFlags struct {
	window     windowFlags
	rosterPath string
	outPath    string
	format     string
	encoding   string
	delimiter  string
	seasonYear int
	hasHeader  bool
	keepYear   bool
}

var planOpts planFlags

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Assign every roster entry to a meeting date",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	planOpts.window.register(planCmd)
	f.StringVar(&planOpts.rosterPath, "roster", "", "roster file: one 'name;anchor' record per line")
	f.StringVar(&planOpts.outPath, "out", "", "output file, stdout when empty")
	f.StringVar(&planOpts.format, "format", "", "csv, ics or json, inferred from --out when empty")
	f.StringVar(&planOpts.encoding, "encoding", "", "roster text encoding (utf-8, windows-1250, ...)")
	f.StringVar(&planOpts.delimiter, "delimiter", "", "roster and CSV output field delimiter")
	f.IntVar(&planOpts.seasonYear, "season-year", 0, "year the season starts in, default derived from the window start")
	f.BoolVar(&planOpts.hasHeader, "has-header", false, "skip the first roster line")
	f.BoolVar(&planOpts.keepYear, "keep-year", false, "use full roster dates as written instead of moving them into the season")
	_ = planCmd.MarkFlagRequired("roster")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logger.New("plan")

	window, weekday, holidays, err := planOpts.window.resolve(cmd, time.Now())
	if err != nil {
		return err
	}

	format, err := outputFormat(planOpts.format, planOpts.outPath)
	if err != nil {
		return err
	}

	delim := cfg.Schedule.DelimiterRune()
	if d := []rune(planOpts.delimiter); len(d) == 1 {
		delim = d[0]
	} else if planOpts.delimiter != "" {
		return fmt.Errorf("delimiter must be a single character, got %q", planOpts.delimiter)
	}

	opts := roster.ReaderOptions{
		Delimiter:    delim,
		Encoding:     cfg.Schedule.Encoding,
		HasHeader:    cfg.Schedule.HasHeader || planOpts.hasHeader,
		SeasonYear:   roster.SeasonYearOf(window.Start, time.Month(cfg.Schedule.CutoverMonth)),
		CutoverMonth: time.Month(cfg.Schedule.CutoverMonth),
		KeepYear:     planOpts.keepYear,
	}
	if planOpts.encoding != "" {
		opts.Encoding = planOpts.encoding
	}
	if planOpts.seasonYear != 0 {
		opts.SeasonYear = planOpts.seasonYear
	}

	in, err := os.Open(planOpts.rosterPath)
	if err != nil {
		return err
	}
	defer in.Close()
	people, err := roster.NewReader(opts).Read(in)
	if err != nil {
		return fmt.Errorf("%s: %w", planOpts.rosterPath, err)
	}
	log.Debugf("read %d people from %s", len(people), planOpts.rosterPath)

	plan, err := scheduler.NewScheduler(people, window, holidays, weekday).Plan()
	if err != nil {
		return err
	}
	log.Debugf("%d slots, replication %d, %d occurrences",
		len(plan.Slots), plan.Replication, len(plan.Occurrences))

	if err := writeSchedule(planOpts.outPath, format, plan.Schedule, delim, cmd.OutOrStdout()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "potential: %d\n", plan.Solution.Total)
	fmt.Fprintf(cmd.ErrOrStderr(), "mean %.1f days, max %d days, stddev %.1f, fairness %.1f\n",
		plan.Stats.MeanDays, plan.Stats.MaxDays, plan.Stats.StdDevDays, plan.Stats.FairnessScore)
	return nil
}

// outputFormat picks the writer from an explicit format or the output
// file extension, falling back to csv.
func outputFormat(explicit, outPath string) (string, error) {
	f := strings.ToLower(explicit)
	if f == "" {
		switch strings.ToLower(filepath.Ext(outPath)) {
		case ".ics", ".ical":
			f = "ics"
		case ".json":
			f = "json"
		default:
			f = "csv"
		}
	}
	switch f {
	case "csv", "ics", "json":
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", explicit)
}

func encode(w io.Writer, format string, entries []models.ScheduleEntry, delim rune) error {
	switch format {
	case "ics":
		return roster.WriteICS(w, entries, roster.ICSOptions{})
	case "json":
		return roster.WriteJSON(w, entries)
	default:
		return roster.WriteCSV(w, entries, delim)
	}
}

// writeSchedule writes to stdout when path is empty. Files are written to a
// temporary sibling and renamed, so a failed run leaves no partial output.
func writeSchedule(path, format string, entries []models.ScheduleEntry, delim rune, stdout io.Writer) error {
	if path == "" {
		return encode(stdout, format, entries, delim)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, format, entries, delim); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
