package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/rota-api-go/internal/config"
	"github.com/arnavshah/rota-api-go/pkg/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestDefaultSeason(t *testing.T) {
	cases := map[time.Time]models.Window{
		date(2018, 11, 26): {Start: date(2018, 10, 1), End: date(2019, 6, 25)},
		date(2019, 3, 4):   {Start: date(2018, 10, 1), End: date(2019, 6, 25)},
		date(2019, 8, 1):   {Start: date(2019, 10, 1), End: date(2020, 6, 25)},
	}
	for in, want := range cases {
		assert.Equal(t, want, DefaultSeason(in), in.String())
	}
}

func TestResolveStartWithoutEnd(t *testing.T) {
	cfg = &config.Config{Schedule: config.ScheduleConfig{Weekday: "monday"}}
	for start, wantEnd := range map[string]time.Time{
		"2018-11-26": date(2019, 6, 25),
		"2019-03-04": date(2019, 6, 25),
		"2020-07-15": date(2021, 6, 25),
		"2020-06-26": date(2021, 6, 25),
	} {
		f := windowFlags{start: start}
		w, _, _, err := f.resolve(slotsCmd, date(2020, 1, 1))
		require.NoError(t, err, start)
		assert.Equal(t, wantEnd, w.End, start)
		assert.False(t, w.End.Before(w.Start), start)
	}
}

func TestOutputFormat(t *testing.T) {
	for _, tc := range []struct {
		explicit, out, want string
	}{
		{"", "", "csv"},
		{"", "rota.ics", "ics"},
		{"", "ROTA.JSON", "json"},
		{"", "rota.txt", "csv"},
		{"json", "rota.csv", "json"},
	} {
		got, err := outputFormat(tc.explicit, tc.out)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc)
	}
	_, err := outputFormat("xml", "")
	assert.Error(t, err)
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "rota.yaml", "schedule:\n  weekday: monday\n")
	rosterFile := writeFile(t, dir, "roster.csv", "A;2020-01-10\nB;2020-06-20\n")
	outFile := filepath.Join(dir, "out.csv")

	_, stderr, err := execute(t, "plan", "--config", cfgFile,
		"--roster", rosterFile, "--out", outFile,
		"--start", "2020-01-06", "--end", "2020-01-20")
	require.NoError(t, err)
	assert.Contains(t, stderr, "potential: 155")

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "meeting;name;anchor;days\n2020-01-13;A;2020-01-10;3\n2020-01-20;B;2020-06-20;152\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "temporary output must not be left behind")
}

func TestPlanCommandLeavesNoOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "rota.yaml", "schedule:\n  weekday: monday\n")
	rosterFile := writeFile(t, dir, "roster.csv", "A;2020-01-10\n")
	outFile := filepath.Join(dir, "out.csv")

	_, _, err := execute(t, "plan", "--config", cfgFile,
		"--roster", rosterFile, "--out", outFile,
		"--start", "2020-01-07", "--end", "2020-01-08")
	require.Error(t, err)
	assert.NoFileExists(t, outFile)
}

func TestSlotsCommand(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "rota.yaml", "schedule:\n  weekday: monday\n")

	stdout, stderr, err := execute(t, "slots", "--config", cfgFile,
		"--start", "2018-12-17", "--end", "2018-12-31", "--holiday", "24.12", "--people", "3")
	require.NoError(t, err)
	assert.Equal(t, "2018-12-17\n2018-12-31\n", stdout)
	assert.Contains(t, stderr, "2 slots")
	assert.Contains(t, stderr, "replication 2 for 3 people")
}
