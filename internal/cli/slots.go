package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arnavshah/rota-api-go/pkg/calendar"
	"github.com/arnavshah/rota-api-go/pkg/models"
)

var (
	slotsWindow windowFlags
	slotsPeople int
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List the eligible meeting dates of a window",
	Args:  cobra.NoArgs,
	RunE:  runSlots,
}

func init() {
	slotsWindow.register(slotsCmd)
	slotsCmd.Flags().IntVar(&slotsPeople, "people", 0, "roster size, to report the replication factor")
	rootCmd.AddCommand(slotsCmd)
}

func runSlots(cmd *cobra.Command, args []string) error {
	window, weekday, holidays, err := slotsWindow.resolve(cmd, time.Now())
	if err != nil {
		return err
	}
	slots, err := calendar.GenerateSlots(window, holidays, weekday)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, s := range slots {
		fmt.Fprintln(out, s.Format(models.DateLayout))
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d slots from %s to %s\n",
		len(slots), window.Start.Format(models.DateLayout), window.End.Format(models.DateLayout))
	if slotsPeople > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "replication %d for %d people\n",
			calendar.ReplicationFactor(len(slots), slotsPeople), slotsPeople)
	}
	return nil
}
