package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hivemind-network/hivemind/internal/daemon"
)

var reportOutput string

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the Markdown evolution report",
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	if reportOutput != "" {
		if err := d.Tracker.WriteReport(reportOutput); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", reportOutput)
		return nil
	}

	report, err := d.Tracker.Report()
	if err != nil {
		return err
	}
	fmt.Print(report)
	return nil
}
