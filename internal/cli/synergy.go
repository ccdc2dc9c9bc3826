package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hivemind-network/hivemind/internal/daemon"
)

func init() {
	rootCmd.AddCommand(synergyCmd)
}

var synergyCmd = &cobra.Command{
	Use:   "synergy [agent1 agent2 score]",
	Short: "Record a collaboration observation, or list all patterns",
	Long: `With three arguments, folds one synergy observation (0-1) into the
running mean for the agent pair. With no arguments, lists all known
collaboration patterns.`,
	Args: cobra.RangeArgs(0, 3),
	RunE: runSynergy,
}

func runSynergy(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	if len(args) == 0 {
		patterns, err := d.DB.ListCollaborations()
		if err != nil {
			return err
		}
		if len(patterns) == 0 {
			fmt.Println("No collaboration patterns recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PAIR\tSYNERGY\tPATTERN\tOBSERVATIONS")
		for _, p := range patterns {
			fmt.Fprintf(w, "%s + %s\t%.3f\t%s\t%d\n",
				p.Agent1, p.Agent2, p.Synergy, p.PatternType, p.DiscoveryCount)
		}
		return w.Flush()
	}

	if len(args) != 3 {
		return fmt.Errorf("expected either no arguments or <agent1> <agent2> <score>")
	}
	score, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("parse score %q: %w", args[2], err)
	}

	pattern, err := d.DB.ObserveCollaboration(args[0], args[1], score)
	if err != nil {
		return err
	}

	fmt.Printf("%s + %s: synergy %.3f (%s, %d observations)\n",
		pattern.Agent1, pattern.Agent2, pattern.Synergy, pattern.PatternType, pattern.DiscoveryCount)
	return nil
}
