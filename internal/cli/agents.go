package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hivemind-network/hivemind/internal/daemon"
	"github.com/hivemind-network/hivemind/internal/domain"
)

func init() {
	rootCmd.AddCommand(agentsCmd)
}

var agentsCmd = &cobra.Command{
	Use:     "agents",
	Aliases: []string{"roster"},
	Short:   "List the collective roster with current mastery",
	RunE:    runAgents,
}

func runAgents(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AGENT\tTIER\tCAPABILITIES\tMEAN MASTERY")
	for _, id := range domain.AgentIDs() {
		tier, _ := domain.TierOf(id)
		nodes, err := d.DB.ListCapabilitiesByAgent(id)
		if err != nil {
			return err
		}

		if len(nodes) == 0 {
			fmt.Fprintf(w, "%s\t%d %s\t-\t-\n", id, tier, domain.TierName(tier))
			continue
		}
		var sum float64
		for _, n := range nodes {
			sum += n.Mastery
		}
		fmt.Fprintf(w, "%s\t%d %s\t%d\t%.3f\n",
			id, tier, domain.TierName(tier), len(nodes), sum/float64(len(nodes)))
	}
	return w.Flush()
}
