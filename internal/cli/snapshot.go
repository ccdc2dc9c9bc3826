package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hivemind-network/hivemind/internal/daemon"
	"github.com/hivemind-network/hivemind/internal/domain"
)

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Take an evolution snapshot of collective health",
	RunE:  runSnapshot,
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	snap, err := d.Tracker.TakeSnapshot()
	if err != nil {
		return err
	}

	fmt.Printf("Collective health: %.3f (velocity %+.3f)\n", snap.CollectiveHealth, snap.Velocity)

	tiers := make([]int, 0, len(snap.TierHealth))
	for tier := range snap.TierHealth {
		tiers = append(tiers, tier)
	}
	sort.Ints(tiers)
	for _, tier := range tiers {
		fmt.Printf("  Tier %d %s: %.3f\n", tier, domain.TierName(tier), snap.TierHealth[tier])
	}
	return nil
}
