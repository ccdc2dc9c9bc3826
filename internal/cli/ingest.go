package cli

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hivemind-network/hivemind/internal/daemon"
	"github.com/hivemind-network/hivemind/internal/domain"
)

var (
	ingestCapabilities []string
	ingestInsights     []string
)

func init() {
	ingestCmd.Flags().StringArrayVarP(&ingestCapabilities, "capability", "c", nil, "capability exercised (repeatable)")
	ingestCmd.Flags().StringArrayVarP(&ingestInsights, "insight", "i", nil, "free-form insight (repeatable)")
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <agent-id> <pass-rate>",
	Short: "Record a learning observation for an agent",
	Example: `  hivemind ingest SYNAPSE-13 0.9 -c rest_api
  hivemind ingest CIPHER-02 0.75 -c algorithms -c data_structures -i "struggled with recursion"`,
	Args: cobra.ExactArgs(2),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	agentID := args[0]
	passRate, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parse pass rate %q: %w", args[1], err)
	}

	tier, err := domain.TierOf(agentID)
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrUnknownAgent, agentID)
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	rec := domain.LearningRecord{
		ID:           uuid.New().String(),
		AgentID:      agentID,
		PassRate:     passRate,
		Tier:         tier,
		Capabilities: ingestCapabilities,
		Insights:     ingestInsights,
	}

	updated, err := d.DB.RecordLearning(rec)
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %s (pass rate %.2f)\n", rec.ID[:8], passRate)
	for _, node := range updated {
		fmt.Printf("  %s: mastery %.3f (%d/%d, trend %+.3f)\n",
			node.Capability, node.Mastery, node.SuccessCount, node.TestCount, node.Trend)
	}
	return nil
}
