package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hivemind-network/hivemind/internal/daemon"
	"github.com/hivemind-network/hivemind/internal/scenario"
)

var (
	scenarioSeed       int64
	scenarioSeeded     bool
	scenarioComplexity int
	scenarioChallenge  string
	scenarioChaos      float64
)

func init() {
	scenarioCmd.Flags().Int64Var(&scenarioSeed, "seed", 0, "seed for reproducible generation")
	scenarioCmd.Flags().IntVar(&scenarioComplexity, "complexity", 0, "pin complexity level 1-5 (0 = random)")
	scenarioCmd.Flags().StringVar(&scenarioChallenge, "challenge", "", "pin challenge type (default random)")
	scenarioCmd.Flags().Float64Var(&scenarioChaos, "chaos", -1, "chaos probability multiplier 0-1 (default from config)")
	rootCmd.AddCommand(scenarioCmd)
}

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Generate a randomized training scenario",
	Example: `  hivemind scenario
  hivemind scenario --seed 42 --complexity 4 --challenge incident_response`,
	RunE: runScenario,
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenarioSeeded = cmd.Flags().Changed("seed")

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	chaos := scenarioChaos
	if chaos < 0 {
		chaos = d.Config.Scenario.ChaosProbability
	}

	opts := scenario.Options{
		Complexity:       scenarioComplexity,
		Challenge:        scenarioChallenge,
		ChaosProbability: chaos,
	}
	if scenarioSeeded {
		opts.Seed = &scenarioSeed
	}

	sc, err := d.Engine.Generate(opts)
	if err != nil {
		return err
	}

	fmt.Printf("Scenario: %s (complexity %d/%s)\n", sc.Challenge, sc.Complexity.Level, sc.Complexity.Name)
	fmt.Printf("  %s\n", sc.Description)
	fmt.Printf("  Participants (%d): %s\n", len(sc.Participants), strings.Join(sc.Participants, ", "))
	if len(sc.ChaosEvents) == 0 {
		fmt.Println("  Chaos events: none")
	} else {
		fmt.Println("  Chaos events:")
		for _, ev := range sc.ChaosEvents {
			fmt.Printf("    - %s (%s)\n", ev.Name, ev.Severity)
		}
	}
	return nil
}
