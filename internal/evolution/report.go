package evolution

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hivemind-network/hivemind/internal/domain"
	"github.com/hivemind-network/hivemind/internal/stats"
)

// WriteReport renders the current evolution report as Markdown to path.
func (t *Tracker) WriteReport(path string) error {
	report, err := t.Report()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(report), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Report renders the evolution report as a Markdown string.
func (t *Tracker) Report() (string, error) {
	summaries, err := t.intel.TierSummaries()
	if err != nil {
		return "", fmt.Errorf("tier summaries: %w", err)
	}
	top, err := t.intel.TopCapabilities(5)
	if err != nil {
		return "", fmt.Errorf("top capabilities: %w", err)
	}
	weak, err := t.intel.WeakCapabilities(5)
	if err != nil {
		return "", fmt.Errorf("weak capabilities: %w", err)
	}
	recs, err := t.intel.Recommendations()
	if err != nil {
		return "", fmt.Errorf("recommendations: %w", err)
	}
	history := t.History()

	var b strings.Builder
	fmt.Fprintf(&b, "# Collective Evolution Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", t.now().UTC().Format(time.RFC3339))

	// ─── Headline figures ──────────────────────────────────────────
	b.WriteString("## Collective Health\n\n")
	if len(history) == 0 {
		b.WriteString("No snapshots recorded yet.\n\n")
	} else {
		latest := history[len(history)-1]
		fmt.Fprintf(&b, "- Health: **%.3f**\n", latest.CollectiveHealth)
		fmt.Fprintf(&b, "- Velocity: %+.3f vs previous snapshot\n", latest.Velocity)

		var w stats.Welford
		for _, snap := range history {
			w.Add(snap.CollectiveHealth)
		}
		fmt.Fprintf(&b, "- Stability: σ=%.3f over %d snapshots\n\n", w.Stddev(), w.Count)
	}

	// ─── Tier health ───────────────────────────────────────────────
	b.WriteString("## Tier Health\n\n")
	b.WriteString("| Tier | Name | Agents | Mean | Min | Max | Variance |\n")
	b.WriteString("|-----:|------|-------:|-----:|----:|----:|---------:|\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "| %d | %s | %d | %.3f | %.3f | %.3f | %.4f |\n",
			s.Tier, s.Name, s.Agents, s.Mean, s.Min, s.Max, s.Variance)
	}
	b.WriteString("\n")

	// ─── Capability extremes ───────────────────────────────────────
	writeCapabilityList(&b, "## Strongest Capabilities", top)
	writeCapabilityList(&b, "## Weakest Capabilities", weak)

	// ─── Recommendations ───────────────────────────────────────────
	b.WriteString("## Recommendations\n\n")
	if len(recs) == 0 {
		b.WriteString("None.\n")
	}
	for _, r := range recs {
		fmt.Fprintf(&b, "- **%s** [%s] %s — %s\n", r.Priority, r.Category, r.Subject, r.Action)
	}

	return b.String(), nil
}

func writeCapabilityList(b *strings.Builder, heading string, nodes []domain.CapabilityNode) {
	fmt.Fprintf(b, "%s\n\n", heading)
	if len(nodes) == 0 {
		b.WriteString("No observations yet.\n\n")
		return
	}
	for _, n := range nodes {
		fmt.Fprintf(b, "- `%s` %s: mastery %.3f (%d/%d, trend %+.3f)\n",
			n.AgentID, n.Capability, n.Mastery, n.SuccessCount, n.TestCount, n.Trend)
	}
	b.WriteString("\n")
}
