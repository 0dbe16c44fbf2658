package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tubedraw/internal/balance"
	"tubedraw/internal/montecarlo"
	"tubedraw/internal/sim"
	"tubedraw/internal/tube"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(22)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func line(label, format string, args ...any) string {
	return labelStyle.Render(label) + fmt.Sprintf(format, args...) + "\n"
}

func renderMetrics(m *sim.Metrics) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("=== BATCH RESULTS ===") + "\n")
	b.WriteString(line("Rounds", "%d", m.Rounds))
	b.WriteString(line("House net profit", "%d", m.HouseNetProfit))
	b.WriteString(line("House edge", "%.2f%% (%s)", m.HouseEdge*100, m.Health))
	b.WriteString(line("Player aggregate net", "%d", m.PlayerNet))
	b.WriteString(line("Edge volatility", "%.4f", m.Volatility))

	b.WriteString("\n" + headerStyle.Render("=== HOLD TYPES ===") + "\n")
	for _, id := range sortedKeys(m.Rules) {
		rm := m.Rules[id]
		status := ""
		if !rm.Enabled {
			status = criticalStyle.Render(" [disabled]")
		}
		b.WriteString(fmt.Sprintf("%-6s uses=%-7d win=%5.1f%% loss=%5.1f%% bust=%5.1f%% ev=%+.4f%s\n",
			id, rm.Usage, rm.WinPct*100, rm.LossPct*100, rm.BustPct*100, rm.EV, status))
	}

	b.WriteString("\n" + headerStyle.Render("=== TUBES ===") + "\n")
	for _, t := range tube.Types() {
		tm := m.Tubes[t]
		b.WriteString(fmt.Sprintf("%s  avg=%6.1f max=%-4d funded=%-6d paid=%-6d depletions=%-4d drain=%.2f\n",
			t, tm.AvgBalance, tm.MaxBalance, tm.TotalFunded, tm.TotalPaid, tm.Depletions, tm.DrainRate))
	}

	return b.String()
}

func renderBalanceResult(r *balance.Result) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("=== BALANCING RESULT ===") + "\n")
	b.WriteString(line("Iterations", "%d", r.Iterations))
	b.WriteString(line("Converged", "%t", r.Converged))
	b.WriteString(line("Best score", "%.4f", r.BestScore))
	if r.BestMetrics != nil {
		b.WriteString(line("Best edge", "%.2f%%", r.BestMetrics.HouseEdge*100))
	}
	b.WriteString(line("Bust multiplier", "%.3f", r.BestConfig.BustPenaltyMultiplier))
	b.WriteString(line("Refill amount", "%d", r.BestConfig.RefillAmount))
	for _, t := range tube.Types() {
		p := r.BestConfig.Tubes[t]
		b.WriteString(line("Tube "+t.String(), "initial=%d max=%d", p.Initial, p.Max))
	}

	if len(r.DisabledRules) > 0 {
		b.WriteString(criticalStyle.Render("Disabled rules: "+strings.Join(r.DisabledRules, ", ")) + "\n")
	}

	if len(r.Issues) > 0 {
		b.WriteString("\n" + headerStyle.Render("=== ISSUES ===") + "\n")
		for _, issue := range r.Issues {
			style := warnStyle
			if issue.Severity == "critical" {
				style = criticalStyle
			}
			b.WriteString(style.Render(fmt.Sprintf("[%s] %s: %s", issue.Severity, issue.Code, issue.Message)) + "\n")
		}
	}

	return b.String()
}

func renderMonteCarlo(s *montecarlo.Summary) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("=== MONTE CARLO ===") + "\n")
	b.WriteString(line("Runs", "%d x %d rounds", s.Runs, s.RoundsPerRun))
	b.WriteString(line("Mean edge", "%.4f%%", s.MeanEdge*100))
	b.WriteString(line("Std dev", "%.4f", s.StdDev))
	b.WriteString(line("Min / max edge", "%.4f%% / %.4f%%", s.MinEdge*100, s.MaxEdge*100))
	b.WriteString(line("95% CI", "[%.4f%%, %.4f%%]", s.CI95Low*100, s.CI95High*100))
	if s.Stable {
		b.WriteString(line("Stability", "stable (stddev < %.2f)", montecarlo.StableStdDev))
	} else {
		b.WriteString(warnStyle.Render(labelStyle.Render("Stability")+"unstable") + "\n")
	}

	return b.String()
}

func sortedKeys(m map[string]sim.RuleMetrics) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
