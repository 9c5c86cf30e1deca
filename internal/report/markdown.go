package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/findosh/fundsim/internal/models"
)

// Markdown writes the simulation summary of p as a markdown document
func Markdown(w io.Writer, p *models.Portfolio, m *models.DerivedMetrics, currency string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# Portfolio simulation")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "**Total investment:** %s\n\n", FormatMoney(m.TotalInvestment, currency))

	fmt.Fprintln(bw, "## Allocation")
	fmt.Fprintln(bw)
	entries := p.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(bw, "No funds selected.")
	} else {
		fmt.Fprintln(bw, "| Fund | Type | Return | Volatility | Allocation | Amount |")
		fmt.Fprintln(bw, "|---|---|---:|---:|---:|---:|")
		for i, e := range entries {
			amount := 0.0
			if i < len(m.Weights) {
				amount = m.Weights[i].Amount
			}
			fmt.Fprintf(bw, "| %s | %s | %s | %s | %s | %s |\n",
				escapeCell(e.Fund.Name),
				e.Fund.Type.DisplayName(),
				FormatPercent(e.Fund.ExpectedReturn, true),
				FormatPercent(e.Fund.Volatility, false),
				FormatPercent(e.Allocation, false),
				FormatMoney(amount, currency),
			)
		}
	}
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "**Total allocation:** %s (%s)\n\n", FormatPercent(m.TotalAllocation, false), m.AllocationStatus)

	fmt.Fprintln(bw, "## Metrics")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "- Expected return: %s\n", FormatPercent(m.ExpectedReturn, true))
	fmt.Fprintf(bw, "- Volatility: %s (%s risk)\n", FormatPercent(m.Volatility, false), RiskLevelOf(m.Volatility))
	fmt.Fprintf(bw, "- Max drawdown estimate: %s\n", FormatPercent(0-m.MaxDrawdownEstimate, false))
	fmt.Fprintln(bw)

	if len(m.Projections) > 0 {
		fmt.Fprintln(bw, "## Projections")
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "| Horizon | Pessimistic | Optimistic |")
		fmt.Fprintln(bw, "|---|---:|---:|")
		for _, pr := range m.Projections {
			fmt.Fprintf(bw, "| %s | %s | %s |\n", horizon(pr.Years), FormatMoney(pr.Pessimistic, currency), FormatMoney(pr.Optimistic, currency))
		}
		fmt.Fprintln(bw)
	}

	if len(m.Advisories) > 0 {
		fmt.Fprintln(bw, "## Advisories")
		fmt.Fprintln(bw)
		for _, a := range m.Advisories {
			fmt.Fprintf(bw, "- %s\n", a.Message)
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, "_Projections are simplified estimates that ignore correlation between funds. Past performance does not guarantee future results._")

	return bw.Flush()
}

func horizon(years int) string {
	if years == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", years)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
