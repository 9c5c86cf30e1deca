package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/findosh/fundsim/internal/models"
	"github.com/findosh/fundsim/internal/report"
	"github.com/findosh/fundsim/internal/services/catalog"
	"github.com/findosh/fundsim/internal/services/simulation"
	"github.com/google/subcommands"
)

// simulateCmd holds the flags for the 'simulate' subcommand.
type simulateCmd struct {
	amount string
	years  string
	file   string
	chart  string
	raw    bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "simulate a portfolio of catalog funds" }
func (*simulateCmd) Usage() string {
	return `fundsim simulate [-amount <n>] [-years 1,3,5] [-chart out.png] <id>[=<allocation>] ...

  Builds a portfolio from catalog fund IDs and prints its expected return,
  volatility, drawdown estimate and projections.

  A bare ID adds the fund with 10% (repeat it to add 10% more). ID=ALLOC sets
  the allocation in percent.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Total amount to invest (defaults to the configured amount)")
	f.StringVar(&c.years, "years", "", "Comma separated projection horizons in years (defaults to the configured horizons)")
	f.StringVar(&c.file, "file", "", "Read the catalog from this file instead of the database")
	f.StringVar(&c.chart, "chart", "", "Write the projection chart to this PNG file")
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown")
}

// step is one portfolio operation parsed from the command line
type step struct {
	fundID     string
	allocation *float64
}

func parseSteps(args []string) ([]step, error) {
	steps := make([]step, 0, len(args))
	for _, arg := range args {
		id, alloc, found := strings.Cut(arg, "=")
		if id == "" {
			return nil, fmt.Errorf("invalid fund %q", arg)
		}
		s := step{fundID: id}
		if found {
			v, err := strconv.ParseFloat(alloc, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid allocation in %q", arg)
			}
			s.allocation = &v
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// apply replays steps on p. A fund given with an allocation is added first
// when it is not in the portfolio yet.
func apply(p *models.Portfolio, cat *catalog.Catalog, steps []step) error {
	for _, s := range steps {
		fund, ok := cat.Summary(s.fundID)
		if !ok {
			return fmt.Errorf("unknown fund %q", s.fundID)
		}
		if s.allocation == nil {
			p.AddFund(fund)
			continue
		}
		if !p.Contains(s.fundID) {
			p.AddFund(fund)
		}
		p.UpdateAllocation(s.fundID, *s.allocation)
	}
	return nil
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	cfg, err := setup()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	amount := cfg.DefaultInvestment
	if c.amount != "" {
		if amount, err = strconv.ParseFloat(c.amount, 64); err != nil {
			fail("invalid amount %q", c.amount)
			return subcommands.ExitUsageError
		}
	}

	years := cfg.Horizons
	if c.years != "" {
		if years, err = parseYears(c.years); err != nil {
			fail("%v", err)
			return subcommands.ExitUsageError
		}
	}

	steps, err := parseSteps(f.Args())
	if err != nil {
		fail("%v", err)
		return subcommands.ExitUsageError
	}

	cat, err := loadCatalog(cfg, c.file)
	if err != nil {
		fail("loading catalog: %v", err)
		return subcommands.ExitFailure
	}

	svc, err := simulation.NewService(years...)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitUsageError
	}

	p := models.NewPortfolio(amount)
	if err := apply(p, cat, steps); err != nil {
		fail("%v", err)
		return subcommands.ExitUsageError
	}
	m := svc.Calculate(p)

	var b strings.Builder
	if err := report.Markdown(&b, p, m, cfg.Currency); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	if c.raw {
		fmt.Print(b.String())
	} else {
		printMarkdown(b.String())
	}

	if c.chart != "" {
		data, err := report.ProjectionChart(m)
		if err != nil {
			fail("rendering chart: %v", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(c.chart, data, 0o644); err != nil {
			fail("writing chart: %v", err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}
