package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/findosh/fundsim/internal/models"
	"github.com/findosh/fundsim/internal/report"
	"github.com/findosh/fundsim/internal/services/catalog"
	"github.com/google/subcommands"
)

// fundsCmd holds the flags for the 'funds' subcommand.
type fundsCmd struct {
	query    string
	fundType string
	sort     string
	limit    int
	file     string
}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "list or search the fund catalog" }
func (*fundsCmd) Usage() string {
	return `fundsim funds [-q <text>] [-type <type>] [-sort name|return|volatility|assets] [-file <catalog>]

  Lists catalog funds whose name or manager contains the text, ignoring case
  and accents.
`
}

func (c *fundsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "Text to search in fund names and managers")
	f.StringVar(&c.fundType, "type", "", "Only list funds of this type (Actions, Monétaire, Diversifié, Obligataire, OMLT, OCT)")
	f.StringVar(&c.sort, "sort", "", "Sort order: name, return, volatility or assets")
	f.IntVar(&c.limit, "n", 0, "Maximum number of funds to list")
	f.StringVar(&c.file, "file", "", "Read the catalog from this file instead of the database")
}

func (c *fundsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := setup()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	filter := catalog.Filter{Query: c.query, Sort: catalog.SortBy(c.sort), Limit: c.limit}
	if !filter.Sort.IsValid() {
		fail("unknown sort order %q", c.sort)
		return subcommands.ExitUsageError
	}
	if c.fundType != "" {
		if filter.Type, err = models.ParseFundType(c.fundType); err != nil {
			fail("%v", err)
			return subcommands.ExitUsageError
		}
	}

	cat, err := loadCatalog(cfg, c.file)
	if err != nil {
		fail("loading catalog: %v", err)
		return subcommands.ExitFailure
	}

	funds := cat.Search(filter)

	var b strings.Builder
	fmt.Fprintf(&b, "# Funds (%d)\n\n", len(funds))
	if len(funds) == 0 {
		b.WriteString("No fund matches.\n")
	} else {
		b.WriteString("| ID | Name | Type | Manager | Return | Volatility | Risk | Minimum |\n")
		b.WriteString("|---|---|---|---|---:|---:|---|---:|\n")
		for _, fd := range funds {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
				fd.ID, fd.Name, fd.Type.DisplayName(), fd.Manager,
				report.FormatPercent(fd.ExpectedReturn, true),
				report.FormatPercent(fd.Volatility, false),
				report.RiskLevelOf(fd.Volatility),
				report.FormatMoney(fd.MinInvestment.InexactFloat64(), cfg.Currency),
			)
		}
	}

	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
