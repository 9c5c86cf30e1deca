package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/findosh/fundsim/internal/services/catalog"
	"github.com/findosh/fundsim/internal/storage"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "load a catalog file into the database" }
func (*importCmd) Usage() string {
	return `fundsim import -file <catalog.csv|json|yaml>

  Parses a catalog in the native layout or the ASFIM performance table
  layout and stores the valid funds. Rows that fail validation are reported
  and skipped.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Catalog file to import")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fail("-file is required")
		return subcommands.ExitUsageError
	}

	cfg, err := setup()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	db, err := openStore(cfg)
	if err != nil {
		fail("opening database: %v", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	result, err := catalog.NewService().Import(c.file, storage.NewFundRepository(db))
	if err != nil {
		fail("importing %s: %v", c.file, err)
		return subcommands.ExitFailure
	}

	if err := storage.NewImportRepository(db).Create(&storage.Import{
		Source:  result.Source,
		File:    c.file,
		Funds:   len(result.Funds),
		Skipped: len(result.Errors),
	}); err != nil {
		fail("recording import: %v", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d funds from %s (%s layout)\n", len(result.Funds), c.file, result.Source)
	for _, e := range result.Errors {
		fmt.Printf("  skipped %s\n", e)
	}
	return subcommands.ExitSuccess
}
