// fundsim explores the fund catalog and runs portfolio simulations from the terminal
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&fundsCmd{}, "catalog")
	commander.Register(&importCmd{}, "catalog")
	commander.Register(&simulateCmd{}, "simulation")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
