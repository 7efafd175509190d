package main

import (
	"os"

	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Table   TableCmd         `cmd:"" help:"Show known cards, unknown slots and the remaining deck"`
	Search  SearchCmd        `cmd:"" help:"Find boards consistent with every player's sentiment"`
	Check   CheckCmd         `cmd:"" help:"Check a single board against the players"`
	Rank    RankCmd          `cmd:"" help:"Rank a 5 to 7 card hand"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("rivers"),
		kong.Description("Infer which river boards agree with what players said about their hands"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	cli.Globals.stdout = os.Stdout
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
