package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Server   ServerCmd        `cmd:"" help:"Run the Wolf Goat Pig game server"`
	Play     PlayCmd          `cmd:"" help:"Play a hotseat round in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Run randomized rounds and report wager statistics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("wolfgoatpig"),
		kong.Description("Wolf Goat Pig golf wagering engine and server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
