package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// CLI is the liarsbar command line: one binary for the server, the player
// client and a health probe
type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Server  ServerCmd        `cmd:"" help:"Run the liar's bar server"`
	Client  ClientCmd        `cmd:"" help:"Connect as an interactive player"`
	Health  HealthCmd        `cmd:"" help:"Check that a server is up"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("liarsbar"),
		kong.Description("Multiplayer liar's bar card game: server and terminal client"),
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
