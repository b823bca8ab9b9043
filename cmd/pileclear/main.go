package main

import (
	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/lox/pileclear/cmd/pileclear/shared"
	"github.com/lox/pileclear/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `help:"HCL configuration file" default:"pileclear.hcl" type:"path"`
	LogLevel string `help:"Override the configured log level"`
	JSON     bool   `help:"Log JSON lines instead of console output"`
	NoColor  bool   `help:"Disable colours"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" help:"Play games with the advisor choosing every move"`
	Advise  AdviseCmd        `cmd:"" help:"Recommend a move for a position"`
	Deck    DeckCmd          `cmd:"" help:"Print the deck"`
}

// load reads the configuration file and sets up logging from it.
func (g *Globals) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	logger, err := shared.SetupLogger(cfg.LogLevel, g.JSON)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pileclear"),
		kong.Description("Solver and move advisor for a two-player pile clearing card game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
