package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bmpedit/convert"
	"bmpedit/edit"
	"bmpedit/inspect"
	"bmpedit/palette"
	"bmpedit/parallel"
	"bmpedit/recipe"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Workers   int    `help:"Number of parallel workers, 0 uses every CPU" default:"0" short:"w"`
	LogLevel  string `help:"Minimum level of logged records" enum:"debug,info,warn,error" default:"info"`
	LogFormat string `help:"Format of logged records" enum:"text,json" default:"text"`

	Convert convert.CLICmd `cmd:"" help:"Convert the images of a folder to bitmaps"`
	Edit    edit.CLICmd    `cmd:"" help:"Edit a single bitmap"`
	Inspect inspect.CLICmd `cmd:"" help:"Show what is inside bitmap files"`
	Recipe  recipe.CLICmd  `cmd:"" help:"Apply a YAML recipe of edits to the bitmaps of a folder"`
}

func (c *CLI) handler(w io.Writer) slog.Handler {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name("bmpedit"),
		kong.Description("Read, edit and write BMP images."),
		kong.UsageOnError(),
		kong.Vars{"palettes": strings.Join(palette.Names(), ", ")},
	}
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli, options()...)
	slog.SetDefault(slog.New(cli.handler(os.Stderr)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	pool := parallel.Start(ctx, cli.Workers)

	err := kctx.Run(pool.Do, pool.Wait)
	pool.Wait(true)
	if skipped := pool.Skipped(); skipped > 0 {
		slog.Warn("interrupted", "skipped", skipped)
	}
	stop()

	kctx.FatalIfErrorf(err)
}
