// disqusdoc builds a directory of markdown pages into HTML, placing a Disqus
// comment thread wherever a page contains the ::disqus directive.
//
// Usage:
//
//	disqusdoc [-c docs.yaml] [-W] [-D key=value]... SOURCE OUTPUT
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/zellyn/disqusdoc/internal/docgen"
)

type overrides []string

func (o *overrides) String() string {
	return strings.Join(*o, ",")
}

func (o *overrides) Set(v string) error {
	*o = append(*o, v)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run builds the documentation described by args and returns the process
// exit code. Logs and errors go to stderr.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("disqusdoc", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configFile := flags.String("c", "", "Build config file (default: SOURCE/"+docgen.DefaultConfigFile+")")
	strict := flags.Bool("W", false, "Turn warnings into errors")
	verbose := flags.Bool("v", false, "Log debug output")
	var settings overrides
	flags.Var(&settings, "D", "Override a config value (key=value), may be repeated")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] SOURCE OUTPUT\n", flags.Name())
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return 2
	}
	sourceDir, outputDir := flags.Arg(0), flags.Arg(1)

	// Set up structured logging
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	}))

	if *configFile == "" {
		*configFile = filepath.Join(sourceDir, docgen.DefaultConfigFile)
	}
	cfg, err := docgen.LoadConfig(*configFile)
	if err != nil {
		return fail(stderr, err)
	}
	for _, s := range settings {
		if err := cfg.Override(s); err != nil {
			return fail(stderr, err)
		}
	}
	logger.Debug("Loaded config", "path", *configFile, "shortname", cfg.Disqus.Shortname)

	res, err := docgen.Build(ctx, docgen.Options{
		SourceDir: sourceDir,
		OutputDir: outputDir,
		Config:    cfg,
		Strict:    *strict,
	}, logger)
	if err != nil {
		return fail(stderr, err)
	}

	logger.Info("Build finished", "pages", len(res.Pages), "output", outputDir)
	return 0
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}
