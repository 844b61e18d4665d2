package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/uast/internal/astbuilder"
	"github.com/standardbeagle/uast/internal/config"
	"github.com/standardbeagle/uast/internal/debug"
	"github.com/standardbeagle/uast/internal/mcp"
	"github.com/standardbeagle/uast/internal/parser"
	"github.com/standardbeagle/uast/internal/project"
)

var version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "uast",
		Usage:   "Multi-language CST to canonical AST normalizer and symbol indexer",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "project root directory",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "glob patterns of files to include",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "glob patterns of files to exclude",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "write debug output to a log file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "parse one source file and print its canonical AST as JSON",
				ArgsUsage: "<file>",
				Action:    runParse,
			},
			{
				Name:   "index",
				Usage:  "index the project, resolve references, and print statistics",
				Action: runIndex,
			},
			{
				Name:   "watch",
				Usage:  "index the project and reindex incrementally on file changes",
				Action: runWatch,
			},
			{
				Name:   "serve",
				Usage:  "index the project and serve it over MCP stdio",
				Action: runServe,
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				if path, err := debug.InitDebugLogFile(); err == nil {
					fmt.Fprintf(os.Stderr, "debug log: %s\n", path)
				}
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "uast: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration from the project root and applies CLI
// overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Include = include
	}
	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Exclude = exclude
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runParse(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("parse requires a file argument")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	p := parser.GetSharedParser()
	defer parser.PutSharedParser(p)

	builder := astbuilder.New(nil)
	root, lang, err := builder.BuildFile(c.Context, p, path, content)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(map[string]interface{}{
		"language": lang.String(),
		"ast":      root,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runIndex(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	indexer := project.NewIndexer(cfg)
	stats, err := indexer.IndexProject(c.Context)
	if err != nil {
		return err
	}
	printStats(stats)
	return nil
}

func runWatch(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	indexer := project.NewIndexer(cfg)
	stats, err := indexer.IndexProject(c.Context)
	if err != nil {
		return err
	}
	printStats(stats)

	watcher, err := project.NewWatcher(indexer)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(os.Stderr, "watching %s\n", cfg.Project.Root)
	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	indexer := project.NewIndexer(cfg)
	if _, err := indexer.IndexProject(c.Context); err != nil {
		return err
	}

	server := mcp.NewServer(indexer)
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx)
}

func printStats(stats project.Stats) {
	fmt.Printf("files indexed:        %d\n", stats.FilesIndexed)
	fmt.Printf("files failed:         %d\n", stats.FilesFailed)
	fmt.Printf("symbols registered:   %d\n", stats.SymbolsRegistered)
	fmt.Printf("symbol collisions:    %d\n", stats.SymbolCollisions)
	fmt.Printf("references attempted: %d\n", stats.ReferencesAttempted)
	fmt.Printf("references resolved:  %d\n", stats.ReferencesResolved)
}
