package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/tonic/internal"
	"github.com/starford/tonic/internal/formula"
	"github.com/starford/tonic/internal/interval"
	"github.com/starford/tonic/internal/note"
	"github.com/starford/tonic/internal/storage"
	"github.com/starford/tonic/internal/voicing"
	pkgconfig "github.com/starford/tonic/pkg/config"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:   "tonic",
		Usage:  "Interval classification, transposition and chord building over HTTP, MCP and the command line",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with live formula reload",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools on stdio",
				Action: serveMCP,
			},
			{
				Name:      "classify",
				Usage:     "Classify semitone counts",
				ArgsUsage: "<semitones...>",
				Action:    classify,
			},
			{
				Name:      "chain",
				Usage:     "Stack semitone steps on a root note",
				ArgsUsage: "<semitones...>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Value: "C4", Usage: "Root note"},
				},
				Action: chain,
			},
			{
				Name:  "chord",
				Usage: "Build a named formula on a root note",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Value: "C4", Usage: "Root note"},
					&cli.StringFlag{Name: "formula", Aliases: []string{"f"}, Required: true, Usage: "Formula name or alias"},
				},
				Action: chord,
			},
			{
				Name:  "formulas",
				Usage: "List the formula catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Usage: "Filter by kind: chord or scale"},
				},
				Action: listFormulas,
			},
		},
	}
}

func loadConfig(cmd *cli.Command, optional bool) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	load := pkgconfig.Load[internal.Config]
	if optional {
		load = pkgconfig.LoadOptional[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func parseSemitones(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one semitone count is required")
	}
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not an integer", i+1, a)
		}
		out[i] = n
	}
	return out, nil
}

func classify(_ context.Context, cmd *cli.Command) error {
	steps, err := parseSemitones(cmd.Args().Slice())
	if err != nil {
		return err
	}
	ivs, err := interval.FromSemitones(steps)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	for _, iv := range ivs {
		line := fmt.Sprintf("%d\t%s\t%s", iv.SemitoneCount, iv.ShortName(), iv.Name())
		if iv.HasStep() {
			line += "\t" + iv.Step.String()
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func chain(_ context.Context, cmd *cli.Command) error {
	root, err := note.Parse(cmd.String("root"))
	if err != nil {
		return err
	}
	steps, err := parseSemitones(cmd.Args().Slice())
	if err != nil {
		return err
	}
	v, err := voicing.Build(root, steps)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, joinNotes(v.Notes))
	return nil
}

// loadCatalog reads the configured formula directory without starting the
// watcher. A missing directory leaves only the builtins.
func loadCatalog(cfg *internal.Config) (*formula.Catalog, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	catalog, err := formula.NewCatalog(formula.Builtins()...)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.Formulas.Dir); err != nil {
		return catalog, nil
	}
	store, err := storage.NewFS(cfg.Formulas.Dir)
	if err != nil {
		return nil, err
	}
	if _, err := formula.Reload(catalog, store, logger); err != nil {
		return nil, err
	}
	return catalog, nil
}

func chord(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	root, err := note.Parse(cmd.String("root"))
	if err != nil {
		return err
	}
	f, ok := catalog.Get(cmd.String("formula"))
	if !ok {
		return fmt.Errorf("unknown formula %q", cmd.String("formula"))
	}
	notes, err := f.Notes(root)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "%s %s: %s\n", root, f.Name, joinNotes(notes))
	return nil
}

func listFormulas(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	printFormulas(cmd.Root().Writer, catalog.List(formula.Kind(cmd.String("kind"))))
	return nil
}

func printFormulas(w io.Writer, formulas []formula.Formula) {
	for _, f := range formulas {
		steps := make([]string, len(f.Steps))
		for i, s := range f.Steps {
			steps[i] = strconv.Itoa(s)
		}
		line := fmt.Sprintf("%-18s %-6s %s", f.Name, f.Kind, strings.Join(steps, " "))
		if len(f.Aliases) > 0 {
			line += "  (" + strings.Join(f.Aliases, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func joinNotes(notes []note.Note) string {
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = n.String()
	}
	return strings.Join(names, " ")
}
