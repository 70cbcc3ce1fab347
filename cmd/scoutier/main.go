package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ucli "github.com/urfave/cli/v2"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/app"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/cli"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/engine"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/tui"
)

var version = "dev"

func main() {
	var commands *cli.Commands
	var application *app.App

	cliApp := &ucli.App{
		Name:    "scoutier",
		Usage:   "link-scouting: collect URLs, work through them, keep track",
		Version: version,
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "links-file", Usage: "path to the links envelope file"},
			&ucli.StringFlag{Name: "history-db", Usage: "path to the history database"},
			&ucli.BoolFlag{Name: "contact-hop", Usage: "auto-follow contact links on preview"},
		},
		Before: func(c *ucli.Context) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if v := c.String("links-file"); v != "" {
				cfg.LinksFile = v
			}
			if v := c.String("history-db"); v != "" {
				cfg.HistoryDB = v
			}
			if c.Bool("contact-hop") {
				cfg.ContactHop = true
			}

			application, err = app.New(cfg)
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			commands = cli.NewCommands(application.Engine, application.History, application.Viewer)
			return nil
		},
		After: func(c *ucli.Context) error {
			if application != nil {
				return application.Close()
			}
			return nil
		},
		Commands: []*ucli.Command{
			{
				Name:      "add",
				Usage:     "add one or more links (URLs split on whitespace, commas, newlines)",
				ArgsUsage: "<url>...",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "tags", Usage: "comma-separated tags for every added link"},
					&ucli.StringFlag{Name: "note", Usage: "note for every added link"},
				},
				Action: func(c *ucli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("usage: scoutier add <url>...")
					}
					raw := strings.Join(c.Args().Slice(), " ")
					return commands.Add(raw, c.String("tags"), c.String("note"))
				},
			},
			{
				Name:  "list",
				Usage: "list links",
				Flags: []ucli.Flag{
					&ucli.BoolFlag{Name: "visited", Usage: "show only visited links"},
					&ucli.BoolFlag{Name: "unvisited", Usage: "show only unvisited links"},
					&ucli.StringFlag{Name: "tag", Usage: "filter by tag"},
					&ucli.StringFlag{Name: "search", Usage: "free-text filter over url, title, note and tags"},
					&ucli.IntFlag{Name: "limit", Usage: "limit number of results"},
				},
				Action: func(c *ucli.Context) error {
					f := engine.Filter{
						Text: c.String("search"),
						Tag:  c.String("tag"),
					}
					switch {
					case c.Bool("visited"):
						f.Visited = engine.VisitedOnly
					case c.Bool("unvisited"):
						f.Visited = engine.UnvisitedOnly
					}
					return commands.List(f, c.Int("limit"))
				},
			},
			{
				Name:  "tags",
				Usage: "list all tags in use",
				Action: func(c *ucli.Context) error {
					return commands.Tags()
				},
			},
			{
				Name:      "open",
				Usage:     "preview the link at the given position, marking it visited",
				ArgsUsage: "<n>",
				Action: func(c *ucli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("usage: scoutier open <n>")
					}
					index, err := cli.ParseIndex(c.Args().First())
					if err != nil {
						return err
					}
					return commands.Open(index)
				},
			},
			{
				Name:  "next",
				Usage: "preview the next unvisited link",
				Action: func(c *ucli.Context) error {
					return commands.Next()
				},
			},
			{
				Name:  "prev",
				Usage: "preview the previous unvisited link",
				Action: func(c *ucli.Context) error {
					return commands.Prev()
				},
			},
			{
				Name:      "visit",
				Usage:     "mark a link visited without previewing it",
				ArgsUsage: "<n>",
				Action: func(c *ucli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("usage: scoutier visit <n>")
					}
					index, err := cli.ParseIndex(c.Args().First())
					if err != nil {
						return err
					}
					return commands.Visit(index)
				},
			},
			{
				Name:      "unvisit",
				Usage:     "mark a link unvisited",
				ArgsUsage: "<n>",
				Action: func(c *ucli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("usage: scoutier unvisit <n>")
					}
					index, err := cli.ParseIndex(c.Args().First())
					if err != nil {
						return err
					}
					return commands.Unvisit(index)
				},
			},
			{
				Name:  "clear",
				Usage: "delete all links",
				Flags: []ucli.Flag{
					&ucli.BoolFlag{Name: "yes", Usage: "confirm deletion"},
				},
				Action: func(c *ucli.Context) error {
					return commands.Clear(c.Bool("yes"))
				},
			},
			{
				Name:      "import",
				Usage:     "import links from a file (.json or plain text)",
				ArgsUsage: "<file>",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "format", Usage: "force format: json or text"},
				},
				Action: func(c *ucli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("usage: scoutier import <file>")
					}
					filename := c.Args().First()
					payload, err := os.ReadFile(filename)
					if err != nil {
						return fmt.Errorf("read file: %w", err)
					}
					kind := engine.SourceText
					format := c.String("format")
					if format == "" && strings.EqualFold(filepath.Ext(filename), ".json") {
						format = "json"
					}
					if strings.EqualFold(format, "json") {
						kind = engine.SourceJSON
					}
					return commands.Import(payload, kind)
				},
			},
			{
				Name:  "export",
				Usage: "export links to stdout",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "format", Value: "json", Usage: "json (full envelope) or text (one URL per line)"},
					&ucli.BoolFlag{Name: "unvisited", Usage: "export only unvisited links (default for text)"},
				},
				Action: func(c *ucli.Context) error {
					asJSON := !strings.EqualFold(c.String("format"), "text")
					scope := engine.ExportAll
					// Text export defaults to the remaining work list.
					if c.Bool("unvisited") || (!asJSON && !c.IsSet("unvisited")) {
						scope = engine.ExportUnvisited
					}
					return commands.Export(os.Stdout, asJSON, scope)
				},
			},
			{
				Name:      "history",
				Usage:     "show the visit history",
				ArgsUsage: "[query]",
				Action: func(c *ucli.Context) error {
					return commands.History(c.Args().First())
				},
				Subcommands: []*ucli.Command{
					{
						Name:      "rm",
						Usage:     "delete one history entry",
						ArgsUsage: "<id>",
						Action: func(c *ucli.Context) error {
							if c.NArg() == 0 {
								return fmt.Errorf("usage: scoutier history rm <id>")
							}
							return commands.HistoryDelete(c.Args().First())
						},
					},
					{
						Name:  "clear",
						Usage: "delete the whole visit history",
						Flags: []ucli.Flag{
							&ucli.BoolFlag{Name: "yes", Usage: "confirm deletion"},
						},
						Action: func(c *ucli.Context) error {
							return commands.HistoryClear(c.Bool("yes"))
						},
					},
				},
			},
			{
				Name:  "tui",
				Usage: "start the interactive session",
				Action: func(c *ucli.Context) error {
					return tui.Run(application.Engine, application.History, application.Viewer)
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
