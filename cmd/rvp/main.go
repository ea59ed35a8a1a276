package rvp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"github.com/xlate/jsonapi-rvp/internal/rvplib"
	"github.com/xlate/jsonapi-rvp/internal/rvplib/config"
	"github.com/xlate/jsonapi-rvp/pkg/jsonapi"
)

var queryFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:  "fields",
		Usage: "Sparse fieldset as `TYPE=a,b`, can be repeated",
	},
	&cli.StringSliceFlag{
		Name:  "filter",
		Usage: "Filter as `KEY=VALUE`, can be repeated",
	},
	&cli.StringFlag{
		Name:  "include",
		Usage: "Comma-separated relationship paths to include",
	},
}

func queryArguments(c *cli.Context) rvplib.QueryArguments {
	return rvplib.QueryArguments{
		Fields:  c.StringSlice("fields"),
		Filters: c.StringSlice("filter"),
		Include: c.String("include"),
		Sort:    c.String("sort"),
		Offset:  c.Int("offset"),
		Limit:   c.Int("limit"),
	}
}

var writeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "attributes",
		Aliases: []string{"a"},
		Usage:   "Attributes as a JSON object",
	},
	&cli.StringFlag{
		Name:    "relationships",
		Aliases: []string{"r"},
		Usage:   "Relationships as a JSON object",
	},
	&cli.BoolFlag{
		Name:    "edit",
		Aliases: []string{"e"},
		Usage:   "Edit the attributes in an editor before sending them",
	},
	&cli.StringFlag{
		Name:    "editor",
		Usage:   "Editor command to use with --edit",
		EnvVars: []string{"RVP_EDITOR", "EDITOR"},
	},
}

func writeArguments(c *cli.Context) rvplib.WriteCommandArguments {
	return rvplib.WriteCommandArguments{
		Type:          c.Args().Get(0),
		Id:            c.Args().Get(1),
		Attributes:    c.String("attributes"),
		Relationships: c.String("relationships"),
		Edit:          c.Bool("edit"),
		Editor:        c.String("editor"),
		Indent:        indent(c),
	}
}

func indent(c *cli.Context) bool {
	if c.IsSet("pretty") {
		return c.Bool("pretty")
	}
	return rvplib.ShouldIndent(os.Stdout)
}

func getConnection(c *cli.Context) (*jsonapi.Connection, error) {
	cfg, err := config.Load(c.String("root-config"))
	if err != nil {
		return nil, err
	}
	server, err := cfg.ActiveServer(c.String("server"), c.String("base-url"))
	if err != nil {
		return nil, err
	}
	return rvplib.GetConnection(server, c.String("cacert"))
}

func Main() {
	errorColor := color.New(color.FgRed).SprintfFunc()
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Println("rvp, version=" + c.App.Version)
	}
	// stdout carries documents only
	pterm.SetDefaultOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "root-config",
			Usage: "Root configuration from `FILE`",
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Name of the configured server to use",
			EnvVars: []string{"RVP_SERVER"},
		},
		&cli.StringFlag{
			Name:    "base-url",
			Aliases: []string{"B"},
			Usage:   "Base URL of the API, overrides the configured one",
			EnvVars: []string{"RVP_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "cacert",
			Usage:   "Path to CA certificate bundle file",
			EnvVars: []string{"RVP_CACERT"},
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Indent JSON output (default: only on terminals)",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Print every request that is sent",
		},
	}

	app := &cli.App{
		Name:                   "rvp",
		Usage:                  "Talk to JSON:API servers",
		Version:                rvplib.Version,
		UseShortOptionHandling: true,
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				pterm.EnableDebugMessages()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "rvp list [options] TYPE",
				ArgsUsage: "TYPE",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Comma-separated sort fields, prefix with '-' for descending",
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Pagination offset",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Pagination limit",
					},
				}, queryFlags...),
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 1 {
						return cli.Exit(errorColor("Please provide one type"), 1)
					}
					api, err := getConnection(c)
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					err = rvplib.ListCommand(ctx, api, rvplib.ListCommandArguments{
						Type:   c.Args().First(),
						Query:  queryArguments(c),
						Indent: indent(c),
					}, os.Stdout)
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:      "get",
				Usage:     "rvp get [options] TYPE [ID...]",
				ArgsUsage: "TYPE [ID...]",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "save-dir",
						Usage: "Save each resource in `DIR` instead of printing it",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "How many resources to fetch at the same time",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "pick",
						Usage: "Choose the resource interactively",
					},
				}, queryFlags...),
				Action: func(c *cli.Context) error {
					if c.Args().Len() < 1 {
						return cli.Exit(errorColor("Please provide a type"), 1)
					}
					if c.Bool("pick") && !isatty.IsTerminal(os.Stdin.Fd()) {
						return cli.Exit(
							errorColor("--pick needs an interactive terminal"), 1,
						)
					}
					api, err := getConnection(c)
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					err = rvplib.GetCommand(ctx, api, rvplib.GetCommandArguments{
						Type:     c.Args().First(),
						Ids:      c.Args().Tail(),
						Query:    queryArguments(c),
						SaveDir:  c.String("save-dir"),
						Workers:  c.Int("workers"),
						Pick:     c.Bool("pick"),
						Indent:   indent(c),
						Progress: os.Stderr,
					}, os.Stdout)
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "rvp create [options] TYPE",
				ArgsUsage: "TYPE",
				Flags:     writeFlags,
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 1 {
						return cli.Exit(errorColor("Please provide one type"), 1)
					}
					api, err := getConnection(c)
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					err = rvplib.CreateCommand(ctx, api, writeArguments(c), os.Stdout)
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:      "update",
				Usage:     "rvp update [options] TYPE ID",
				ArgsUsage: "TYPE ID",
				Flags:     writeFlags,
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 2 {
						return cli.Exit(
							errorColor("Please provide a type and an id"), 1,
						)
					}
					api, err := getConnection(c)
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					err = rvplib.UpdateCommand(ctx, api, writeArguments(c), os.Stdout)
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "rvp delete [options] TYPE ID",
				ArgsUsage: "TYPE ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Delete without asking for confirmation",
					},
				},
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 2 {
						return cli.Exit(
							errorColor("Please provide a type and an id"), 1,
						)
					}
					api, err := getConnection(c)
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					err = rvplib.DeleteCommand(ctx, api, rvplib.DeleteCommandArguments{
						Type:        c.Args().Get(0),
						Id:          c.Args().Get(1),
						Force:       c.Bool("force"),
						Interactive: isatty.IsTerminal(os.Stdin.Fd()),
						Indent:      indent(c),
					}, os.Stdout)
					if errors.Is(err, rvplib.ErrDeleteCancelled) {
						return cli.Exit("", 1)
					}
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:  "config",
				Usage: "Manage the configured servers",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "rvp config add [options] NAME",
						ArgsUsage: "NAME",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "base-url",
								Usage:    "Base URL of the API",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "cacert",
								Usage: "Path to CA certificate bundle file",
							},
							&cli.IntFlag{
								Name:  "timeout",
								Usage: "Request timeout in seconds, 0 for none",
							},
							&cli.StringSliceFlag{
								Name:  "header",
								Usage: "Extra header as `NAME=VALUE`, can be repeated",
							},
							&cli.BoolFlag{
								Name:  "default",
								Usage: "Make this the default server",
							},
						},
						Action: func(c *cli.Context) error {
							if c.Args().Len() != 1 {
								return cli.Exit(
									errorColor("Please provide a name"), 1,
								)
							}
							cfg, err := config.Load(c.String("root-config"))
							if err != nil {
								return cli.Exit(errorColor(
									"Error loading configuration: %s", err,
								), 1)
							}
							err = rvplib.AddServerCommand(
								cfg,
								rvplib.AddServerCommandArguments{
									Name:    c.Args().First(),
									BaseURL: c.String("base-url"),
									CACert:  c.String("cacert"),
									Timeout: c.Int("timeout"),
									Headers: c.StringSlice("header"),
									Default: c.Bool("default"),
								},
							)
							if err != nil {
								return cli.Exit(errorColor("%s", err), 1)
							}
							return nil
						},
					},
				},
			},
		},
		Flags: flags,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
