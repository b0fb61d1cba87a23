package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/CDMG-DanEmma/DMS/internal/config"
	"github.com/CDMG-DanEmma/DMS/internal/db"
	"github.com/CDMG-DanEmma/DMS/internal/logging"
	"github.com/CDMG-DanEmma/DMS/pkg/models"
	"github.com/CDMG-DanEmma/DMS/pkg/version"
)

// env is shared by every command once Before has run.
var env struct {
	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
}

func main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "print the version",
	}

	app := &cli.App{
		Name:                 "dms",
		Usage:                "Engineering document catalog",
		Version:              version.Version,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Catalog database path",
				EnvVars: []string{"DMS_DB_PATH"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Before: setup,
		After: func(c *cli.Context) error {
			if env.closeLog != nil {
				return env.closeLog()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Print detailed version information",
				Action: func(c *cli.Context) error {
					fmt.Printf("Version:    %s\n", version.Version)
					fmt.Printf("Git commit: %s\n", version.GitCommit)
					fmt.Printf("Built:      %s\n", version.BuildTime)
					return nil
				},
			},
			{
				Name:  "scan",
				Usage: "Scan a folder into the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "folder",
						Usage:    "Root folder to scan",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "stale",
						Usage: "What to do with records whose file is gone: retain, soft-delete or hard-delete",
					},
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Do not ask before hard-deleting records",
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Disable the progress bar",
					},
				},
				Action: scanFolder,
			},
			{
				Name:  "search",
				Usage: "Search the catalog",
				Flags: append(criteriaFlags(), &cli.StringFlag{
					Name:  "relative",
					Usage: "Print paths relative to this folder",
				}),
				Action: searchCatalog,
			},
			{
				Name:  "show",
				Usage: "Show one catalogued file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "path",
						Usage:    "File path",
						Required: true,
					},
				},
				Action: showRecord,
			},
			{
				Name:  "tag",
				Usage: "Set metadata tags on a catalogued file",
				Flags: append(tagFlags(),
					&cli.StringFlag{
						Name:     "path",
						Usage:    "File path",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "clear",
						Usage: "Tag fields to empty, e.g. --clear notes",
					},
				),
				Action: tagRecord,
			},
			{
				Name:  "import",
				Usage: "Apply tags from a CSV sheet",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "csv",
						Usage:    "Path to CSV file with a file_path column",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Only apply rows for files under this folder",
					},
				},
				Action: importTags,
			},
			{
				Name:  "suggest",
				Usage: "List previously used values for a field",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "field",
						Usage:    "Metadata field, e.g. department",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Only values starting with this text",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of suggestions",
						Value: 10,
					},
				},
				Action: suggestValues,
			},
			{
				Name:   "recent",
				Usage:  "List recently scanned folders",
				Action: listRecent,
				Subcommands: []*cli.Command{
					{
						Name:  "remove",
						Usage: "Forget a recent folder",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "folder",
								Usage:    "Folder path",
								Required: true,
							},
						},
						Action: removeRecent,
					},
					{
						Name:   "prune",
						Usage:  "Forget recent folders that no longer exist",
						Action: pruneRecent,
					},
				},
			},
			{
				Name:  "summary",
				Usage: "Summarize the catalog records under a folder",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "folder",
						Usage:    "Root folder",
						Required: true,
					},
				},
				Action: showSummary,
			},
			{
				Name:   "status",
				Usage:  "Show catalog statistics",
				Action: showStatus,
			},
			{
				Name:  "export",
				Usage: "Export matching records to CSV or XLSX",
				Flags: append(criteriaFlags(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "csv or xlsx",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output file (default: generated from the current time)",
					},
				),
				Action: exportRecords,
			},
			{
				Name:   "backup",
				Usage:  "Upload a catalog snapshot to the configured bucket",
				Action: backupCatalog,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("log-level") {
		if cfg.LogLevel, err = config.ParseLogLevel(c.String("log-level")); err != nil {
			return err
		}
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Dir:    cfg.LogDir,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %v", err)
	}
	env.cfg = cfg
	env.log = logger.With("version", version.Version)
	env.closeLog = closeLog
	return nil
}

func openCatalog() (*db.DB, error) {
	catalog, err := db.New(env.cfg.DBPath, env.log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	return catalog, nil
}

// fieldFlag binds a command line flag to a catalog column.
type fieldFlag struct {
	name  string
	field models.Field
}

var tagFieldFlags = []fieldFlag{
	{"issue-status", models.FieldIssueStatus},
	{"revision", models.FieldRevision},
	{"department", models.FieldDepartment},
	{"drawing-type", models.FieldDrawingType},
	{"plant-area", models.FieldPlantArea},
	{"equipment", models.FieldEquipmentIncluded},
	{"notes", models.FieldNotes},
	{"todos", models.FieldTodos},
}

var searchFieldFlags = append([]fieldFlag{
	{"path", models.FieldFilePath},
	{"name", models.FieldFileName},
	{"source", models.FieldSource},
	{"file-type", models.FieldFileType},
	{"modified", models.FieldLastModified},
	{"created", models.FieldCreatedDate},
}, tagFieldFlags...)

func criteriaFlags() []cli.Flag {
	flags := make([]cli.Flag, 0, len(searchFieldFlags))
	for _, f := range searchFieldFlags {
		usage := "Substring of " + string(f.field)
		if f.field.IsTemporal() {
			usage = "Calendar date (" + models.DatePlaceholder + ") of " + string(f.field)
		}
		flags = append(flags, &cli.StringFlag{Name: f.name, Usage: usage})
	}
	return flags
}

func criteriaFrom(c *cli.Context) models.Criteria {
	criteria := models.Criteria{}
	for _, f := range searchFieldFlags {
		if v := c.String(f.name); v != "" {
			criteria[f.field] = v
		}
	}
	return criteria
}

func tagFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "file-type", Usage: "Override the detected file type"},
	}
	for _, f := range tagFieldFlags {
		flags = append(flags, &cli.StringFlag{Name: f.name, Usage: "Set " + string(f.field)})
	}
	return flags
}
