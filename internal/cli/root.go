// Package cli provides the command-line interface for userload.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftline-labs/userload/internal/adapter"
	"github.com/driftline-labs/userload/internal/cli/output"
	"github.com/driftline-labs/userload/internal/config"
	"github.com/driftline-labs/userload/internal/importer"
	"github.com/driftline-labs/userload/internal/schema"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "userload",
		Short: "userload - CSV user directory importer",
		Long: `userload reads a CSV file of user records (name, surname, email),
validates and normalizes each row, and loads valid rows into the users
table of a relational database.

Rows that fail validation are reported and skipped; the run continues.
Use --dry_run to validate a file without touching the database.`,
		Example: `  # Import a file
  userload --file users.csv -u dbuser -p secret -h db.example.com

  # Validate without writing
  userload --file users.csv --dry_run

  # Validate and verify the table schema, still without writing
  userload --file users.csv --dry_run --force_connect

  # Create the users table
  userload --create_table -u dbuser -p secret -h localhost`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := resolveOptions(cmd.Flags())
			if err != nil {
				return err
			}

			switch opts.Action {
			case ActionCreateTable:
				return runCreateTable(cmd)
			case ActionImport:
				return runImport(cmd, opts)
			default:
				return cmd.Help()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
CSV user directory importer
`)

	// Registering our own help flag keeps cobra from claiming -h, which
	// belongs to --host here as it did in the tool this replaces.
	rootCmd.PersistentFlags().Bool("help", false, "Print usage")

	// Action flags
	rootCmd.PersistentFlags().String("file", "", "CSV file to import")
	rootCmd.PersistentFlags().Bool("create_table", false, "Create the users table and exit")
	rootCmd.PersistentFlags().Bool("dry_run", false, "Validate without writing to the database (requires --file)")
	rootCmd.PersistentFlags().Bool("force_connect", false, "With --dry_run, still connect and verify the schema")

	// Connection flags
	rootCmd.PersistentFlags().StringP("user", "u", "", "Database user")
	rootCmd.PersistentFlags().StringP("password", "p", "", "Database password")
	rootCmd.PersistentFlags().StringP("host", "h", "", "Database host")
	rootCmd.PersistentFlags().Int("port", 0, "Database port")
	rootCmd.PersistentFlags().StringP("database", "d", "", "Database name (or file path for sqlite/duckdb)")
	rootCmd.PersistentFlags().String("db-schema", "", "Database schema")
	rootCmd.PersistentFlags().String("type", "", "Database type (postgres|sqlite|duckdb)")

	// Ambient flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./userload.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Register completion for type flag
	_ = rootCmd.RegisterFlagCompletionFunc("type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return adapter.ListAdapters(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// newRenderer builds the renderer for the active output mode.
func newRenderer(cmd *cobra.Command) *output.Renderer {
	mode := output.Mode(cfg.OutputFormat)
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
}

// connectAdapter creates and connects the configured adapter.
func connectAdapter(cmd *cobra.Command) (adapter.Adapter, error) {
	if err := cfg.Target.Validate(); err != nil {
		return nil, err
	}
	db, err := adapter.New(cfg.AdapterConfig(), logger)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(cmd.Context(), cfg.AdapterConfig()); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// runCreateTable creates the users table and exits.
func runCreateTable(cmd *cobra.Command) error {
	r := newRenderer(cmd)

	db, err := connectAdapter(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	gate := schema.NewGatekeeper(db, logger)
	if err := gate.CreateTable(cmd.Context()); err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.CreateTableResult{
			Table:   schema.TableName,
			Dialect: db.DialectName(),
			Created: true,
		})
	case output.ModeMarkdown:
		r.Println(output.FormatKeyValue("Table", schema.TableName))
		r.Println(output.FormatKeyValue("Created", "true"))
	default:
		r.Success(fmt.Sprintf("table %q created", schema.TableName))
	}
	return nil
}

// runImport runs the import pipeline.
func runImport(cmd *cobra.Command, opts *Options) error {
	r := newRenderer(cmd)

	if !opts.DryRun || opts.ForceConnect {
		if err := cfg.Target.Validate(); err != nil {
			return err
		}
	}

	pipeline := importer.New(cfg.AdapterConfig(), logger, r)
	_, err := pipeline.Run(cmd.Context(), importer.Options{
		Path:         opts.File,
		DryRun:       opts.DryRun,
		ForceConnect: opts.ForceConnect,
	})
	return err
}
