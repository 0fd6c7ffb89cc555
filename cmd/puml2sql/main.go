package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/puml2sql/internal/adapter"
	"github.com/sadopc/puml2sql/internal/audit"
	"github.com/sadopc/puml2sql/internal/config"
	"github.com/sadopc/puml2sql/internal/history"
	"github.com/sadopc/puml2sql/internal/report"

	// Register database adapters
	_ "github.com/sadopc/puml2sql/internal/adapter/mysql"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		configFlag string
		opts       runOptions
	)

	rootCmd := &cobra.Command{
		Use:   "puml2sql <input.puml> [output.sql]",
		Short: "Generate MySQL DDL from PlantUML class diagrams",
		Long: `puml2sql reads a PlantUML class diagram describing tables and enums and
writes MySQL CREATE TABLE / ALTER TABLE statements.

Examples:
  puml2sql model.puml                          # Write database.sql
  puml2sql model.puml schema.sql               # Write schema.sql
  cat model.puml | puml2sql - --stdout --color # Highlighted DDL on stdout
  puml2sql model.puml --apply local            # Apply to a saved connection
  puml2sql model.puml --apply 'root:pw@tcp(localhost:3306)/app'`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(configFlag)

			opts.input = args[0]
			if len(args) > 1 {
				opts.output = args[1]
			}
			opts.legacySet = cmd.Flags().Changed("legacy")
			opts.strictSet = cmd.Flags().Changed("strict")
			opts.colorSet = cmd.Flags().Changed("color")

			r := &runner{
				cfg:    cfg,
				stdin:  os.Stdin,
				stdout: os.Stdout,
				stderr: os.Stderr,
				now:    time.Now,
			}

			// Open history
			if cfg.History.Enabled {
				hist, err := history.New()
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: could not open history: %v\n", err)
				} else {
					defer hist.Close()
					r.hist = hist
				}
			}

			// Open audit log
			if cfg.Audit.Enabled {
				auditPath := cfg.Audit.Path
				if auditPath == "" {
					if dir, err := config.ConfigDir(); err == nil {
						auditPath = audit.DefaultPath(dir)
					}
				}
				if auditPath != "" {
					auditLog, err := audit.New(auditPath, cfg.Audit.MaxSizeMB)
					if err != nil {
						fmt.Fprintf(os.Stderr, "Warning: could not open audit log: %v\n", err)
					} else {
						defer auditLog.Close()
						r.audit = auditLog
					}
				}
			}

			return r.run(cmd.Context(), opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file path")
	rootCmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Print DDL to stdout instead of writing a file")
	rootCmd.Flags().BoolVar(&opts.color, "color", false, "Highlight DDL and diagnostics")
	rootCmd.Flags().StringVar(&opts.theme, "theme", "", "Color theme (default, light, monokai)")
	rootCmd.Flags().StringVarP(&opts.apply, "apply", "a", "", "Apply DDL to a MySQL DSN or saved connection name")
	rootCmd.Flags().BoolVar(&opts.legacy, "legacy", false, "Resolve reference types in declaration order")
	rootCmd.Flags().BoolVar(&opts.strict, "strict", false, "Leave dropped columns out of PRIMARY KEY and UNIQUE listings")
	rootCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress the run summary")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("puml2sql %s (commit: %s, built: %s)\n", version, commit, date)
			fmt.Println("\nSupported adapters:")
			for _, name := range adapter.Names() {
				fmt.Printf("  - %s\n", name)
			}
		},
	}
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newHistoryCmd(&configFlag))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		report.New(os.Stderr, nil).Error(err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults with a warning.
func loadConfig(path string) *config.Config {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	return cfg
}
