// Package commands implements the bsconv command line tool.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/api"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/api/request"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/app"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/apperrors"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/config"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/logging"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/model"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/validation"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/version"
)

// ErrNotFound is returned when a conversion has no published counterpart.
// The result is still printed.
var ErrNotFound = apperrors.ErrDateNotFound

// Options are the persistent flags shared by every subcommand.
type Options struct {
	DBPath  string
	Verbose bool
}

// OpenFunc builds the services for one command invocation. The returned
// function releases them.
type OpenFunc func(ctx context.Context, opts Options) (api.Services, func(), error)

// OpenServices wires services from the environment. The cache lives in memory
// unless --db points at a sqlite file.
func OpenServices(ctx context.Context, opts Options) (api.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return api.Services{}, nil, err
	}
	cfg.Cache.Backend = config.CacheBackendMemory
	if opts.DBPath != "" {
		cfg.Cache.Backend = config.CacheBackendSQLite
		cfg.Database.Path = opts.DBPath
	}

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{Level: level, Format: "console"})
	if err != nil {
		return api.Services{}, nil, err
	}
	zap.ReplaceGlobals(logger)

	a, err := app.Build(ctx, cfg, logger, nil)
	if err != nil {
		return api.Services{}, nil, err
	}
	return a.Services, func() {
		a.Close()
		_ = logger.Sync()
	}, nil
}

// NewRootCommand creates the bsconv root command with all subcommands.
func NewRootCommand(open OpenFunc) *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:           "bsconv",
		Short:         "Convert between Bikram Sambat and Gregorian dates",
		Long:          "bsconv converts dates and prints calendar months using the published Bikram Sambat month data.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "sqlite file used to cache months between runs")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log cache and upstream activity")

	// withServices runs fn with freshly opened services.
	withServices := func(cmd *cobra.Command, fn func(ctx context.Context, svc api.Services) error) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		svc, closeFn, err := open(ctx, *opts)
		if err != nil {
			return err
		}
		if closeFn != nil {
			defer closeFn()
		}
		return fn(ctx, svc)
	}

	rootCmd.AddCommand(
		newAdToBsCommand(withServices),
		newBsToAdCommand(withServices),
		newTodayCommand(withServices),
		newMonthCommand(withServices),
		newICSCommand(withServices),
		newVersionCommand(),
	)
	return rootCmd
}

type runner func(cmd *cobra.Command, fn func(ctx context.Context, svc api.Services) error) error

func newAdToBsCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:     "ad2bs DATE",
		Short:   "Convert an AD date (YYYY-MM-DD) to Bikram Sambat",
		Example: "  bsconv ad2bs 2024-04-16",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := request.ParseAdToBs(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc api.Services) error {
				return printResult(cmd.OutOrStdout(), svc.Converter.ConvertAdToBs(ctx, req.Date))
			})
		},
	}
}

func newBsToAdCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:     "bs2ad YEAR MONTH DAY",
		Short:   "Convert a Bikram Sambat date to AD",
		Example: "  bsconv bs2ad 2081 1 4",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := request.ParseBsToAd(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc api.Services) error {
				return printResult(cmd.OutOrStdout(), svc.Converter.ConvertBsToAd(ctx, req.Year, req.Month, req.Day))
			})
		},
	}
}

func newTodayCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print today's date in Nepal in both calendars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc api.Services) error {
				return printResult(cmd.OutOrStdout(), svc.Converter.Today(ctx))
			})
		},
	}
}

func newMonthCommand(run runner) *cobra.Command {
	monthCmd := &cobra.Command{
		Use:   "month",
		Short: "Print the days of a BS or AD month",
	}

	monthCmd.AddCommand(&cobra.Command{
		Use:     "bs YEAR MONTH",
		Short:   "Print a Bikram Sambat month",
		Example: "  bsconv month bs 2081 1",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := validation.ParseBsMonth(args[0], args[1])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc api.Services) error {
				m, err := svc.BsMonth.ResolveBsMonth(ctx, year, month)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), m)
			})
		},
	})

	monthCmd.AddCommand(&cobra.Command{
		Use:     "ad YEAR MONTH",
		Short:   "Print the BS days falling in an AD month",
		Example: "  bsconv month ad 2024 4",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := validation.ParseAdMonth(args[0], args[1])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc api.Services) error {
				m, err := svc.AdMonth.ResolveAdMonth(ctx, year, month)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), m)
			})
		},
	})

	return monthCmd
}

func newICSCommand(run runner) *cobra.Command {
	var output string

	icsCmd := &cobra.Command{
		Use:     "ics YEAR MONTH",
		Short:   "Export the holidays and events of a BS month as iCalendar",
		Example: "  bsconv ics 2081 6 -o dashain.ics",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := validation.ParseBsMonth(args[0], args[1])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, svc api.Services) error {
				data, err := svc.Export.MonthICS(ctx, year, month)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				zap.L().Debug("Wrote calendar export", zap.String("path", output))
				return nil
			})
		},
	}
	icsCmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return icsCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print bsconv version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bsconv %s\n", version.Version)
		},
	}
}

// printResult writes a conversion result and reports ErrNotFound for an empty one.
func printResult(w io.Writer, result model.ConversionResult) error {
	if err := writeJSON(w, result); err != nil {
		return err
	}
	if !result.Found() {
		return ErrNotFound
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

