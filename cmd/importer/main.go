package main

import (
	"context"
	"fmt"
	"os"

	"mgnrega-api/internal/config"
	"mgnrega-api/internal/logger"
	"mgnrega-api/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	configPath string
	filePath   string
	truncate   bool
)

var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "Bulk load MGNREGA catalog data from CSV files",
	Long: `
importer loads districts, district summaries and monthly series into the
PostgreSQL catalog served by the API. Each subcommand reads one CSV file with
a header row.
`,
	SilenceUsage: true,
}

var districtsCmd = &cobra.Command{
	Use:   "districts",
	Short: "Import district,state rows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := parseDistricts(filePath)
		if err != nil {
			return fmt.Errorf("parsing CSV: %w", err)
		}
		return load(cmd.Context(), "districts", []string{"district", "state"}, len(records), func(i int) []any {
			r := records[i]
			return []any{r.District, r.State}
		})
	},
}

var summariesCmd = &cobra.Command{
	Use:   "summaries",
	Short: "Import per-district summary statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := parseSummaries(filePath)
		if err != nil {
			return fmt.Errorf("parsing CSV: %w", err)
		}
		columns := []string{
			"district", "state", "total_workers", "total_wages", "households",
			"employment_days", "work_completed", "budget_utilization", "last_updated",
		}
		return load(cmd.Context(), "district_summaries", columns, len(records), func(i int) []any {
			r := records[i]
			s := r.Stats
			return []any{
				r.District, r.State, s.TotalWorkers, s.TotalWages, s.Households,
				s.EmploymentDays, s.WorkCompleted, s.BudgetUtilization, r.LastUpdated,
			}
		})
	},
}

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Import per-district monthly worker and wage series",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := parseMonthly(filePath)
		if err != nil {
			return fmt.Errorf("parsing CSV: %w", err)
		}
		columns := []string{"district", "state", "month_start", "workers", "wages"}
		return load(cmd.Context(), "district_monthly", columns, len(records), func(i int) []any {
			r := records[i]
			return []any{r.District, r.State, r.MonthStart, r.Workers, r.Wages}
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs", "directory holding app.yaml")
	rootCmd.PersistentFlags().StringVar(&filePath, "file", "", "path to the CSV file to import")
	rootCmd.PersistentFlags().BoolVar(&truncate, "truncate", false, "empty the table before loading")
	_ = rootCmd.MarkPersistentFlagRequired("file")

	rootCmd.AddCommand(districtsCmd, summariesCmd, monthlyCmd)
}

func main() {
	logger.Setup("info", "")
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// load copies rows into table inside one transaction and registers every district it saw.
func load(ctx context.Context, table string, columns []string, n int, row func(i int) []any) error {
	log.Info().Str("file", filePath).Str("table", table).Int("records", n).Msg("starting import")

	// Load config
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Connect to DB
	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer conn.Close(ctx)

	// Ensure tables exist
	if err := repository.EnsureSchema(ctx, conn); err != nil {
		return err
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if truncate {
		if _, err := tx.Exec(ctx, "TRUNCATE "+pgx.Identifier{table}.Sanitize()); err != nil {
			return fmt.Errorf("truncating %s: %w", table, err)
		}
	}

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription("Importing "+table),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	// Use CopyFrom for bulk insert
	i := 0
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromFunc(func() ([]any, error) {
		if i >= n {
			return nil, nil
		}
		values := row(i)
		i++
		if bar != nil {
			_ = bar.Add(1)
		}
		return values, nil
	}))
	if err != nil {
		return fmt.Errorf("copying into %s: %w", table, err)
	}

	if table != "districts" {
		_, err := tx.Exec(ctx, `
			INSERT INTO districts (district, state)
			SELECT DISTINCT district, state FROM `+pgx.Identifier{table}.Sanitize()+`
			ON CONFLICT DO NOTHING
		`)
		if err != nil {
			return fmt.Errorf("registering districts: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}

	// Verify data
	var count int64
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&count); err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	log.Info().Str("table", table).Int64("copied", copied).Int64("rows", count).Msg("import finished")
	return nil
}
