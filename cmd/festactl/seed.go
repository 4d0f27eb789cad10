package main

import (
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dukerupert/festa/internal"
	"github.com/dukerupert/festa/internal/postgres"
	"github.com/dukerupert/festa/internal/seed"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <catalog.yaml>",
		Short: "Load sections and components from a YAML catalog",
		Long: `Load a catalog file into the database. Running it again updates the
existing entries instead of duplicating them: sections are matched by slug and
components by kind and name. Images and the disabled flag set in the admin are
kept.`,
		Args: cobra.ExactArgs(1),
		RunE: runSeed,
	}

	cmd.Flags().Bool("dry-run", false, "Validate the file without writing anything")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	catalog, err := seed.Parse(data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintf(out, "%s is valid: %d sections, %d components\n", args[0], len(catalog.Sections), len(catalog.Components))
		return nil
	}

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	logger := internal.NewLogger(os.Stderr, cfg.Env, cfg.LogLevel)

	pool, err := pgxpool.New(cmd.Context(), cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// One transaction, so a bad entry halfway through leaves nothing behind.
	tx, err := pool.Begin(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(cmd.Context())

	loader := seed.NewLoader(
		postgres.NewSectionRepository(tx),
		postgres.NewComponentRepository(tx),
		postgres.NewSettingsRepository(tx),
		logger,
	)
	report, err := loader.Load(cmd.Context(), catalog)
	if err != nil {
		return err
	}
	if err := tx.Commit(cmd.Context()); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}

	fmt.Fprintf(out, "sections: %d created, %d updated\n", report.SectionsCreated, report.SectionsUpdated)
	fmt.Fprintf(out, "components: %d created, %d updated\n", report.ComponentsCreated, report.ComponentsUpdated)
	if report.SettingsSaved {
		fmt.Fprintln(out, "store settings saved")
	}
	return nil
}
