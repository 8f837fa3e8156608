package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/killallgit/herotrend/internal/database"
	apperrors "github.com/killallgit/herotrend/pkg/errors"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the analysis ledger schema",
	Long: `Manage the schema of the analysis ledger database.

The ledger is migrated automatically whenever it is opened; these commands
exist for inspecting it and for resetting it.

Available subcommands:
  up      - Create or update the ledger tables
  down    - Drop the ledger tables and every recorded run
  status  - Show which ledger tables exist and how many rows they hold`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update the ledger tables",
	Args:  cobra.NoArgs,
	RunE:  runMigrateUp,
}

// migrateDownCmd drops the schema
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Drop the ledger tables",
	Long: `Drop the ledger tables.

Every recorded run is lost. Cached artifacts are not touched.`,
	Args: cobra.NoArgs,
	RunE: runMigrateDown,
}

// migrateStatusCmd shows the schema state
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ledger table status",
	Args:  cobra.NoArgs,
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
	migrateDownCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}

// openLedgerDB opens the ledger without migrating it
func openLedgerDB() (*database.DB, error) {
	if appConfig.Database.Path == "" {
		return nil, apperrors.ConfigError("database.path", "the analysis ledger is disabled")
	}
	db, err := database.Initialize(appConfig.Database.Path, appConfig.Database.Verbose)
	if err != nil {
		return nil, apperrors.DatabaseError("open", err)
	}
	return db, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	if dryRun {
		fmt.Fprintf(out, "Dry run mode - would migrate %d table(s) in %s\n", len(ledgerModels), appConfig.Database.Path)
		return nil
	}

	db, err := openLedgerDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.AutoMigrate(ledgerModels...); err != nil {
		return apperrors.DatabaseError("migrate", err)
	}
	fmt.Fprintf(out, "Ledger schema is up to date in %s\n", appConfig.Database.Path)
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")
	out := cmd.OutOrStdout()

	if dryRun {
		fmt.Fprintf(out, "Dry run mode - would drop %d table(s) in %s\n", len(ledgerModels), appConfig.Database.Path)
		return nil
	}

	// Confirmation prompt for destructive action
	if !yes {
		fmt.Fprint(out, "WARNING: This will delete every recorded run. Continue? (y/N): ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Migration rollback cancelled")
			return nil
		}
	}

	db, err := openLedgerDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DropTables(ledgerModels...); err != nil {
		return apperrors.DatabaseError("drop", err)
	}
	fmt.Fprintln(out, "Ledger tables dropped")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openLedgerDB()
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Ledger Status")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Database: %s\n\n", appConfig.Database.Path)

	for _, model := range ledgerModels {
		stmt := db.Model(model).Statement
		if err := stmt.Parse(model); err != nil {
			return apperrors.DatabaseError("parse schema", err)
		}
		table := stmt.Schema.Table

		if !db.HasTable(model) {
			fmt.Fprintf(out, "  %-10s missing\n", table)
			continue
		}
		var rows int64
		if err := db.Model(model).Count(&rows).Error; err != nil {
			return apperrors.DatabaseError("count", err)
		}
		fmt.Fprintf(out, "  %-10s %d row(s)\n", table, rows)
	}
	return nil
}
