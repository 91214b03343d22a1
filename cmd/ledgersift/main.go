package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/ledgersift/internal/config"
	"github.com/jask/ledgersift/internal/database"
	"github.com/jask/ledgersift/internal/database/repository"
	"github.com/jask/ledgersift/internal/ledger"
	"github.com/jask/ledgersift/internal/logging"
	"github.com/jask/ledgersift/internal/service"
	"github.com/jask/ledgersift/internal/testdata"
	"github.com/jask/ledgersift/internal/tui"
)

const migrationsPath = "internal/database/migrations"

type app struct {
	cfg config.Config
	db  *sql.DB

	transactions *repository.TransactionRepo
	accounts     *repository.AccountRepo
	tags         *repository.TagRepo
	runs         *repository.RunRepo
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.RunMigrationsWithDB(db, migrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &app{
		cfg:          cfg,
		db:           db,
		transactions: repository.NewTransactionRepo(db),
		accounts:     repository.NewAccountRepo(db),
		tags:         repository.NewTagRepo(db),
		runs:         repository.NewRunRepo(db),
	}, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func main() {
	log := logging.New(os.Getenv("LEDGERSIFT_LOG_LEVEL"))
	ctx := context.Background()

	var a *app
	root := &cobra.Command{
		Use:          "ledgersift",
		Short:        "ingest bank exports and reconcile internal transfers and returns",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "import <account>.csv exports from the sources directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := &service.IngestService{
				Transactions: a.transactions,
				Accounts:     a.accounts,
				Formats:      service.DefaultFormats(),
			}
			res, err := svc.ImportAll(ctx, a.cfg.Sources.Path, a.cfg.Accounts)
			if err != nil {
				return err
			}
			for _, e := range res.Errors {
				log.Warn("ingest row skipped", "err", e)
			}
			log.Info("ingest complete", "imported", res.Imported, "skipped", res.Skipped, "errors", len(res.Errors))
			return nil
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "flag internal transfers and returns across all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := &service.Reconciler{
				Transactions:        a.transactions,
				Accounts:            a.accounts,
				Runs:                a.runs,
				SimilarityThreshold: a.cfg.Matching.SimilarityThreshold,
				DateWindowDays:      a.cfg.Matching.DateWindowDays,
			}
			summary, err := svc.Run(ctx)
			if err != nil {
				return err
			}
			for _, line := range summary.Log {
				fmt.Println(line)
			}
			log.Info("reconcile complete",
				"passes", summary.Passes,
				"transfer_pairs", summary.TransferPairs,
				"return_pairs", summary.ReturnPairs,
				"flagged", summary.Flagged)
			return nil
		},
	}

	tagCmd := &cobra.Command{
		Use:   "tag",
		Short: "apply configured tag rules to transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := &service.Tagger{Transactions: a.transactions, Tags: a.tags}
			n, err := svc.Apply(ctx, a.cfg.Rules)
			if err != nil {
				return err
			}
			log.Info("tagging complete", "attached", n)
			return nil
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "write CSV reports excluding reconciled transfers",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := &service.Reporter{Transactions: a.transactions, Accounts: a.accounts}
			totals, err := svc.Totals(ctx)
			if err != nil {
				return err
			}
			if err := svc.WriteCSV(ctx, a.cfg.Report.Path); err != nil {
				return err
			}
			fmt.Printf("total spent: %s\n", ledger.FormatCents(totals.SpentCents))
			fmt.Printf("total income: %s\n", ledger.FormatCents(totals.IncomeCents))
			fmt.Printf("excluded %d reconciled pairs\n", totals.ReconciledPairs)
			return nil
		},
	}

	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "browse reconciliation run logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := tui.NewApp(ctx, a.runs)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "load deterministic sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return testdata.Seed(ctx, testdata.Repos{
				Accounts:     a.accounts,
				Transactions: a.transactions,
			})
		},
	}

	root.AddCommand(ingestCmd, reconcileCmd, tagCmd, reportCmd, reviewCmd, seedCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
