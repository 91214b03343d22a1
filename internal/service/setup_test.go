package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/ledgersift/internal/database"
	"github.com/jask/ledgersift/internal/database/repository"
)

type testRepos struct {
	db           *sql.DB
	transactions *repository.TransactionRepo
	accounts     *repository.AccountRepo
	tags         *repository.TagRepo
	runs         *repository.RunRepo
}

func setupRepos(t *testing.T) (testRepos, context.Context) {
	t.Helper()
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return testRepos{
		db:           db,
		transactions: repository.NewTransactionRepo(db),
		accounts:     repository.NewAccountRepo(db),
		tags:         repository.NewTagRepo(db),
		runs:         repository.NewRunRepo(db),
	}, ctx
}
