package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "test.db"), "test-key")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.RunMigrations())
	return database
}

func TestRunMigrations_Idempotent(t *testing.T) {
	database := openTestDB(t)

	require.NoError(t, database.RunMigrations())

	v, err := database.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)

	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM sequences").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestContractorSingletonConstraint(t *testing.T) {
	database := openTestDB(t)

	_, err := database.Exec("INSERT INTO contractor (id, name) VALUES (1, 'Jane')")
	require.NoError(t, err)

	_, err = database.Exec("INSERT INTO contractor (id, name) VALUES (2, 'Other')")
	assert.Error(t, err)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := database.RunInTx(ctx, func(txCtx context.Context) error {
		assert.True(t, InTx(txCtx))
		_, err := database.Conn(txCtx).ExecContext(txCtx, "INSERT INTO clients (name) VALUES ('Acme')")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM clients").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	err := database.RunInTx(ctx, func(outer context.Context) error {
		if _, err := database.Conn(outer).ExecContext(outer, "INSERT INTO clients (name) VALUES ('Acme')"); err != nil {
			return err
		}
		return database.RunInTx(outer, func(inner context.Context) error {
			assert.True(t, InTx(inner))
			assert.Same(t, database.Conn(outer), database.Conn(inner))
			_, err := database.Conn(inner).ExecContext(inner, "INSERT INTO clients (name) VALUES ('Globex')")
			return err
		})
	})
	require.NoError(t, err)
	assert.False(t, InTx(ctx))

	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM clients").Scan(&count))
	assert.Equal(t, 2, count)
}
