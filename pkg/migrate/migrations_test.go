package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardapiohub/cardapio-backend/pkg/db"
	"github.com/cardapiohub/cardapio-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestFlowMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_flow_tables.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no flow migration file found")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS category_flow_steps",
		"PRIMARY KEY (store_id, category_id, step_type)",
		"CREATE TABLE IF NOT EXISTS upsell_prompts",
		"CREATE INDEX IF NOT EXISTS idx_upsell_prompts_trigger",
		"CREATE TABLE IF NOT EXISTS cart_lines",
	} {
		require.Truef(t, strings.Contains(content, sub), "missing expected statement %q", sub)
	}
}

func TestCatalogMigrationPricesPerSize(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_catalog_tables.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.Contains(t, string(data), "PRIMARY KEY (option_id, size_id)")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Combo Prompts!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_combo_prompts.sql"))
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "  !!  ")
	require.Error(t, err)
}

func TestParseVersion(t *testing.T) {
	v, err := migrate.ParseVersion("20260301120000")
	require.NoError(t, err)
	require.Equal(t, int64(20260301120000), v)

	for _, raw := range []string{"", "2026", "20261301120000", "2026030112000x"} {
		_, err := migrate.ParseVersion(raw)
		require.Errorf(t, err, "expected %q to be rejected", raw)
	}
}

func TestRunRejectsSQLite(t *testing.T) {
	err := migrate.Run(context.Background(), nil, db.DialectSQLite, "migrations", "up")
	require.ErrorContains(t, err, "postgres")
}
