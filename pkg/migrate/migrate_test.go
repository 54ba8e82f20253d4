package migrate

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/notewell-backend/pkg/config"
	"github.com/angelmondragon/notewell-backend/pkg/db"
	"github.com/angelmondragon/notewell-backend/pkg/logger"
)

func TestEmbeddedMigrationsValidate(t *testing.T) {
	require.NoError(t, ValidateDir(DefaultDir))
}

func TestIdentitiesMigrationEnforcesUniqueness(t *testing.T) {
	content := readMigration(t, "_create_identities.sql")
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS identities",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_identities_email",
		"idx_identities_identity_provider_id",
		"'identity-provider'",
	} {
		assert.Contains(t, content, want)
	}
}

func TestNotesMigrationReferencesOwner(t *testing.T) {
	content := readMigration(t, "_create_notes.sql")
	assert.Contains(t, content, "REFERENCES identities (id) ON DELETE CASCADE")
	assert.Contains(t, content, "title VARCHAR(100) NOT NULL")
	assert.Contains(t, content, "idx_notes_owner_created")
}

func TestValidateFSRejectsBadFiles(t *testing.T) {
	good := "-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n"

	err := ValidateFS(fstest.MapFS{"m/bad_name.sql": {Data: []byte(good)}}, "m")
	assert.ErrorContains(t, err, "invalid migration filename")

	err = ValidateFS(fstest.MapFS{
		"m/20260101000000_a.sql": {Data: []byte(good)},
		"m/20260101000000_b.sql": {Data: []byte(good)},
	}, "m")
	assert.ErrorContains(t, err, "duplicate migration version")

	err = ValidateFS(fstest.MapFS{"m/20260101000000_a.sql": {Data: []byte("-- +goose Up\n")}}, "m")
	assert.ErrorContains(t, err, "missing")
}

func TestAutoRunMigratesSQLite(t *testing.T) {
	cfg := &config.Config{
		App: config.AppConfig{Env: config.AppEnvProd},
		DB:  config.DBConfig{Driver: config.DBDriverSQLite, DSN: "file:autorun?mode=memory&cache=shared", ConnectAttempts: 1},
	}
	client, err := db.New(context.Background(), cfg.DB, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, AutoRun(context.Background(), cfg, logger.Nop(), client))
	assert.True(t, client.DB().Migrator().HasTable("identities"))
	assert.True(t, client.DB().Migrator().HasTable("notes"))
}

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	entries, err := fs.ReadDir(embedded, DefaultDir)
	require.NoError(t, err)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			b, err := fs.ReadFile(embedded, DefaultDir+"/"+e.Name())
			require.NoError(t, err)
			return string(b)
		}
	}
	t.Fatalf("no migration ending in %s", suffix)
	return ""
}
