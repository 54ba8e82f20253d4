// Package dbtest opens throwaway sqlite stores with the production schema for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/angelmondragon/notewell-backend/pkg/db"
	"github.com/angelmondragon/notewell-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns a connector over a private in-memory database with every model migrated.
func Open(t testing.TB) *db.Connector {
	t.Helper()

	dsn := fmt.Sprintf("file:nw_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	connector := db.Static(db.Wrap(conn))
	t.Cleanup(func() {
		_ = connector.Close()
	})
	return connector
}
