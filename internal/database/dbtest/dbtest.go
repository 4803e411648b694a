// Package dbtest opens isolated in-memory SQLite stores for tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jobportal/internal/config"
	"jobportal/internal/database"
)

var seq atomic.Int64

// Open returns a migrated store private to t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := database.InitDatabase(config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		Path:     dsn,
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
