package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant_web/internal/models"
	"github.com/Skotchmaster/restaurant_web/pkg/db"
)

// NewDB opens a private in-memory sqlite database with the cart tables.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}
