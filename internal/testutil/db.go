package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/tamuuh/tamuuh-api/internal/goal"
	"github.com/tamuuh/tamuuh-api/internal/savings"
	"github.com/tamuuh/tamuuh-api/internal/user"
	"gorm.io/gorm"
)

var testDBSeq int64

// OpenDB gives each test its own in-memory SQLite database with the
// full schema migrated.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	seq := atomic.AddInt64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:tamuuh_%d?mode=memory&cache=shared", seq)
	// Same error translation as the real connection, so constraint
	// violations surface as gorm.ErrDuplicatedKey in tests too.
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&user.User{},
		&goal.Goal{},
		&goal.GoalImage{},
		&savings.Transaction{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	return db
}
