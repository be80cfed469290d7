package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quantummesh/impactview/internal/entity"
)

// dryRunDB builds queries without a live database so the generated SQL
// can be inspected.
func dryRunDB(t *testing.T) (*gorm.DB, *capturedQuery) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=impactview dbname=impactview",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to open dry-run db: %v", err)
	}

	// Scan executes through the row callback chain, so the capture hook
	// goes there.
	captured := &capturedQuery{}
	err = db.Callback().Row().After("gorm:row").Register("capture_sql", func(tx *gorm.DB) {
		captured.sql = tx.Statement.SQL.String()
		captured.vars = tx.Statement.Vars
	})
	if err != nil {
		t.Fatalf("failed to register capture callback: %v", err)
	}

	return db, captured
}

type capturedQuery struct {
	sql  string
	vars []interface{}
}

func (c *capturedQuery) hasVar(want interface{}) bool {
	for _, v := range c.vars {
		if v == want {
			return true
		}
	}
	return false
}

func TestTopByPeriodOnlyCountsVerifiedActions(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewLeaderboardRepository(db)

	_, _ = repo.TopByPeriod(context.Background(), time.Now().AddDate(0, 0, -7), 10)

	if captured.sql == "" {
		t.Fatal("no query was built")
	}
	if !strings.Contains(captured.sql, "actions.status = ") {
		t.Errorf("period query does not filter by status: %s", captured.sql)
	}
	if !captured.hasVar(entity.ActionStatusVerified) {
		t.Errorf("period query vars %v do not pin the verified status", captured.vars)
	}
	if !strings.Contains(captured.sql, "tokens_earned IS NOT NULL") {
		t.Errorf("period query lost the scored-actions guard: %s", captured.sql)
	}
}

func TestTopByTokensRanksByLifetimeBalance(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewLeaderboardRepository(db)

	_, _ = repo.TopByTokens(context.Background(), 10)

	if !strings.Contains(captured.sql, "ORDER BY impact_tokens DESC") {
		t.Errorf("all-time query does not rank by token balance: %s", captured.sql)
	}
	if strings.Contains(captured.sql, "status") {
		t.Errorf("all-time query should not filter by status: %s", captured.sql)
	}
}
