package gormrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"onesi/internal/domain"
)

// statement is one SQL statement gorm built, with its bound arguments
type statement struct {
	SQL  string
	Vars []any
}

// dryRun opens a MySQL-dialect gorm handle that builds SQL without connecting,
// and records every query and row statement it builds
func dryRun(t *testing.T) (*gorm.DB, *[]statement) {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "onesi:secret@tcp(127.0.0.1:3306)/onesi?parseTime=true&loc=UTC",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, Logger: logger.Discard})
	require.NoError(t, err)

	var built []statement
	record := func(tx *gorm.DB) {
		built = append(built, statement{SQL: tx.Statement.SQL.String(), Vars: append([]any(nil), tx.Statement.Vars...)})
	}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("onesi:record_query", record))
	require.NoError(t, db.Callback().Row().After("gorm:row").Register("onesi:record_row", record))
	return db, &built
}

func testWindow() domain.Window {
	now := time.Date(2024, 5, 20, 18, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	return domain.Period7d.WindowEnding(now)
}

func TestCountInWindowQuery(t *testing.T) {
	db, built := dryRun(t)
	w := testWindow()

	_, err := New(db).Clicks.CountInWindow(context.Background(), "owner-1", w)
	require.NoError(t, err)

	require.Len(t, *built, 1)
	got := (*built)[0]
	assert.Equal(t, "SELECT count(*) FROM `clicks` WHERE user_id = ? AND clicked_at >= ? AND clicked_at <= ?", got.SQL)
	assert.Equal(t, []any{"owner-1", w.From.UTC(), w.To.UTC()}, got.Vars)
}

func TestDailyCountsQuery(t *testing.T) {
	db, built := dryRun(t)
	w := testWindow()

	// Scan has no rows to read in dry-run mode, the statement is still built
	_, err := New(db).Clicks.DailyCounts(context.Background(), "owner-1", w)
	require.ErrorIs(t, err, gorm.ErrDryRunModeUnsupported)

	require.Len(t, *built, 1)
	got := (*built)[0]
	assert.Equal(t, "SELECT DATE(clicked_at) AS day, COUNT(*) AS clicks FROM `clicks` "+
		"WHERE user_id = ? AND clicked_at >= ? AND clicked_at <= ? "+
		"GROUP BY DATE(clicked_at) ORDER BY day ASC", got.SQL)
	assert.Equal(t, []any{"owner-1", w.From.UTC(), w.To.UTC()}, got.Vars)
}

func TestTopTargetsQuery(t *testing.T) {
	db, built := dryRun(t)
	w := testWindow()

	_, err := New(db).Clicks.TopTargets(context.Background(), "owner-1", domain.TargetProduct, w, 5)
	require.ErrorIs(t, err, gorm.ErrDryRunModeUnsupported)

	require.Len(t, *built, 1)
	got := (*built)[0]
	assert.Equal(t, "SELECT target_id, COUNT(*) AS clicks FROM `clicks` "+
		"WHERE (user_id = ? AND clicked_at >= ? AND clicked_at <= ?) AND target_type = ? "+
		"GROUP BY `target_id` ORDER BY clicks DESC,target_id ASC LIMIT ?", got.SQL)
	assert.Equal(t, []any{"owner-1", w.From.UTC(), w.To.UTC(), domain.TargetProduct, 5}, got.Vars)
}

func TestWindowBoundsAreUTC(t *testing.T) {
	db, built := dryRun(t)
	w := testWindow()
	require.NotEqual(t, time.UTC, w.To.Location())

	_, err := New(db).Clicks.CountInWindow(context.Background(), "owner-1", w)
	require.NoError(t, err)

	require.Len(t, *built, 1)
	for _, v := range (*built)[0].Vars[1:] {
		at, ok := v.(time.Time)
		require.True(t, ok)
		assert.Equal(t, time.UTC, at.Location())
	}
}

func TestTopProductsQuery(t *testing.T) {
	db, built := dryRun(t)

	_, err := New(db).Products.TopByClicks(context.Background(), "owner-1", 5)
	require.NoError(t, err)

	require.Len(t, *built, 1)
	got := (*built)[0]
	assert.Equal(t, "SELECT * FROM `products` WHERE user_id = ? ORDER BY clicks DESC,created_at ASC LIMIT ?", got.SQL)
	assert.Equal(t, []any{"owner-1", 5}, got.Vars)
}
