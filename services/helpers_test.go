package services

import (
	"context"
	"fmt"
	"testing"

	"litigation_dashboard_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated shared-cache in-memory database.
// A single connection keeps every statement on the same in-memory schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:mem_" + uuid.New().String() + "?mode=memory&cache=shared&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type fixture struct {
	db    *gorm.DB
	firm  *models.Firm
	scope Scope
	trt1  *models.Court
	trt2  *models.Court
}

// newFixture creates a firm with two appellate courts (regions 01 and 02)
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	return newFixtureOn(t, db, "Alpha Advocacia")
}

func newFixtureOn(t *testing.T, db *gorm.DB, firmName string) *fixture {
	t.Helper()
	ctx := context.Background()

	firm, err := CreateFirm(ctx, db, firmName, "Acme")
	require.NoError(t, err)

	scope, err := NewScope(firm.ID, models.InstanceSecond)
	require.NoError(t, err)

	trt1, err := CreateCourt(ctx, db, scope, "TRT 1", "01")
	require.NoError(t, err)
	trt2, err := CreateCourt(ctx, db, scope, "TRT 2", "02")
	require.NoError(t, err)

	return &fixture{db: db, firm: firm, scope: scope, trt1: trt1, trt2: trt2}
}

// processNumber builds a CNJ number in the given region
func processNumber(seq int, region string) string {
	return fmt.Sprintf("%07d-56.2024.5.%s.0001", seq, region)
}

func row(pn, division, adjudicator, outcome, date string) RawRow {
	return RawRow{
		DecisionDate:  date,
		ProcessNumber: pn,
		Division:      division,
		Adjudicator:   adjudicator,
		Outcome:       outcome,
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
