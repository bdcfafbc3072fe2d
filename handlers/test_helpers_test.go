package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"litigation_dashboard_go/models"
	"litigation_dashboard_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testMaxRows = 5

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = testDB.AutoMigrate(models.All()...)
	assert.NoError(t, err)
	return testDB
}

type testServer struct {
	e     *echo.Echo
	db    *gorm.DB
	firm  *models.Firm
	scope services.Scope
	court *models.Court
}

// setupServer registers the API on a fresh database holding one firm with TRT 1 in second instance
func setupServer(t *testing.T) *testServer {
	t.Helper()
	database := setupTestDB(t)
	ctx := context.Background()

	firm, err := services.CreateFirm(ctx, database, "Silva Associados", "Acme")
	require.NoError(t, err)
	scope, err := services.NewScope(firm.ID, models.InstanceSecond)
	require.NoError(t, err)
	court, err := services.CreateCourt(ctx, database, scope, "TRT 1", "01")
	require.NoError(t, err)

	importer := services.NewDecisionImporter(database, services.WithMaxRows(testMaxRows))
	api := NewAPI(database, services.NewDashboardService(database, nil), importer, nil)

	e := echo.New()
	api.Register(e, nil)

	return &testServer{e: e, db: database, firm: firm, scope: scope, court: court}
}

func (s *testServer) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/firms/"+s.firm.Slug+path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(http.MethodGet, path, nil, "")
}

func processNumber(seq int) string {
	return fmt.Sprintf("%07d-56.2024.5.01.0001", seq)
}
