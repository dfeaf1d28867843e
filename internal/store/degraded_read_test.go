package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Reads must never surface store failures to callers; these tests pin that
// policy at the driver level.

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *gorm.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{})
	require.NoError(t, err)

	return mockDB, mock, gormDB
}

func TestRegistryListAllDegradesOnStoreError(t *testing.T) {
	mockDB, mock, gormDB := setupMockDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "model_library"`).
		WillReturnError(errors.New("connection refused"))

	reg := NewRegistryStore(gormDB, zap.NewNop().Sugar())
	recs := reg.ListAll()

	assert.NotNil(t, recs)
	assert.Empty(t, recs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistryBatchLookupDegradesOnStoreError(t *testing.T) {
	mockDB, mock, gormDB := setupMockDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "model_library"`).
		WillReturnError(errors.New("connection refused"))

	reg := NewRegistryStore(gormDB, zap.NewNop().Sugar())
	got := reg.BatchLookup([]int{1, 2})

	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistryBatchLookupEmptySetIssuesNoQuery(t *testing.T) {
	mockDB, mock, gormDB := setupMockDB(t)
	defer mockDB.Close()

	// No expectations registered: any query at all would fail the test.
	reg := NewRegistryStore(gormDB, zap.NewNop().Sugar())
	got := reg.BatchLookup(nil)

	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSceneListSummariesDegradesOnStoreError(t *testing.T) {
	mockDB, mock, gormDB := setupMockDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT .+ FROM "scenes"`).
		WillReturnError(errors.New("connection refused"))

	scenes := NewSceneStore(gormDB, zap.NewNop().Sugar())
	summaries := scenes.ListSummaries()

	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSceneSaveSurfacesStoreError(t *testing.T) {
	mockDB, mock, gormDB := setupMockDB(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "scenes"`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	scenes := NewSceneStore(gormDB, zap.NewNop().Sugar())
	_, err := scenes.Save("Test", "guest", map[string]any{"features": []any{}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")
}
