package database

import (
	"fmt"
	"testing"
	"time"

	"docchain-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One named in-memory database per test, shared across pooled connections.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.DocumentCounter{}))
	return db
}

func TestNextDocumentNumber(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	n1, err := NextDocumentNumber(db, models.TypeInvoice, now)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", n1)

	n2, err := NextDocumentNumber(db, models.TypeInvoice, now)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0002", n2)

	// Sequences are independent per type...
	q1, err := NextDocumentNumber(db, models.TypeQuotation, now)
	require.NoError(t, err)
	assert.Equal(t, "QT-2026-0001", q1)

	// ...and per year.
	nextYear := now.AddDate(1, 0, 0)
	n3, err := NextDocumentNumber(db, models.TypeInvoice, nextYear)
	require.NoError(t, err)
	assert.Equal(t, "INV-2027-0001", n3)
}

func TestNextDocumentNumber_UnknownType(t *testing.T) {
	db := testDB(t)
	_, err := NextDocumentNumber(db, "memo", time.Now())
	assert.Error(t, err)
}

func TestBumpCounterTo(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	require.NoError(t, BumpCounterTo(db, models.TypeInvoice, "INV-2026-0041", now))
	n, err := NextDocumentNumber(db, models.TypeInvoice, now)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0042", n)

	// Bumping backwards is a no-op.
	require.NoError(t, BumpCounterTo(db, models.TypeInvoice, "INV-2026-0005", now))
	n, err = NextDocumentNumber(db, models.TypeInvoice, now)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0043", n)

	// Numbers without a trailing integer are ignored.
	require.NoError(t, BumpCounterTo(db, models.TypeInvoice, "INV-FINAL", now))
}
