package stock

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pos_backend/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Entry{}))
	return db
}

func entryFor(t *testing.T, db *gorm.DB, productID uint) models.Entry {
	t.Helper()
	var entry models.Entry
	require.NoError(t, db.Where("product_id = ?", productID).First(&entry).Error)
	return entry
}

// outsideWindow is far enough in the past that an edit never counts as a
// correction of the previous save.
func outsideWindow() int64 {
	return time.Now().Add(-10 * time.Minute).Unix()
}

func TestReconcileNewProduct(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := models.Product{Name: "arroz", Price: 25, Quantity: 10}
	require.NoError(t, db.Create(&p).Error)

	require.NoError(t, Reconcile(ctx, db, &p, 0, true, 0))

	entry := entryFor(t, db, p.ID)
	require.Equal(t, 10, entry.Quantity)
	require.Equal(t, "arroz", entry.ProductName)
	require.Equal(t, time.Now().Format(models.DateLayout), entry.Date)
}

func TestReconcileSameDayIncreaseAccumulates(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := models.Product{Name: "frijol", Price: 30, Quantity: 10}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, Reconcile(ctx, db, &p, 0, true, 0))

	p.Quantity = 15
	require.NoError(t, Reconcile(ctx, db, &p, 10, false, outsideWindow()))
	require.Equal(t, 15, entryFor(t, db, p.ID).Quantity)

	p.Quantity = 18
	require.NoError(t, Reconcile(ctx, db, &p, 15, false, outsideWindow()))
	require.Equal(t, 18, entryFor(t, db, p.ID).Quantity)

	var count int64
	require.NoError(t, db.Model(&models.Entry{}).Where("product_id = ?", p.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestReconcileIncreaseAfterStaleEntry(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := models.Product{Name: "aceite", Price: 45, Quantity: 10}
	require.NoError(t, db.Create(&p).Error)

	yesterday := time.Now().Add(-24 * time.Hour)
	require.NoError(t, db.Create(&models.Entry{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    10,
		Date:        yesterday.Format(models.DateLayout),
		DateTime:    yesterday.Format(models.DateTimeLayout),
		Timestamp:   yesterday.Unix(),
	}).Error)

	// Yesterday's entry does not absorb today's intake: the entry
	// restarts with just the diff.
	p.Quantity = 15
	require.NoError(t, Reconcile(ctx, db, &p, 10, false, outsideWindow()))
	entry := entryFor(t, db, p.ID)
	require.Equal(t, 5, entry.Quantity)
	require.Equal(t, time.Now().Format(models.DateLayout), entry.Date)

	// A second intake the same day accumulates into the restarted entry.
	p.Quantity = 18
	require.NoError(t, Reconcile(ctx, db, &p, 15, false, outsideWindow()))
	require.Equal(t, 8, entryFor(t, db, p.ID).Quantity)
}

func TestReconcileDecreaseOverwrites(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := models.Product{Name: "azucar", Price: 20, Quantity: 18}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, Reconcile(ctx, db, &p, 0, true, 0))

	p.Quantity = 14
	require.NoError(t, Reconcile(ctx, db, &p, 18, false, outsideWindow()))
	require.Equal(t, 14, entryFor(t, db, p.ID).Quantity)
}

func TestReconcileQuickEditOverwrites(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := models.Product{Name: "cafe", Price: 80, Quantity: 10}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, Reconcile(ctx, db, &p, 0, true, 0))

	// An increase right after the previous save is a typo fix, not a new
	// intake: the entry takes the absolute quantity instead of the diff.
	p.Quantity = 12
	require.NoError(t, Reconcile(ctx, db, &p, 10, false, time.Now().Unix()))
	require.Equal(t, 12, entryFor(t, db, p.ID).Quantity)
}

func TestReconcileNoChangeIsNoop(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := models.Product{Name: "sal", Price: 10, Quantity: 7}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, Reconcile(ctx, db, &p, 0, true, 0))
	before := entryFor(t, db, p.ID)

	require.NoError(t, Reconcile(ctx, db, &p, 7, false, outsideWindow()))
	require.Equal(t, before, entryFor(t, db, p.ID))
}

func TestReconcileRenameFollowsProduct(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := models.Product{Name: "lechee", Price: 22, Quantity: 5}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, Reconcile(ctx, db, &p, 0, true, 0))

	p.Name = "leche"
	p.Quantity = 3
	require.NoError(t, Reconcile(ctx, db, &p, 5, false, outsideWindow()))

	entry := entryFor(t, db, p.ID)
	require.Equal(t, "leche", entry.ProductName)
	require.Equal(t, 3, entry.Quantity)
}
