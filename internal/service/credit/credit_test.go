package credit

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pos_backend/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Credit{}, &models.CreditMovement{}, &models.MovementItem{}))
	return db
}

func TestChargeCreatesRecord(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	items := []models.SaleItem{
		{ProductID: 1, ProductName: "arroz", UnitPrice: 25, Quantity: 2, Subtotal: 50},
	}
	require.NoError(t, Charge(ctx, db, 7, "Maria Lopez", 50, 1, items))

	cred, err := Get(ctx, db, 7)
	require.NoError(t, err)
	require.Equal(t, "Maria Lopez", cred.ClientName)
	require.Equal(t, 50.0, cred.TotalDebt)
	require.Len(t, cred.Movements, 1)
	require.Equal(t, models.MovementCharge, cred.Movements[0].Type)
	require.Equal(t, "venta a credito", cred.Movements[0].Description)
	require.Len(t, cred.Movements[0].Items, 1)
}

func TestSameDayChargesMerge(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := []models.SaleItem{
		{ProductID: 1, ProductName: "arroz", UnitPrice: 25, Quantity: 2, Subtotal: 50},
	}
	second := []models.SaleItem{
		{ProductID: 2, ProductName: "frijol", UnitPrice: 30, Quantity: 1, Subtotal: 30},
	}
	require.NoError(t, Charge(ctx, db, 7, "Maria Lopez", 50, 1, first))
	require.NoError(t, Charge(ctx, db, 7, "Maria Lopez", 30, 2, second))

	cred, err := Get(ctx, db, 7)
	require.NoError(t, err)
	require.Equal(t, 80.0, cred.TotalDebt)

	// Same-day purchases collapse into one movement with both item lists.
	require.Len(t, cred.Movements, 1)
	mov := cred.Movements[0]
	require.Equal(t, 80.0, mov.Amount)
	require.Equal(t, "compras acumuladas del dia", mov.Description)
	require.Len(t, mov.Items, 2)
}

func TestChargeKeepsOneRecordPerClient(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, Charge(ctx, db, 3, "Juan", 10, 1, nil))
	require.NoError(t, Charge(ctx, db, 3, "Juan", 15, 2, nil))

	var count int64
	require.NoError(t, db.Model(&models.Credit{}).Where("client_id = ?", 3).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestChargeRequiresClient(t *testing.T) {
	db := testDB(t)
	require.Error(t, Charge(context.Background(), db, 0, "", 10, 1, nil))
}

func TestGetUnknownClient(t *testing.T) {
	db := testDB(t)
	_, err := Get(context.Background(), db, 99)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
