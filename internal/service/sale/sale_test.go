package sale

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
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Entry{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Credit{},
		&models.CreditMovement{},
		&models.MovementItem{},
	))
	return db
}

func seedProducts(t *testing.T, db *gorm.DB) (models.Product, models.Product) {
	t.Helper()
	arroz := models.Product{Name: "arroz", Price: 25, Quantity: 10}
	frijol := models.Product{Name: "frijol", Price: 30, Quantity: 4}
	require.NoError(t, db.Create(&arroz).Error)
	require.NoError(t, db.Create(&frijol).Error)
	return arroz, frijol
}

func TestFinalizeComputesTotalAndDecrements(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	arroz, frijol := seedProducts(t, db)

	s, err := Finalize(ctx, db, Input{
		SellerID:   1,
		SellerName: "Ana",
		Items: []ItemInput{
			{ProductID: arroz.ID, Quantity: 2},
			{ProductID: frijol.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 80.0, s.Total)
	require.Len(t, s.Items, 2)
	require.Equal(t, "arroz", s.Items[0].ProductName)
	require.Equal(t, 50.0, s.Items[0].Subtotal)

	var p models.Product
	require.NoError(t, db.First(&p, arroz.ID).Error)
	require.Equal(t, 8, p.Quantity)
	var p2 models.Product
	require.NoError(t, db.First(&p2, frijol.ID).Error)
	require.Equal(t, 3, p2.Quantity)

	// A sale moves stock out, it never touches the intake history.
	var entries int64
	require.NoError(t, db.Model(&models.Entry{}).Count(&entries).Error)
	require.EqualValues(t, 0, entries)
}

func TestFinalizeUnknownProduct(t *testing.T) {
	db := testDB(t)

	_, err := Finalize(context.Background(), db, Input{
		Items: []ItemInput{{ProductID: 999, Quantity: 1}},
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestFinalizeNoItems(t *testing.T) {
	db := testDB(t)
	_, err := Finalize(context.Background(), db, Input{})
	require.Error(t, err)
}

func TestFinalizeDefaultsQuantityToOne(t *testing.T) {
	db := testDB(t)
	arroz, _ := seedProducts(t, db)

	s, err := Finalize(context.Background(), db, Input{
		Items: []ItemInput{{ProductID: arroz.ID, Quantity: 0}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, s.Items[0].Quantity)
	require.Equal(t, 25.0, s.Total)
}

func TestFinalizeOnCreditChargesClient(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	arroz, _ := seedProducts(t, db)

	s, err := Finalize(ctx, db, Input{
		ClientID:   7,
		ClientName: "Maria Lopez",
		OnCredit:   true,
		Items:      []ItemInput{{ProductID: arroz.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	var cred models.Credit
	require.NoError(t, db.Where("client_id = ?", 7).First(&cred).Error)
	require.Equal(t, s.Total, cred.TotalDebt)

	var mov models.CreditMovement
	require.NoError(t, db.Where("credit_id = ?", cred.ID).First(&mov).Error)
	require.Equal(t, models.MovementCharge, mov.Type)
	require.Equal(t, s.ID, mov.SaleID)
}

func TestFinalizeCashSaleLeavesNoCredit(t *testing.T) {
	db := testDB(t)
	arroz, _ := seedProducts(t, db)

	_, err := Finalize(context.Background(), db, Input{
		ClientID:   7,
		ClientName: "Maria Lopez",
		OnCredit:   false,
		Items:      []ItemInput{{ProductID: arroz.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Credit{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}
