package report

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Skotchmaster/pos_backend/internal/models"
)

func sampleSale() *models.Sale {
	return &models.Sale{
		ID:         1,
		ClientName: "Maria Lopez",
		Total:      80,
		DateTime:   "01/08/2026 10:05:00",
		SellerName: "Ana",
		Items: []models.SaleItem{
			{ProductName: "arroz", UnitPrice: 25, Quantity: 2, Subtotal: 50},
			{ProductName: "frijol", UnitPrice: 30, Quantity: 1, Subtotal: 30},
		},
	}
}

func TestInventoryPDF(t *testing.T) {
	data, err := InventoryPDF([]models.Product{
		{ID: 1, Name: "arroz", Price: 25, Quantity: 10},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestSalesPDF(t *testing.T) {
	data, err := SalesPDF([]models.Sale{*sampleSale()})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestTicketPDF(t *testing.T) {
	data, err := TicketPDF(sampleSale())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestCreditStatementPDF(t *testing.T) {
	data, err := CreditStatementPDF(&models.Credit{
		ClientName: "Maria Lopez",
		TotalDebt:  80,
		Movements: []models.CreditMovement{
			{Date: "01/08/2026", Amount: 80, Type: models.MovementCharge, Description: "venta a credito"},
		},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestInventoryXLSX(t *testing.T) {
	data, err := InventoryXLSX([]models.Product{
		{ID: 1, Name: "arroz", Price: 25, Quantity: 10},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	cell, err := f.GetCellValue("Inventario", "B2")
	require.NoError(t, err)
	require.Equal(t, "arroz", cell)
}

func TestSalesXLSX(t *testing.T) {
	data, err := SalesXLSX([]models.Sale{*sampleSale()})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ventas")
	require.NoError(t, err)
	require.Greater(t, len(rows), 1)
}

func TestProductBarcodePNG(t *testing.T) {
	data, err := ProductBarcodePNG(42)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 300, img.Bounds().Dx())
	require.Equal(t, 120, img.Bounds().Dy())
}
