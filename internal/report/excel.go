package report

import (
	"fmt"

	"github.com/Skotchmaster/pos_backend/internal/models"
	"github.com/xuri/excelize/v2"
)

// InventoryXLSX renders the product list as a spreadsheet.
func InventoryXLSX(products []models.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventario"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("report: inventory xlsx: %w", err)
	}

	headers := []string{"ID", "Producto", "Precio", "Cantidad", "Caducidad"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("report: inventory xlsx: %w", err)
		}
	}

	for row, p := range products {
		values := []interface{}{p.ID, p.Name, p.Price, p.Quantity, p.ExpiryDate}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("report: inventory xlsx: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: inventory xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// SalesXLSX renders sales with one row per line item.
func SalesXLSX(sales []models.Sale) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Ventas"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("report: sales xlsx: %w", err)
	}

	headers := []string{"Venta", "Fecha", "Cliente", "Producto", "Precio", "Cantidad", "Importe"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("report: sales xlsx: %w", err)
		}
	}

	row := 2
	for _, s := range sales {
		for _, it := range s.Items {
			values := []interface{}{s.ID, s.DateTime, s.ClientName, it.ProductName, it.UnitPrice, it.Quantity, it.Subtotal}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, fmt.Errorf("report: sales xlsx: %w", err)
				}
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: sales xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
