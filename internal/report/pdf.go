package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Skotchmaster/pos_backend/internal/models"
	"github.com/jung-kurt/gofpdf"
)

// InventoryPDF renders the product list as a fixed-layout table.
func InventoryPDF(products []models.Product) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Inventario")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"ID", "Producto", "Precio", "Cantidad", "Caducidad"}
	widths := []float64{15, 80, 30, 25, 40}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, p := range products {
		pdf.CellFormat(widths[0], 7, fmt.Sprintf("%d", p.ID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, p.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("$%.2f", p.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%d", p.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 7, p.ExpiryDate, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 6, "Generado: "+time.Now().Format(models.DateTimeLayout))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: inventory pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// SalesPDF renders a list of sales with one line per sale.
func SalesPDF(sales []models.Sale) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Ventas")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"ID", "Fecha", "Cliente", "Vendedor", "Total"}
	widths := []float64{15, 45, 55, 45, 30}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	var total float64
	pdf.SetFont("Arial", "", 10)
	for _, s := range sales {
		client := s.ClientName
		if client == "" {
			client = "Publico general"
		}
		pdf.CellFormat(widths[0], 7, fmt.Sprintf("%d", s.ID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, s.DateTime, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, client, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, s.SellerName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 7, fmt.Sprintf("$%.2f", s.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		total += s.Total
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 8, fmt.Sprintf("$%.2f", total), "1", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: sales pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// TicketPDF renders a thermal-printer style receipt for one sale.
func TicketPDF(sale *models.Sale) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: 80, Ht: 160 + float64(len(sale.Items))*5},
	})
	pdf.SetMargins(5, 5, 5)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(70, 6, "Ticket de venta", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(70, 4, fmt.Sprintf("Folio: %d", sale.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(70, 4, sale.DateTime, "", 1, "C", false, 0, "")
	if sale.ClientName != "" {
		pdf.CellFormat(70, 4, "Cliente: "+sale.ClientName, "", 1, "C", false, 0, "")
	}
	if sale.SellerName != "" {
		pdf.CellFormat(70, 4, "Atendio: "+sale.SellerName, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(70, 3, "--------------------------------", "", 1, "C", false, 0, "")

	for _, it := range sale.Items {
		pdf.CellFormat(40, 4, it.ProductName, "", 0, "L", false, 0, "")
		pdf.CellFormat(10, 4, fmt.Sprintf("x%d", it.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(20, 4, fmt.Sprintf("$%.2f", it.Subtotal), "", 1, "R", false, 0, "")
	}

	pdf.CellFormat(70, 3, "--------------------------------", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 5, "Total", "", 0, "L", false, 0, "")
	pdf.CellFormat(20, 5, fmt.Sprintf("$%.2f", sale.Total), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(70, 6, "Gracias por su compra", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: ticket pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// CreditStatementPDF renders a client's ledger with its movements.
func CreditStatementPDF(cred *models.Credit) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Estado de cuenta: "+cred.ClientName)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"Fecha", "Tipo", "Descripcion", "Monto"}
	widths := []float64{40, 25, 90, 35}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, m := range cred.Movements {
		pdf.CellFormat(widths[0], 7, m.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, m.Type, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, m.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("$%.2f", m.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, "Deuda total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 8, fmt.Sprintf("$%.2f", cred.TotalDebt), "1", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: credit pdf: %w", err)
	}
	return buf.Bytes(), nil
}
