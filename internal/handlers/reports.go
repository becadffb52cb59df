package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pos_backend/internal/models"
	"github.com/Skotchmaster/pos_backend/internal/report"
	"github.com/Skotchmaster/pos_backend/internal/service/credit"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	DB *gorm.DB
}

func (h *ReportHandler) InventoryPDF(c echo.Context) error {
	var products []models.Product
	if err := h.DB.Order("name ASC").Find(&products).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	data, err := report.InventoryPDF(products)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func (h *ReportHandler) InventoryXLSX(c echo.Context) error {
	var products []models.Product
	if err := h.DB.Order("name ASC").Find(&products).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	data, err := report.InventoryXLSX(products)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="inventario.xlsx"`)
	return c.Blob(http.StatusOK, mimeXLSX, data)
}

func (h *ReportHandler) salesForRange(c echo.Context) ([]models.Sale, error) {
	query := h.DB.Model(&models.Sale{}).Preload("Items")
	if date := c.QueryParam("date"); date != "" {
		query = query.Where("date_time LIKE ?", date+"%")
	}
	var sales []models.Sale
	err := query.Order("timestamp ASC").Find(&sales).Error
	return sales, err
}

func (h *ReportHandler) SalesPDF(c echo.Context) error {
	sales, err := h.salesForRange(c)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	data, err := report.SalesPDF(sales)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func (h *ReportHandler) SalesXLSX(c echo.Context) error {
	sales, err := h.salesForRange(c)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	data, err := report.SalesXLSX(sales)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="ventas.xlsx"`)
	return c.Blob(http.StatusOK, mimeXLSX, data)
}

func (h *ReportHandler) SaleTicket(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var s models.Sale
	if err := h.DB.Preload("Items").First(&s, id).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, err)
	}

	data, err := report.TicketPDF(&s)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func (h *ReportHandler) CreditStatement(c echo.Context) error {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	cred, err := credit.Get(c.Request().Context(), h.DB, uint(clientID))
	if err != nil {
		return errorResponse(c, http.StatusNotFound, err)
	}

	data, err := report.CreditStatementPDF(cred)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.Blob(http.StatusOK, "application/pdf", data)
}
