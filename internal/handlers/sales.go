package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pos_backend/internal/livefeed"
	"github.com/Skotchmaster/pos_backend/internal/models"
	"github.com/Skotchmaster/pos_backend/internal/mykafka"
	"github.com/Skotchmaster/pos_backend/internal/service/sale"
	"github.com/Skotchmaster/pos_backend/internal/util"
)

type SaleHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Hub      *livefeed.Hub
}

func (h *SaleHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "sale_events", fmt.Sprint(event["saleID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
	if h.Hub != nil {
		h.Hub.Notify(c.Request().Context(), "sales")
		h.Hub.Notify(c.Request().Context(), "products")
		h.Hub.Notify(c.Request().Context(), "credits")
	}
}

func (h *SaleHandler) CreateSale(c echo.Context) error {
	var req struct {
		ClientID uint             `json:"client_id"`
		OnCredit bool             `json:"on_credit"`
		Items    []sale.ItemInput `json:"items"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	in := sale.Input{
		ClientID: req.ClientID,
		OnCredit: req.OnCredit,
		Items:    req.Items,
	}

	if req.ClientID != 0 {
		var client models.Client
		if err := h.DB.First(&client, req.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusBadRequest, "client not found")
			}
			return errorResponse(c, http.StatusInternalServerError, err)
		}
		in.ClientName = client.Name + " " + client.LastName
	}

	if sellerID, ok := c.Get("userID").(uint); ok {
		in.SellerID = sellerID
		var seller models.User
		if err := h.DB.First(&seller, sellerID).Error; err == nil {
			in.SellerName = seller.Name
		}
	}

	s, err := sale.Finalize(c.Request().Context(), h.DB, in)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	audit(c, h.DB, "venta_registrada", fmt.Sprintf("folio %d total %.2f", s.ID, s.Total))
	h.publish(c, map[string]any{
		"type":      "sale_created",
		"saleID":    s.ID,
		"total":     s.Total,
		"on_credit": req.OnCredit,
	})

	return c.JSON(http.StatusCreated, s)
}

func (h *SaleHandler) GetSale(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var s models.Sale
	if err := h.DB.Preload("Items").First(&s, id).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SaleHandler) GetSales(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.Sale{})
	if date := c.QueryParam("date"); date != "" {
		query = query.Where("date_time LIKE ?", date+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var items []models.Sale
	if err := query.Preload("Items").Order("timestamp DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var sum float64
	for _, s := range items {
		sum += s.Total
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":     page,
			"size":     limit,
			"total":    total,
			"page_sum": sum,
			"has_prev": page > 1,
			"has_next": int64(offset+limit) < total,
		},
	})
}

func (h *SaleHandler) DeleteSale(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if err := h.DB.Where("sale_id = ?", id).Delete(&models.SaleItem{}).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	if err := h.DB.Delete(&models.Sale{}, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	audit(c, h.DB, "venta_eliminada", fmt.Sprintf("folio %d", id))
	h.publish(c, map[string]any{
		"type":   "sale_deleted",
		"saleID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
