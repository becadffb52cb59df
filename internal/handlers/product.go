package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pos_backend/internal/livefeed"
	"github.com/Skotchmaster/pos_backend/internal/models"
	"github.com/Skotchmaster/pos_backend/internal/mykafka"
	"github.com/Skotchmaster/pos_backend/internal/report"
	"github.com/Skotchmaster/pos_backend/internal/service/search"
	"github.com/Skotchmaster/pos_backend/internal/service/stock"
	"github.com/Skotchmaster/pos_backend/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Hub      *livefeed.Hub
	ES       *elasticsearch.Client
	ESIndex  string
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
	if h.Hub != nil {
		h.Hub.Notify(c.Request().Context(), "products")
		h.Hub.Notify(c.Request().Context(), "entries")
	}
}

func (h *ProductHandler) index(c echo.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	if err := search.IndexProduct(c.Request().Context(), h.ES, h.ESIndex, p); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	product := models.Product{}
	if err := h.DB.Where("id = ?", id).First(&product).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.Product{})
	if q := c.QueryParam("q"); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var items []models.Product
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

// GetExpiring lists products whose expiry date falls on or before the
// given date (?before=, defaulting to today). Products without an expiry
// date, or with one that does not parse, are left out.
func (h *ProductHandler) GetExpiring(c echo.Context) error {
	before := c.QueryParam("before")
	if before == "" {
		before = time.Now().Format(models.DateLayout)
	}
	cutoff, err := time.Parse(models.DateLayout, before)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid before date")
	}

	var products []models.Product
	if err := h.DB.Where("expiry_date <> ''").Order("id ASC").Find(&products).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	expiring := make([]models.Product, 0, len(products))
	for _, p := range products {
		exp, err := time.Parse(models.DateLayout, p.ExpiryDate)
		if err != nil {
			continue
		}
		if !exp.After(cutoff) {
			expiring = append(expiring, p)
		}
	}
	return c.JSON(http.StatusOK, expiring)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req struct {
		Name       string  `json:"name"`
		Price      float64 `json:"price"`
		Quantity   int     `json:"quantity"`
		ExpiryDate string  `json:"expiry_date"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price cannot be negative")
	}

	prod := models.Product{
		Name:       req.Name,
		Price:      req.Price,
		Quantity:   req.Quantity,
		ExpiryDate: req.ExpiryDate,
	}

	if err := h.DB.Create(&prod).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	// Entry bookkeeping is best-effort, a product save never fails
	// because of it.
	if err := stock.Reconcile(c.Request().Context(), h.DB, &prod, 0, true, 0); err != nil {
		c.Logger().Errorf("entry bookkeeping error: %v", err)
	}

	h.index(c, &prod)
	audit(c, h.DB, "producto_creado", fmt.Sprintf("%s (id %d)", prod.Name, prod.ID))
	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Name       *string  `json:"name"`
		Price      *float64 `json:"price"`
		Quantity   *int     `json:"quantity"`
		ExpiryDate *string  `json:"expiry_date"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, err)
	}

	oldQuantity := prod.Quantity
	prevUpdatedAt := prod.UpdatedAt

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "price cannot be negative")
		}
		prod.Price = *req.Price
	}
	if req.Quantity != nil {
		prod.Quantity = *req.Quantity
	}
	if req.ExpiryDate != nil {
		prod.ExpiryDate = *req.ExpiryDate
	}

	if err := h.DB.Save(&prod).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if err := stock.Reconcile(c.Request().Context(), h.DB, &prod, oldQuantity, false, prevUpdatedAt); err != nil {
		c.Logger().Errorf("entry bookkeeping error: %v", err)
	}

	h.index(c, &prod)
	audit(c, h.DB, "producto_editado", fmt.Sprintf("%s (id %d)", prod.Name, prod.ID))
	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if err := h.DB.Delete(&models.Product{}, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	// The entry row of a deleted product goes with it.
	if err := h.DB.Where("product_id = ?", id).Delete(&models.Entry{}).Error; err != nil {
		c.Logger().Errorf("entry cleanup error: %v", err)
	}
	if h.ES != nil {
		if err := search.RemoveProduct(c.Request().Context(), h.ES, h.ESIndex, uint(id)); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}

	audit(c, h.DB, "producto_eliminado", fmt.Sprintf("id %d", id))
	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) GetBarcode(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, err)
	}

	data, err := report.ProductBarcodePNG(prod.ID)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.Blob(http.StatusOK, "image/png", data)
}
