package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pos_backend/internal/models"
	"github.com/Skotchmaster/pos_backend/internal/util"
)

type EntryHandler struct {
	DB *gorm.DB
}

func (h *EntryHandler) GetEntries(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.Entry{})
	if q := c.QueryParam("q"); q != "" {
		query = query.Where("LOWER(product_name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if date := c.QueryParam("date"); date != "" {
		query = query.Where("date = ?", date)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var items []models.Entry
	if err := query.Order("timestamp DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":     page,
			"size":     limit,
			"total":    total,
			"has_prev": page > 1,
			"has_next": int64(offset+limit) < total,
		},
	})
}
