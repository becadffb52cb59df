package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pos_backend/internal/models"
	"github.com/Skotchmaster/pos_backend/internal/service/credit"
	"github.com/Skotchmaster/pos_backend/internal/util"
)

type CreditHandler struct {
	DB *gorm.DB
}

func (h *CreditHandler) GetCredits(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Credit{}).Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var items []models.Credit
	if err := h.DB.Preload("Movements.Items").Preload("Movements").
		Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var debt float64
	for _, cr := range items {
		debt += cr.TotalDebt
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":      page,
			"size":      limit,
			"total":     total,
			"page_debt": debt,
			"has_prev":  page > 1,
			"has_next":  int64(offset+limit) < total,
		},
	})
}

func (h *CreditHandler) GetClientCredit(c echo.Context) error {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	cred, err := credit.Get(c.Request().Context(), h.DB, uint(clientID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "client has no credit record")
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, cred)
}
