package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pos_backend/internal/livefeed"
	"github.com/Skotchmaster/pos_backend/internal/models"
	"github.com/Skotchmaster/pos_backend/internal/mykafka"
	"github.com/Skotchmaster/pos_backend/internal/util"
)

type ClientHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Hub      *livefeed.Hub
}

func (h *ClientHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "client_events", fmt.Sprint(event["clientID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
	if h.Hub != nil {
		h.Hub.Notify(c.Request().Context(), "clients")
	}
}

func (h *ClientHandler) GetClient(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, err)
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) GetClients(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.Client{})
	if q := c.QueryParam("q"); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var items []models.Client
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
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

func (h *ClientHandler) CreateClient(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		LastName string `json:"last_name"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	now := time.Now()
	client := models.Client{
		Name:             req.Name,
		LastName:         req.LastName,
		RegistrationDate: now.Format(models.DateLayout),
		Timestamp:        now.Unix(),
	}

	if err := h.DB.Create(&client).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	audit(c, h.DB, "cliente_creado", fmt.Sprintf("%s %s (id %d)", client.Name, client.LastName, client.ID))
	h.publish(c, map[string]any{
		"type":     "client_created",
		"clientID": client.ID,
		"name":     client.Name,
	})

	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) PatchClient(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Name     *string `json:"name"`
		LastName *string `json:"last_name"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, err)
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.LastName != nil {
		client.LastName = *req.LastName
	}

	if err := h.DB.Save(&client).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	// Keep the denormalized name on the credit record in step.
	if err := h.DB.Model(&models.Credit{}).
		Where("client_id = ?", client.ID).
		Update("client_name", strings.TrimSpace(client.Name+" "+client.LastName)).Error; err != nil {
		c.Logger().Errorf("credit name sync error: %v", err)
	}

	audit(c, h.DB, "cliente_editado", fmt.Sprintf("id %d", client.ID))
	h.publish(c, map[string]any{
		"type":     "client_updated",
		"clientID": client.ID,
		"name":     client.Name,
	})

	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) DeleteClient(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if err := h.DB.Delete(&models.Client{}, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	audit(c, h.DB, "cliente_eliminado", fmt.Sprintf("id %d", id))
	h.publish(c, map[string]any{
		"type":     "client_deleted",
		"clientID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
