package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pos_backend/internal/service/activity"
)

type ActivityHandler struct {
	DB *gorm.DB
}

// GetActivity returns today's log. Reading prunes everything older than
// the current calendar day.
func (h *ActivityHandler) GetActivity(c echo.Context) error {
	logs, err := activity.List(c.Request().Context(), h.DB)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, logs)
}
