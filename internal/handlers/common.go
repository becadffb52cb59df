package handlers

import (
	"strconv"

	"github.com/Skotchmaster/pos_backend/internal/service/activity"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// audit writes an activity log row, swallowing failures. The log must
// never break the operation it describes.
func audit(c echo.Context, db *gorm.DB, action, details string) {
	if err := activity.Record(c.Request().Context(), db, action, details); err != nil {
		c.Logger().Errorf("activity log error: %v", err)
	}
}
