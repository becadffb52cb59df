package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pos_backend/internal/service/update"
)

type UpdateHandler struct {
	Checker *update.Checker
	Version string
}

func (h *UpdateHandler) Check(c echo.Context) error {
	info, err := h.Checker.Check(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusBadGateway, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"current":          h.Version,
		"latest":           info.Version,
		"download_url":     info.DownloadURL,
		"notes":            info.Notes,
		"update_available": info.IsNewer(h.Version),
		"force":            info.Force,
	})
}
