package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pos_backend/internal/service/backup"
)

type BackupHandler struct {
	DB  *gorm.DB
	Dir string
}

// Export dumps the whitelisted collections. With ?save=true the dump is
// also written to a timestamped file on the server.
func (h *BackupHandler) Export(c echo.Context) error {
	ctx := c.Request().Context()

	if c.QueryParam("save") == "true" {
		name, err := backup.ExportToFile(ctx, h.DB, h.Dir)
		if err != nil {
			return errorResponse(c, http.StatusInternalServerError, err)
		}
		audit(c, h.DB, "respaldo_creado", name)
		return c.JSON(http.StatusOK, echo.Map{"file": name})
	}

	data, err := backup.Export(ctx, h.DB)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	audit(c, h.DB, "respaldo_creado", "descarga directa")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="backup.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// Import restores a dump uploaded in the request body. Unknown keys are
// ignored, whitelisted collections are overwritten.
func (h *BackupHandler) Import(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if err := backup.Import(c.Request().Context(), h.DB, data); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	audit(c, h.DB, "respaldo_restaurado", "")
	return c.JSON(http.StatusOK, echo.Map{"message": "backup restored"})
}
