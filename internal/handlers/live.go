package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pos_backend/internal/livefeed"
)

type LiveHandler struct {
	Hub *livefeed.Hub
}

// Stream pushes full collection snapshots to the client over SSE. The
// first event carries the current state, later ones arrive whenever the
// collection changes. Detaching the client tears the subscription down.
func (h *LiveHandler) Stream(c echo.Context) error {
	collection := c.Param("collection")

	ch, cancel, err := h.Hub.Subscribe(collection)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	defer cancel()

	ctx := c.Request().Context()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	if snap, err := h.Hub.Snapshot(ctx, collection); err == nil {
		fmt.Fprintf(res, "data: %s\n\n", snap)
		res.Flush()
	} else {
		c.Logger().Errorf("live snapshot error: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			fmt.Fprintf(res, "data: %s\n\n", data)
			res.Flush()
		}
	}
}
