package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboard returns the current aggregation snapshot. Before the first
// local recompute finishes, the snapshot another instance cached is served.
func (h *Handler) GetDashboard(c *gin.Context) {
	snap := h.Dashboard.Current()
	if snap.GeneratedAt.IsZero() {
		if cached, ok := h.Dashboard.Cached(); ok {
			snap = cached
		}
	}
	c.JSON(http.StatusOK, snap)
}
