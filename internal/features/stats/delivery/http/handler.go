package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"easysmm-backend/internal/common/apperr"
	"easysmm-backend/internal/common/middleware"
	"easysmm-backend/internal/features/stats/service"
)

type StatsHandler struct {
	service service.StatsService
}

func NewStatsHandler(service service.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stats", h.getStats)
}

// @Summary Order statistics
// @Description Own stats by default; userId=<id> needs self or admin; scope=global is admin only
// @Tags stats
// @Produce json
// @Success 200 {object} stats.Stats
// @Router /stats [get]
func (h *StatsHandler) getStats(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if c.Query("scope") == "global" {
		if !middleware.IsAdmin(c) {
			apperr.Respond(c, apperr.Forbidden("Admin access required"))
			return
		}
		result, err := h.service.Global(c.Request.Context())
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	targetID := ident.ID
	if idParam := c.Query("userId"); idParam != "" {
		id, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			apperr.Respond(c, apperr.Validation("Invalid user id"))
			return
		}
		targetID = id
	}
	if targetID != ident.ID && !middleware.IsAdmin(c) {
		apperr.Respond(c, apperr.Forbidden("Cannot read another user's stats"))
		return
	}

	result, err := h.service.ForUser(c.Request.Context(), targetID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
