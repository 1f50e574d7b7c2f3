package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"easysmm-backend/internal/common/apperr"
	"easysmm-backend/internal/common/middleware"
	"easysmm-backend/internal/features/wallet/service"
)

type WalletHandler struct {
	service service.WalletService
}

func NewWalletHandler(service service.WalletService) *WalletHandler {
	return &WalletHandler{service: service}
}

func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/wallet", h.connect)
	router.GET("/wallet", h.get)
	router.DELETE("/wallet", h.disconnect)
}

type connectRequest struct {
	Address   string `json:"address" binding:"required"`
	WalletApp string `json:"walletApp"`
}

// @Summary Connect a TON wallet
// @Tags wallet
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /wallet [post]
func (h *WalletHandler) connect(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("address is required"))
		return
	}

	link, err := h.service.Connect(c.Request.Context(), ident.ID, req.Address, req.WalletApp)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "wallet": link})
}

// @Summary Connected wallet with live balance
// @Tags wallet
// @Produce json
// @Success 200 {object} models.WalletInfo
// @Router /wallet [get]
func (h *WalletHandler) get(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	info, err := h.service.Get(c.Request.Context(), ident.ID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// @Summary Disconnect the wallet
// @Tags wallet
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /wallet [delete]
func (h *WalletHandler) disconnect(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.service.Disconnect(c.Request.Context(), ident.ID); err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
