package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"easysmm-backend/internal/common/apperr"
	"easysmm-backend/internal/common/middleware"
	"easysmm-backend/internal/features/catalog"
	"easysmm-backend/internal/features/order/models"
	"easysmm-backend/internal/features/order/service"
)

type OrderHandler struct {
	service service.OrderService
	catalog catalog.Catalog
}

func NewOrderHandler(service service.OrderService, cat catalog.Catalog) *OrderHandler {
	return &OrderHandler{service: service, catalog: cat}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/services", h.getServices)
	router.GET("/orders", h.getOrders)
	router.POST("/orders", h.createOrder)
	router.POST("/orders/quote", h.quote)
	router.PATCH("/orders", middleware.RequireAdmin(), h.updateStatus)
}

// @Summary List available services
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.Service
// @Router /services [get]
func (h *OrderHandler) getServices(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Services())
}

type quoteRequest struct {
	ServiceID int `json:"serviceId" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

// @Summary Quote an order
// @Description Prices the requested quantity and mints the payment memo
// @Tags orders
// @Accept json
// @Produce json
// @Success 200 {object} service.QuoteResult
// @Router /orders/quote [post]
func (h *OrderHandler) quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("serviceId and quantity are required"))
		return
	}

	result, err := h.service.Quote(c.Request.Context(), req.ServiceID, req.Quantity)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Submit an order
// @Description Verifies the TON payment by memo and amount; the order is stored only on a match
// @Tags orders
// @Accept json
// @Produce json
// @Success 200 {object} service.CreateResult
// @Router /orders [post]
func (h *OrderHandler) createOrder(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input service.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid order payload"))
		return
	}

	result, err := h.service.Create(c.Request.Context(), ident, input)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary List orders
// @Description Own orders by default; userId=<id> needs self or admin; isAdmin=true returns everything (admin only)
// @Tags orders
// @Produce json
// @Success 200 {array} models.Order
// @Failure 403 {object} map[string]string
// @Router /orders [get]
func (h *OrderHandler) getOrders(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// The flag only expresses intent; the actual check is against the
	// verified identity inside the service.
	all := c.Query("isAdmin") == "true"

	var targetID int64
	if idParam := c.Query("userId"); idParam != "" {
		id, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			apperr.Respond(c, apperr.Validation("Invalid user id"))
			return
		}
		targetID = id
	}

	orders, err := h.service.List(c.Request.Context(), ident.ID, middleware.IsAdmin(c), targetID, all)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}

	c.JSON(http.StatusOK, orders)
}

type updateStatusRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// @Summary Resolve an order
// @Description Admin only. Moves an active order to completed or cancelled.
// @Tags orders
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /orders [patch]
func (h *OrderHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("orderId and status are required"))
		return
	}

	if err := h.service.SetStatus(c.Request.Context(), req.OrderID, models.Status(req.Status)); err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
