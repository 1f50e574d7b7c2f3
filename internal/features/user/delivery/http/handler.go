package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"easysmm-backend/internal/common/apperr"
	"easysmm-backend/internal/common/middleware"
	"easysmm-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes mounts the user routes. sync is registered by the caller
// outside the ban gate.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users", h.getUsers)
	router.POST("/admin", middleware.RequireAdmin(), h.moderate)
}

// RegisterSync mounts the identity sync endpoint, which must stay reachable
// for banned users.
func (h *UserHandler) RegisterSync(router *gin.RouterGroup) {
	router.POST("/users", h.sync)
}

// @Summary Sync current user
// @Description Upserts the verified identity and reports ban/new state
// @Tags users
// @Produce json
// @Success 200 {object} models.SyncResult
// @Router /users [post]
func (h *UserHandler) sync(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.service.Sync(c.Request.Context(), ident)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Get users
// @Description mode=list returns all users (admin only); id=<id> returns a single user (self or admin)
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 403 {object} map[string]string
// @Router /users [get]
func (h *UserHandler) getUsers(c *gin.Context) {
	ident, ok := middleware.Identity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if c.Query("mode") == "list" {
		if !middleware.IsAdmin(c) {
			apperr.Respond(c, apperr.Forbidden("Admin access required"))
			return
		}
		users, err := h.service.List(c.Request.Context())
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
		return
	}

	idParam := c.Query("id")
	if idParam == "" {
		apperr.Respond(c, apperr.Validation("id or mode=list is required"))
		return
	}
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid user id"))
		return
	}

	// Self or admin only, regardless of what the query string claims.
	if id != ident.ID && !middleware.IsAdmin(c) {
		apperr.Respond(c, apperr.Forbidden("Cannot read another user's profile"))
		return
	}

	user, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type moderateRequest struct {
	UserID int64  `json:"userId" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// @Summary Ban or unban a user
// @Description Admin only. Idempotent: repeating an action is a success.
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /admin [post]
func (h *UserHandler) moderate(c *gin.Context) {
	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("userId and action are required"))
		return
	}

	var banned bool
	switch req.Action {
	case "ban":
		banned = true
	case "unban":
		banned = false
	default:
		apperr.Respond(c, apperr.Validation("action must be ban or unban"))
		return
	}

	err := h.service.SetBanned(c.Request.Context(), req.UserID, banned)
	if errors.Is(err, service.ErrUserNotFound) {
		apperr.Respond(c, apperr.NotFound("user"))
		return
	}
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
