package httpserver

import (
	"net/http"

	"shoestore/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listOrders(c *gin.Context) {
	sess := currentSession(c)
	orders, err := h.deps.Orders.List(c.Request.Context(), sess.User.ID, sess.IsAdmin)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *handlers) updateOrderStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "status is required")
		return
	}
	err := h.deps.Orders.UpdateStatus(c.Request.Context(), currentSession(c).IsAdmin,
		c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		switch err {
		case domain.ErrNotFound, domain.ErrUnauthorized:
			h.respondDomainError(c, err)
		default:
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	c.Status(http.StatusNoContent)
}
