package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salustyck/storefront/internal/domain"
	"github.com/salustyck/storefront/pkg/httpx"
)

// listOrders — журнал оформленных заказов, новые первыми,
// с limit/offset из query (дефолт 20, потолок 100).
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		h.log.Errorf(c.Request.Context(), "List orders failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// Журнал на диске append-only: разворачиваем, чтобы свежие шли первыми.
	for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
		orders[i], orders[j] = orders[j], orders[i]
	}

	limit, offset := httpx.ParseLimitOffset(c, 20, 100)
	if offset >= len(orders) {
		c.JSON(http.StatusOK, []domain.Order{})
		return
	}
	end := offset + limit
	if end > len(orders) {
		end = len(orders)
	}
	c.JSON(http.StatusOK, orders[offset:end])
}

func (h *Handler) getConsent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"accepted": h.consent.Accepted(c.Request.Context())})
}

func (h *Handler) acceptConsent(c *gin.Context) {
	if err := h.consent.SetAccepted(c.Request.Context()); err != nil {
		h.log.Errorf(c.Request.Context(), "SetAccepted failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
