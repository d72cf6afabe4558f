package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salustyck/storefront/internal/domain"
	"github.com/salustyck/storefront/internal/syncer"
	"github.com/salustyck/storefront/internal/usecase"
)

// cartView — ответ со снимком корзины и суммами, рассчитанными одной точкой.
type cartView struct {
	Items  domain.Cart   `json:"items"`
	Totals domain.Totals `json:"totals"`
}

type addItemRequest struct {
	ProductID   string `json:"productId" binding:"required"`
	Name        string `json:"name"`
	WeightGrams int    `json:"weightGrams" binding:"required,gt=0"`
}

type updateItemRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *Handler) cartResponse() cartView {
	return cartView{Items: h.cart.Snapshot(), Totals: h.cart.Totals()}
}

func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartResponse())
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.cart.AddItem(c.Request.Context(), req.ProductID, req.Name, req.WeightGrams); err != nil {
		h.cartError(c, "AddItem", err)
		return
	}
	c.JSON(http.StatusCreated, h.cartResponse())
}

func (h *Handler) updateCartItem(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty item id"})
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.cart.UpdateQuantity(c.Request.Context(), id, req.Delta); err != nil {
		h.cartError(c, "UpdateQuantity", err)
		return
	}
	c.JSON(http.StatusOK, h.cartResponse())
}

func (h *Handler) removeCartItem(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty item id"})
		return
	}

	if err := h.cart.RemoveItem(c.Request.Context(), id); err != nil {
		h.cartError(c, "RemoveItem", err)
		return
	}
	c.JSON(http.StatusOK, h.cartResponse())
}

func (h *Handler) clearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context()); err != nil {
		h.cartError(c, "Clear", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// cartError — единая раскладка ошибок менеджера корзины по HTTP-статусам.
func (h *Handler) cartError(c *gin.Context, op string, err error) {
	if errors.Is(err, usecase.ErrBusy) {
		c.JSON(http.StatusConflict, gin.H{"error": "cart operation already in progress"})
		return
	}
	h.log.Errorf(c.Request.Context(), "%s failed: %v", op, err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handler) syncFocus(c *gin.Context) {
	h.sync.Trigger(syncer.TriggerFocus)
	c.Status(http.StatusAccepted)
}

func (h *Handler) syncVisible(c *gin.Context) {
	h.sync.Trigger(syncer.TriggerVisibility)
	c.Status(http.StatusAccepted)
}
