package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salustyck/storefront/internal/checkout"
	"github.com/salustyck/storefront/internal/domain"
)

// checkoutView — текущее положение кассы для клиента.
type checkoutView struct {
	State     checkout.State `json:"state"`
	Totals    domain.Totals  `json:"totals"`
	LastOrder *domain.Order  `json:"lastOrder,omitempty"`
}

func (h *Handler) checkoutResponse() checkoutView {
	return checkoutView{
		State:     h.checkout.State(),
		Totals:    h.checkout.Totals(),
		LastOrder: h.checkout.LastOrder(),
	}
}

func (h *Handler) getCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, h.checkoutResponse())
}

func (h *Handler) startCheckout(c *gin.Context) {
	if err := h.checkout.Start(c.Request.Context()); err != nil {
		h.checkoutError(c, "Start", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.checkout.State(), "cart": h.cartResponse()})
}

func (h *Handler) proceedCheckout(c *gin.Context) {
	if err := h.checkout.Proceed(c.Request.Context()); err != nil {
		h.checkoutError(c, "Proceed", err)
		return
	}
	c.JSON(http.StatusOK, h.checkoutResponse())
}

func (h *Handler) submitCheckout(c *gin.Context) {
	var form domain.OrderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, fieldErrs, err := h.checkout.Submit(c.Request.Context(), &form)
	if err != nil {
		if errors.Is(err, checkout.ErrInvalidForm) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "order form is invalid", "fieldErrors": fieldErrs})
			return
		}
		h.checkoutError(c, "Submit", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"state": h.checkout.State(), "order": order})
}

func (h *Handler) cancelCheckout(c *gin.Context) {
	if err := h.checkout.Cancel(c.Request.Context()); err != nil {
		h.checkoutError(c, "Cancel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.checkout.State()})
}

func (h *Handler) dismissCheckout(c *gin.Context) {
	if err := h.checkout.Dismiss(); err != nil {
		h.checkoutError(c, "Dismiss", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.checkout.State()})
}

// checkoutError — раскладка ошибок кассы по HTTP-статусам: конфликты
// состояний и занятость — 409, пустая корзина — 409, остальное — 500.
func (h *Handler) checkoutError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": "cart is empty"})
	case errors.Is(err, checkout.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrNotCancellable):
		c.JSON(http.StatusConflict, gin.H{"error": "submission already in progress"})
	default:
		h.log.Errorf(c.Request.Context(), "%s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
