package rest

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/salustyck/storefront/internal/checkout"
	"github.com/salustyck/storefront/internal/ports"
	"github.com/salustyck/storefront/internal/usecase"
	"github.com/salustyck/storefront/pkg/httpx"
)

// syncTrigger — контракт на цикл сверки: обработчикам нужен только триггер.
type syncTrigger interface {
	Trigger(reason string)
}

// consentStore — контракт на хранилище флага согласия на cookies.
type consentStore interface {
	Accepted(ctx context.Context) bool
	SetAccepted(ctx context.Context) error
}

type Handler struct {
	cart     *usecase.CartManager
	checkout *checkout.Machine
	orders   ports.OrderLog
	consent  consentStore
	sync     syncTrigger
	stream   *CartStream
	log      ports.Logger
}

func NewHandler(
	cart *usecase.CartManager,
	machine *checkout.Machine,
	orders ports.OrderLog,
	consent consentStore,
	sync syncTrigger,
	stream *CartStream,
	log ports.Logger,
) *Handler {
	return &Handler{
		cart:     cart,
		checkout: machine,
		orders:   orders,
		consent:  consent,
		sync:     sync,
		stream:   stream,
		log:      log,
	}
}

// Options — параметры маршрутизатора.
type Options struct {
	// StaticDir — каталог со страницами витрины; пусто — статика не отдаётся.
	StaticDir string
	// Tracing — включает otelgin-мидлварь (требует инициализированного провайдера).
	Tracing bool
	// ServiceName — имя сервиса для трассировки.
	ServiceName string
}

func NewRouter(h *Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpx.RequestIDMiddleware())
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/cart", h.getCart)
	r.POST("/cart/items", h.addCartItem)
	r.PATCH("/cart/items/:id", h.updateCartItem)
	r.DELETE("/cart/items/:id", h.removeCartItem)
	r.DELETE("/cart", h.clearCart)
	r.GET("/cart/events", h.cartEvents)

	r.GET("/checkout", h.getCheckout)
	r.POST("/checkout", h.startCheckout)
	r.POST("/checkout/proceed", h.proceedCheckout)
	r.POST("/checkout/submit", h.submitCheckout)
	r.POST("/checkout/cancel", h.cancelCheckout)
	r.POST("/checkout/dismiss", h.dismissCheckout)

	r.GET("/orders", h.listOrders)

	r.POST("/sync/focus", h.syncFocus)
	r.POST("/sync/visible", h.syncVisible)

	r.GET("/consent", h.getConsent)
	r.POST("/consent", h.acceptConsent)

	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
		r.StaticFile("/", filepath.Join(opts.StaticDir, "index.html"))
	}

	return r
}
