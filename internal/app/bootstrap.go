package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salustyck/storefront/config"
	"github.com/salustyck/storefront/internal/checkout"
	"github.com/salustyck/storefront/internal/domain"
	"github.com/salustyck/storefront/internal/ports"
	"github.com/salustyck/storefront/internal/store/file"
	"github.com/salustyck/storefront/internal/syncer"
	rest "github.com/salustyck/storefront/internal/transport/http"
	"github.com/salustyck/storefront/internal/usecase"
	"github.com/salustyck/storefront/pkg/logger"
	"github.com/salustyck/storefront/pkg/metrics"
	"github.com/salustyck/storefront/pkg/telemetry"
	"github.com/salustyck/storefront/pkg/validate"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, цикл сверки).
type App struct {
	Logger          ports.Logger
	HTTPServer      *http.Server
	SyncLoop        ports.SyncLoop
	gracefulTimeout time.Duration
	stream          *rest.CartStream
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Файловое хранилище: корзина, журнал заказов и флаг согласия в одном каталоге.
	cartStore, err := file.NewCartStore(cfg.Store.Dir, logg)
	if err != nil {
		cleanupOnErr(ctx, logg, cleanupLogger)
		return nil, func() {}, err
	}
	orderLog, err := file.NewOrderLog(cfg.Store.Dir, logg)
	if err != nil {
		cleanupOnErr(ctx, logg, cleanupLogger)
		return nil, func() {}, err
	}
	consent, err := file.NewConsentFlag(cfg.Store.Dir)
	if err != nil {
		cleanupOnErr(ctx, logg, cleanupLogger)
		return nil, func() {}, err
	}
	watcher, err := file.NewWatcher(cfg.Store.Dir)
	if err != nil {
		cleanupOnErr(ctx, logg, cleanupLogger)
		return nil, func() {}, err
	}

	// Сборка доменного слоя.
	policy := domain.ShippingPolicy{
		FreeShippingThreshold: cfg.Shipping.FreeThreshold,
		ShippingFee:           cfg.Shipping.Fee,
	}
	cartManager := usecase.NewCartManager(cartStore, logg, policy)

	stream := rest.NewCartStream(logg)
	cartManager.Subscribe(stream)

	loop := syncer.NewLoop(syncer.Config{
		Interval: cfg.Sync.Interval,
		Throttle: cfg.Sync.Throttle,
	}, cartStore, cartManager, watcher, logg)

	machine := checkout.NewMachine(checkout.Config{
		ProcessingDelay: cfg.Checkout.ProcessingDelay,
		ConfirmDisplay:  cfg.Checkout.ConfirmDisplay,
	}, cartManager, orderLog, validate.NewOrderFormValidator(), logg)

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(cartManager, machine, orderLog, consent, loop, stream, logg)
	router := rest.NewRouter(httpHandler, rest.Options{
		StaticDir:   cfg.HTTP.StaticDir,
		Tracing:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		SyncLoop:        loop,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
		stream:          stream,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if err := loop.Close(); err != nil {
			logg.Warnf(ctx, "sync loop close error: %v", err)
		}
		stream.Close()
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

func cleanupOnErr(ctx context.Context, logg ports.Logger, cleanupLogger func() error) {
	if cErr := cleanupLogger(); cErr != nil {
		logg.Warnf(ctx, "cleanup logger: %v", cErr)
	}
}

// Run — запускает HTTP-сервер и цикл сверки; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	// Запуск цикла сверки.
	go func() {
		a.Logger.Infof(ctx, "cart sync loop starting")
		if err := a.SyncLoop.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка цикла сверки и отключение клиентов событий.
	if err := a.SyncLoop.Close(); err != nil {
		a.Logger.Warnf(ctx, "sync loop close error: %v", err)
	}
	if a.stream != nil {
		a.stream.Close()
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
