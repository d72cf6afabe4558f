package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/salustyck/storefront/internal/domain"
	"github.com/salustyck/storefront/internal/ports"
	"github.com/salustyck/storefront/pkg/metrics"
)

// Проверка, что Loop удовлетворяет порту SyncLoop.
var _ ports.SyncLoop = (*Loop)(nil)

// Причины внеплановых проходов сверки.
const (
	TriggerInitial    = "initial"
	TriggerInterval   = "interval"
	TriggerWatch      = "watch"
	TriggerFocus      = "focus"
	TriggerVisibility = "visibility"
	TriggerManual     = "manual"
)

// cartReplacer — контракт на менеджер корзины, чтобы подменять его в тестах.
type cartReplacer interface {
	ReplaceFromStore(cart domain.Cart) bool
	Notify(ctx context.Context)
}

// Loop — цикл сверки корзины в памяти с долговременным хранилищем.
// Срабатывает по таймеру, по уведомлениям носителя (другая «вкладка»)
// и по внешним триггерам (фокус, видимость). Сравнение состояний выполняется
// на каждом проходе; ограничитель частоты глушит только обновление экрана.
type Loop struct {
	store   ports.CartStore
	manager cartReplacer
	watcher ports.StoreWatcher
	log     ports.Logger

	interval time.Duration
	throttle time.Duration
	now      func() time.Time

	mu          sync.Mutex
	lastRefresh time.Time

	triggers  chan string
	done      chan struct{}
	closeOnce sync.Once
}

// Config — параметры цикла сверки.
type Config struct {
	// Interval — период планового прохода (ориентир: 500 мс).
	Interval time.Duration
	// Throttle — минимальный интервал между обновлениями экрана (ориентир: 100 мс).
	Throttle time.Duration
}

// NewLoop — конструктор. watcher может быть nil (без межпроцессных уведомлений).
func NewLoop(cfg Config, store ports.CartStore, manager cartReplacer, watcher ports.StoreWatcher, log ports.Logger) *Loop {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	throttle := cfg.Throttle
	if throttle <= 0 {
		throttle = 100 * time.Millisecond
	}

	return &Loop{
		store:    store,
		manager:  manager,
		watcher:  watcher,
		log:      log,
		interval: interval,
		throttle: throttle,
		now:      time.Now,
		triggers: make(chan string, 8),
		done:     make(chan struct{}),
	}
}

// Run — основной цикл:
// 1) немедленный проход при старте;
// 2) плановый проход по таймеру;
// 3) проход по событию носителя и по внешнему триггеру.
// Возвращается при отмене контекста или Close.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Infof(ctx, "sync loop started interval=%s throttle=%s", l.interval, l.throttle)

	l.pass(ctx, TriggerInitial)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	var watchEvents <-chan struct{}
	if l.watcher != nil {
		watchEvents = l.watcher.Events()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-ticker.C:
			l.pass(ctx, TriggerInterval)
		case _, ok := <-watchEvents:
			if !ok {
				// watcher закрыт; дальше живём на таймере
				watchEvents = nil
				continue
			}
			l.pass(ctx, TriggerWatch)
		case reason := <-l.triggers:
			l.pass(ctx, reason)
		}
	}
}

// Trigger — запросить внеплановый проход. Переполнение буфера не страшно:
// проход уже ожидает выполнения.
func (l *Loop) Trigger(reason string) {
	if reason == "" {
		reason = TriggerManual
	}
	select {
	case l.triggers <- reason:
	default:
	}
}

// Close — идемпотентная остановка цикла и подписки на носитель.
func (l *Loop) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		if l.watcher != nil {
			err = l.watcher.Close()
		}
	})
	return err
}

// pass — один проход сверки: чтение носителя, структурное сравнение,
// замещение целиком при расхождении. Ошибка чтения — сброс к пустой корзине
// с немедленной перезаписью: битое долговременное состояние не должно выжить.
func (l *Loop) pass(ctx context.Context, trigger string) {
	metrics.SyncPasses.WithLabelValues(trigger).Inc()

	stored, err := l.store.Load(ctx)
	if err != nil {
		l.log.Errorf(ctx, "sync pass trigger=%s load failed, resetting cart: %v", trigger, err)
		changed := l.manager.ReplaceFromStore(domain.Cart{})
		if saveErr := l.store.Save(ctx, domain.Cart{}); saveErr != nil {
			l.log.Errorf(ctx, "sync pass: self-heal save failed: %v", saveErr)
		}
		if changed {
			l.requestRefresh(ctx)
		}
		return
	}

	if l.manager.ReplaceFromStore(stored) {
		l.log.Infof(ctx, "cart synced trigger=%s items=%d", trigger, len(stored))
		l.requestRefresh(ctx)
	}
}

// requestRefresh — уведомить наблюдателей, если с прошлого обновления экрана
// прошло не меньше throttle; иначе обновление глушится (сверка уже выполнена).
func (l *Loop) requestRefresh(ctx context.Context) {
	now := l.now()

	l.mu.Lock()
	if !l.lastRefresh.IsZero() && now.Sub(l.lastRefresh) < l.throttle {
		l.mu.Unlock()
		metrics.SyncThrottled.Inc()
		return
	}
	l.lastRefresh = now
	l.mu.Unlock()

	metrics.SyncRefreshes.Inc()
	l.manager.Notify(ctx)
}
