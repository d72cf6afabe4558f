package rest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/salustyck/storefront/internal/domain"
	"github.com/salustyck/storefront/internal/ports"
)

// Проверка, что CartStream удовлетворяет порту CartObserver.
var _ ports.CartObserver = (*CartStream)(nil)

const streamWriteTimeout = 5 * time.Second

// cartEvent — сообщение потока событий корзины.
type cartEvent struct {
	Type   string        `json:"type"`
	Items  domain.Cart   `json:"items"`
	Totals domain.Totals `json:"totals"`
}

// CartStream — вещание изменений корзины подключённым клиентам по websocket.
// Подписывается на менеджер корзины как наблюдатель; клиент, не успевающий
// читать, отключается, чтобы не тормозить остальных.
type CartStream struct {
	log      ports.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewCartStream(log ports.Logger) *CartStream {
	return &CartStream{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Витрина и API живут на одном origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// OnCartChanged — рассылка снимка корзины всем подключённым клиентам.
func (s *CartStream) OnCartChanged(ctx context.Context, cart domain.Cart, totals domain.Totals) {
	event := cartEvent{Type: "cart", Items: cart, Totals: totals}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(event); err != nil {
			s.log.Warnf(ctx, "cart stream write failed, dropping client: %v", err)
			_ = conn.Close()
			delete(s.conns, conn)
		}
	}
}

// Close — отключение всех клиентов.
func (s *CartStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
		delete(s.conns, conn)
	}
}

func (s *CartStream) register(conn *websocket.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *CartStream) unregister(conn *websocket.Conn) {
	s.mu.Lock()
	if _, ok := s.conns[conn]; ok {
		_ = conn.Close()
		delete(s.conns, conn)
	}
	s.mu.Unlock()
}

// cartEvents — GET /cart/events: апгрейд до websocket, немедленная отправка
// текущего снимка, дальше клиент получает события по мере изменений.
func (h *Handler) cartEvents(c *gin.Context) {
	conn, err := h.stream.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnf(c.Request.Context(), "websocket upgrade failed: %v", err)
		return
	}
	// Первый снимок уходит до регистрации, чтобы не пересечься с рассылкой.
	snapshot := cartEvent{Type: "cart", Items: h.cart.Snapshot(), Totals: h.cart.Totals()}
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := conn.WriteJSON(snapshot); err != nil {
		_ = conn.Close()
		return
	}

	h.stream.register(conn)
	defer h.stream.unregister(conn)

	// Входящие сообщения не ожидаются: цикл чтения только следит за закрытием.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
