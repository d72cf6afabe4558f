package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/salustyck/storefront/internal/domain"
)

type streamEvent struct {
	Type   string        `json:"type"`
	Items  domain.Cart   `json:"items"`
	Totals domain.Totals `json:"totals"`
}

func readEvent(t *testing.T, conn *websocket.Conn) streamEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev streamEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestCartEvents_Stream(t *testing.T) {
	env := newTestEnv(t)
	env.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/cart/events"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	// Первое сообщение — текущий снимок (пустая корзина).
	snapshot := readEvent(t, conn)
	require.Equal(t, "cart", snapshot.Type)
	require.Empty(t, snapshot.Items)

	// Регистрация клиента завершается сразу после снимка; короткая пауза
	// исключает гонку с первой мутацией.
	time.Sleep(50 * time.Millisecond)

	body, err := json.Marshal(map[string]any{"productId": "entrecote", "weightGrams": 500})
	require.NoError(t, err)
	httpResp, err := http.Post(srv.URL+"/cart/items", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer httpResp.Body.Close()
	require.Equal(t, http.StatusCreated, httpResp.StatusCode)

	event := readEvent(t, conn)
	require.Equal(t, "cart", event.Type)
	require.Len(t, event.Items, 1)
	require.Equal(t, "entrecote_500", event.Items[0].ID)
	require.EqualValues(t, 445, event.Items[0].UnitPrice)
	require.EqualValues(t, 494, event.Totals.GrandTotal)
}
