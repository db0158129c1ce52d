package wsbus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/gunnermanx/simplematchmaker/auth"
	"github.com/gunnermanx/simplematchmaker/bus"
)

func TestHubHandlers(t *testing.T) {
	logger := logrus.New()

	t.Run("subscribed handlers receive published messages", func(t *testing.T) {
		h := NewHub(logger, auth.NewStaticKeyAuthProvider(""))

		received := make(chan bus.Message, 1)
		h.Subscribe("reports", func(msg bus.Message) {
			received <- msg
		})

		require.NoError(t, h.Publish(context.Background(), "reports", "payload"))

		msg := <-received
		require.Equal(t, "reports", msg.Channel)
		require.Equal(t, bus.SERVER_PUBLISHER, msg.Publisher)
		require.Equal(t, "payload", msg.Data)
		require.NotEmpty(t, msg.ID)
	})

	t.Run("handlers on other channels are not invoked", func(t *testing.T) {
		h := NewHub(logger, auth.NewStaticKeyAuthProvider(""))

		received := make(chan bus.Message, 1)
		h.Subscribe("reports", func(msg bus.Message) {
			received <- msg
		})

		require.NoError(t, h.Publish(context.Background(), "lobby", "payload"))
		select {
		case <-received:
			t.Fatal("handler for another channel was invoked")
		case <-time.After(50 * time.Millisecond):
		}
	})
}

func TestHubWebsocket(t *testing.T) {
	logger := logrus.New()

	t.Run("connected client receives channel traffic", func(t *testing.T) {
		h := NewHub(logger, auth.NewStaticKeyAuthProvider(""))

		ts := httptest.NewServer(http.HandlerFunc(h.ConnectHandler))
		defer ts.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/?uid=p1&channels=news,matchmaking"
		conn, _, err := websocket.Dial(ctx, wsURL, nil)
		require.NoError(t, err)
		defer conn.Close(websocket.StatusNormalClosure, "test done")

		require.Eventually(t, func() bool {
			h.RLock()
			defer h.RUnlock()
			return len(h.clients) == 1
		}, time.Second, 10*time.Millisecond)

		require.NoError(t, h.Publish(ctx, "news", map[string]interface{}{"hello": "p1"}))

		var msg bus.Message
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		require.Equal(t, "news", msg.Channel)
		require.Equal(t, bus.SERVER_PUBLISHER, msg.Publisher)
	})

	t.Run("client frames are republished with the player id", func(t *testing.T) {
		h := NewHub(logger, auth.NewStaticKeyAuthProvider(""))

		received := make(chan bus.Message, 1)
		h.Subscribe("matchmaking", func(msg bus.Message) {
			received <- msg
		})

		ts := httptest.NewServer(http.HandlerFunc(h.ConnectHandler))
		defer ts.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/?uid=p7&channels=matchmaking"
		conn, _, err := websocket.Dial(ctx, wsURL, nil)
		require.NoError(t, err)
		defer conn.Close(websocket.StatusNormalClosure, "test done")

		require.NoError(t, wsjson.Write(ctx, conn, clientFrame{
			Channel: "matchmaking",
			Data:    map[string]interface{}{"note": "let me in"},
		}))

		select {
		case msg := <-received:
			require.Equal(t, "p7", msg.Publisher)
			require.Equal(t, "matchmaking", msg.Channel)
		case <-ctx.Done():
			t.Fatal("timed out waiting for republished frame")
		}
	})

	t.Run("connect without a player id is rejected", func(t *testing.T) {
		h := NewHub(logger, auth.NewStaticKeyAuthProvider(""))

		ts := httptest.NewServer(http.HandlerFunc(h.ConnectHandler))
		defer ts.Close()

		resp, err := http.Get(ts.URL + "/?channels=news")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
