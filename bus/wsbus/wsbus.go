package wsbus

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/gunnermanx/simplematchmaker/auth"
	"github.com/gunnermanx/simplematchmaker/bus"
)

const (
	WS_STATUS_INVALID_PARAMETERS = 4000

	CHANNELS_QUERY_PARAM = "channels"
)

// client models a connected websocket subscriber
// and contains the websocket connection used to communicate with it
type client struct {
	id       string
	playerID string
	wsconn   *websocket.Conn
	channels map[string]bool

	ctx       context.Context
	ctxCancel context.CancelFunc
}

// clientFrame is what a connected client sends to publish on a channel
type clientFrame struct {
	Channel string      `json:"channel"`
	Data    interface{} `json:"data"`
}

// Hub is a websocket backed pub/sub implementing bus.Bus
//
// Server side components subscribe with handlers, remote clients connect
// over websocket and receive every message published on the channels they
// asked for. Frames read from a client are republished on the named channel
// with the client's player id as publisher.
type Hub struct {
	sync.RWMutex

	logger       *logrus.Logger
	authProvider auth.AuthProvider

	clients  map[string]*client
	handlers map[string][]bus.Handler
}

func NewHub(logger *logrus.Logger, ap auth.AuthProvider) (h *Hub) {
	h = &Hub{
		logger:       logger,
		authProvider: ap,
		clients:      make(map[string]*client),
		handlers:     make(map[string][]bus.Handler),
	}
	return
}

// Publish sends data on a channel to all subscribed handlers and clients
func (h *Hub) Publish(ctx context.Context, channel string, data interface{}) (err error) {
	h.dispatch(bus.Message{
		ID:        uuid.New().String(),
		Publisher: bus.SERVER_PUBLISHER,
		Channel:   channel,
		Data:      data,
	})
	return
}

// Subscribe registers a server side handler for a channel
func (h *Hub) Subscribe(channel string, handler bus.Handler) {
	h.Lock()
	h.handlers[channel] = append(h.handlers[channel], handler)
	h.Unlock()
}

// ConnectHandler upgrades an authenticated http request to a websocket
// subscription on the channels named in the query string
func (h *Hub) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	var err error

	var playerID string
	if playerID, err = h.authProvider.GetUIDFromRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var wsconn *websocket.Conn
	if wsconn, err = websocket.Accept(w, r, nil); err != nil {
		h.logger.WithField("playerID", playerID).Errorf("failed to accept websocket: %s", err.Error())
		return
	}

	channels := map[string]bool{}
	for _, ch := range strings.Split(r.URL.Query().Get(CHANNELS_QUERY_PARAM), ",") {
		if ch != "" {
			channels[ch] = true
		}
	}
	if len(channels) == 0 {
		wsconn.Close(WS_STATUS_INVALID_PARAMETERS, "missing channels parameter")
		return
	}

	c := &client{
		id:       uuid.New().String(),
		playerID: playerID,
		wsconn:   wsconn,
		channels: channels,
	}
	c.ctx, c.ctxCancel = context.WithCancel(context.Background())

	h.Lock()
	h.clients[c.id] = c
	h.Unlock()

	h.logger.WithFields(logrus.Fields{
		"playerID": playerID,
		"clientID": c.id,
	}).Info("client connected to bus")

	go h.readLoop(c)
}

// Close drops every connected client
func (h *Hub) Close() {
	h.Lock()
	for id, c := range h.clients {
		c.ctxCancel()
		c.wsconn.Close(websocket.StatusNormalClosure, "bus shutting down")
		delete(h.clients, id)
	}
	h.Unlock()
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		h.Lock()
		delete(h.clients, c.id)
		h.Unlock()
		c.ctxCancel()
		h.logger.WithField("playerID", c.playerID).Info("client disconnected from bus")
	}()

	for {
		var frame clientFrame
		if err := wsjson.Read(c.ctx, c.wsconn, &frame); err != nil {
			if errors.Is(err, context.Canceled) {
				c.wsconn.Close(websocket.StatusNormalClosure, "context cancelled")
			} else {
				c.wsconn.Close(websocket.StatusNormalClosure, "socket closed")
			}
			return
		}
		if frame.Channel == "" {
			h.logger.WithField("playerID", c.playerID).Warn("dropping frame without channel")
			continue
		}
		h.dispatch(bus.Message{
			ID:        uuid.New().String(),
			Publisher: c.playerID,
			Channel:   frame.Channel,
			Data:      frame.Data,
		})
	}
}

func (h *Hub) dispatch(msg bus.Message) {
	h.RLock()
	handlers := append([]bus.Handler(nil), h.handlers[msg.Channel]...)
	receivers := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		if c.channels[msg.Channel] {
			receivers = append(receivers, c)
		}
	}
	h.RUnlock()

	for _, handler := range handlers {
		handler(msg)
	}
	for _, c := range receivers {
		if err := wsjson.Write(c.ctx, c.wsconn, &msg); err != nil {
			h.logger.WithFields(logrus.Fields{
				"playerID": c.playerID,
				"channel":  msg.Channel,
			}).Errorf("failed to deliver message: %s", err.Error())
		}
	}
}
