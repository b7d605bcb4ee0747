package server

import (
	"net/http"
	"time"

	"hexdefense-server/internal/network"
	"hexdefense-server/pkg/api"
	"hexdefense-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между WebSocket и хабом снимков.
// Зритель только читает: команды от него служебные (SYNC).
type Client struct {
	Hub    *network.Broadcaster
	Source SnapshotSource
	Conn   *websocket.Conn

	id      network.SubscriberID
	updates <-chan api.SnapshotMessage
}

// NewClient сразу подписывает соединение на хаб и кладёт в очередь
// последний снимок, чтобы зритель не ждал следующего тика.
func NewClient(hub *network.Broadcaster, source SnapshotSource, conn *websocket.Conn) *Client {
	c := &Client{
		Hub:    hub,
		Source: source,
		Conn:   conn,
	}
	c.id, c.updates = hub.Subscribe()
	if source != nil {
		hub.SendTo(c.id, source.Last())
	}

	logger.Log.WithFields(logrus.Fields{
		"subscriber_id": c.id,
		"remote":        conn.RemoteAddr().String(),
	}).Info("Spectator connected")
	return c
}

// readPump читает служебные команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unsubscribe(c.id)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection")
		}
		logger.Log.WithField("subscriber_id", c.id).Info("Spectator disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			break
		}

		if err := cmd.Validate(); err != nil {
			logger.Log.WithError(err).WithField("subscriber_id", c.id).Warn("Invalid client command")
			continue
		}

		switch cmd.Action {
		case api.ActionSync:
			if c.Source != nil {
				c.Hub.SendTo(c.id, c.Source.Last())
			}
		}
	}
}

// writePump отправляет снимки клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.updates:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
