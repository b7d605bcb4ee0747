package agent

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"hexdefense-server/pkg/api"
	"hexdefense-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Spectator - внешний клиент, который подключается к серверу по WebSocket
// так же, как браузер, и получает снимки после каждого тика.
//
// Жизненный цикл:
//  1. Dial -> соединение и запрос SYNC (последний снимок сразу).
//  2. Run -> цикл чтения, каждый снимок отдается в обработчик.
//  3. Отмена ctx -> корректное закрытие соединения.
type Spectator struct {
	URL  string
	conn *websocket.Conn
}

// HandlerFunc получает снимки в порядке тиков.
type HandlerFunc func(msg api.SnapshotMessage)

// WSURL строит адрес потока снимков из host:port.
func WSURL(addr string) string {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	return u.String()
}

// Dial подключается к серверу.
func Dial(ctx context.Context, wsURL string) (*Spectator, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}

	s := &Spectator{URL: wsURL, conn: conn}
	if err := s.Sync(); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Log.WithField("url", wsURL).Info("Spectator attached")
	return s, nil
}

// Sync просит сервер прислать последний снимок вне очереди.
func (s *Spectator) Sync() error {
	if err := s.conn.WriteJSON(api.ClientCommand{Action: api.ActionSync}); err != nil {
		return fmt.Errorf("send %s: %w", api.ActionSync, err)
	}
	return nil
}

// Run читает снимки до отмены ctx или закрытия соединения сервером.
// Снимок с уже виденным тиком (повтор после SYNC) пропускается.
func (s *Spectator) Run(ctx context.Context, handle HandlerFunc) error {
	stop := context.AfterFunc(ctx, func() {
		deadline := time.Now().Add(time.Second)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = s.conn.Close()
	})
	defer stop()
	defer s.conn.Close()

	var lastTick uint64
	seen := false
	for {
		var msg api.SnapshotMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				logger.Log.WithField("url", s.URL).Info("Server closed the stream")
				return nil
			}
			return fmt.Errorf("read snapshot: %w", err)
		}

		if msg.Type != api.MessageSnapshot {
			logger.Log.WithField("type", msg.Type).Warn("Unexpected message type")
			continue
		}
		if seen && msg.Tick <= lastTick {
			continue
		}
		seen, lastTick = true, msg.Tick

		logger.Log.WithFields(logrus.Fields{
			"tick":     msg.Tick,
			"entities": len(msg.Entities),
			"events":   len(msg.Events),
		}).Trace("Snapshot received")

		handle(msg)
	}
}
