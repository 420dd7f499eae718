package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"wishboard/internal/app/plan"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Notification is one change signal received from the server. The
// payload is informational only; consumers re-read the whole board.
type Notification struct {
	Event  string
	Change plan.Change
}

type wireEvent struct {
	Event string      `json:"event"`
	Data  plan.Change `json:"data"`
}

// Subscription delivers change notifications until Close is called or the
// connection drops, at which point C is closed.
type Subscription struct {
	C <-chan Notification

	conn      *websocket.Conn
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	logger    *zap.SugaredLogger
}

// Subscribe opens the change feed at wsURL. Only plans_changed events are
// forwarded.
func Subscribe(ctx context.Context, wsURL string, logger *zap.Logger) (*Subscription, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open change feed: %w", err)
	}

	ch := make(chan Notification, 64)
	s := &Subscription{
		C:      ch,
		conn:   conn,
		done:   make(chan struct{}),
		logger: logger.Sugar(),
	}

	s.wg.Add(1)
	go s.readLoop(ch)
	return s, nil
}

func (s *Subscription) readLoop(ch chan<- Notification) {
	defer s.wg.Done()
	defer close(ch)

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				s.logger.Warnw("Change feed closed", "error", err)
			}
			return
		}

		var event wireEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			s.logger.Debugw("Ignoring malformed change event", "error", err)
			continue
		}
		if event.Event != plan.EventPlansChanged {
			continue
		}

		select {
		case ch <- Notification{Event: event.Event, Change: event.Data}:
		case <-s.done:
			return
		}
	}
}

func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = s.conn.Close()
		s.wg.Wait()
	})
	return err
}
