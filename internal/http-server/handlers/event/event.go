package event

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"

	"go-bingohall/internal/lib/logger/sl"
)

type Message struct {
	Channel string                 `json:"channel"`
	Event   string                 `json:"event"`
	Data    map[string]interface{} `json:"data"`
}

// Broadcaster fans a match event out to subscribed clients. The ws
// implementation relays through the hub server; the pusher implementation
// goes through the hosted Pusher API. Selected by config at startup.
type Broadcaster interface {
	TriggerEvent(m Message) error
}

type WSEvent struct {
	log  *slog.Logger
	conn *websocket.Conn
}

func NewWSEvent(log *slog.Logger, conn *websocket.Conn) *WSEvent {
	return &WSEvent{
		log:  log,
		conn: conn,
	}
}

func (p *WSEvent) TriggerEvent(m Message) error {
	const op = "handlers.event.TriggerEvent"

	msg, err := json.Marshal(m)
	if err != nil {
		p.log.Error("failed to marshal message", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err = p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		p.log.Error("failed to trigger event", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
