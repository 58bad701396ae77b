package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"

	"go-bingohall/internal/lib/logger/sl"
)

type Message struct {
	Channel string                 `json:"channel"`
	Event   string                 `json:"event"`
	Data    map[string]interface{} `json:"data"`
}

type Subscription struct {
	Conn    *websocket.Conn
	Channel string
}

// Hub fans match events out to every connection subscribed to the match
// channel. The api process connects here as an ordinary client and publishes
// draw, lifecycle and bingo events; board and player clients only listen.
type Hub struct {
	Channels    map[string]map[*websocket.Conn]bool
	Broadcast   chan Message
	Subscribe   chan Subscription
	Unsubscribe chan *websocket.Conn
	mutex       sync.RWMutex
	log         *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		Channels:    make(map[string]map[*websocket.Conn]bool),
		Broadcast:   make(chan Message),
		Subscribe:   make(chan Subscription),
		Unsubscribe: make(chan *websocket.Conn),
		log:         log,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func (hub *Hub) run() {
	for {
		select {
		case sub := <-hub.Subscribe:
			hub.mutex.Lock()
			if hub.Channels[sub.Channel] == nil {
				hub.Channels[sub.Channel] = make(map[*websocket.Conn]bool)
			}
			hub.Channels[sub.Channel][sub.Conn] = true
			hub.mutex.Unlock()
		case conn := <-hub.Unsubscribe:
			hub.mutex.Lock()
			for channel, receivers := range hub.Channels {
				delete(receivers, conn)
				if len(receivers) == 0 {
					delete(hub.Channels, channel)
				}
			}
			hub.mutex.Unlock()
		case message := <-hub.Broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				hub.log.Error("failed to marshal message", sl.Err(err))

				continue
			}

			hub.log.Info("broadcasting message", sl.String("channel", message.Channel),
				sl.String("event", message.Event),
				sl.Any("data", message.Data))

			hub.mutex.RLock()
			for conn := range hub.Channels[message.Channel] {
				if err = conn.WriteMessage(websocket.TextMessage, data); err != nil {
					hub.log.Error("failed to write message", sl.Err(err))
				}
			}
			hub.mutex.RUnlock()
		}
	}
}

func (hub *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Error("failed to upgrade connection", sl.Err(err))

		return
	}

	defer func() {
		hub.Unsubscribe <- ws

		if closeErr := ws.Close(); closeErr != nil {
			hub.log.Error("failed to close connection", sl.Err(closeErr))
		}
	}()

	for {
		_, p, readErr := ws.ReadMessage()
		if readErr != nil {
			if !websocket.IsCloseError(readErr, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				hub.log.Error("failed to read message", sl.Err(readErr))
			}

			return
		}

		var message Message

		if err = json.Unmarshal(p, &message); err != nil {
			hub.log.Error("failed to unmarshal message", sl.Err(err))

			continue
		}

		hub.log.Info("incoming message", sl.String("channel", message.Channel),
			sl.String("event", message.Event),
			sl.Any("data", message.Data))

		// A frame carrying an event is a publish; only bare channel frames
		// subscribe. Publishers (the api process) must not be enrolled as
		// receivers of their own broadcasts.
		if message.Event == "" {
			hub.Subscribe <- Subscription{Conn: ws, Channel: message.Channel}

			continue
		}

		hub.Broadcast <- message
	}
}

func (hub *Hub) RunServer() {
	go hub.run()
}
