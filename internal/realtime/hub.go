package realtime

import (
	"github.com/rs/zerolog"
)

// Hub owns the set of live WebSocket clients and fans messages out to the
// connections subscribed to each topic.
type Hub struct {
	registry *Registry

	// connection ID -> client
	clients map[string]*Client

	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscribeMsg
	unsubscribe chan subscribeMsg
	broadcast   chan broadcastMsg

	logger zerolog.Logger
}

type subscribeMsg struct {
	client *Client
	topic  string
}

type broadcastMsg struct {
	topic   string
	payload []byte
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		registry:    NewRegistry(),
		clients:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscribeMsg),
		unsubscribe: make(chan subscribeMsg),
		broadcast:   make(chan broadcastMsg, 256),
		logger:      logger,
	}
}

func (slf *Hub) Run() {
	for {
		select {
		case client := <-slf.register:
			slf.clients[client.id] = client
			// Every connection hears about its own user's notifications.
			slf.registry.Subscribe(client.id, UserTopic(client.userID))
			slf.logger.Info().
				Str("connId", client.id).
				Uint("userId", client.userID).
				Int("total", len(slf.clients)).
				Msg("Client registered")

		case client := <-slf.unregister:
			if _, ok := slf.clients[client.id]; ok {
				delete(slf.clients, client.id)
				close(client.send)
				slf.registry.UnsubscribeAll(client.id)
				slf.logger.Info().
					Str("connId", client.id).
					Int("total", len(slf.clients)).
					Msg("Client unregistered")
			}

		case msg := <-slf.subscribe:
			slf.registry.Subscribe(msg.client.id, msg.topic)
			slf.logger.Debug().
				Str("connId", msg.client.id).
				Str("topic", msg.topic).
				Msg("Client subscribed")

		case msg := <-slf.unsubscribe:
			slf.registry.Unsubscribe(msg.client.id, msg.topic)
			slf.logger.Debug().
				Str("connId", msg.client.id).
				Str("topic", msg.topic).
				Msg("Client unsubscribed")

		case msg := <-slf.broadcast:
			for _, connID := range slf.registry.SubscribersOf(msg.topic) {
				client, ok := slf.clients[connID]
				if !ok {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					// Client buffer full, drop the connection
					close(client.send)
					delete(slf.clients, connID)
					slf.registry.UnsubscribeAll(connID)
					slf.logger.Warn().
						Str("connId", connID).
						Msg("Client send buffer full, dropping connection")
				}
			}
		}
	}
}
