package websocket

import (
	"github.com/isdelr/habit-tracker-be/internal/models"
	"github.com/rs/zerolog/log"
)

// userMessage is a message addressed to every client of one user.
type userMessage struct {
	userID int64
	data   []byte
}

// clientMessage is a message for one specific client.
type clientMessage struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients and routes messages to them.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	// Registered clients, grouped by the user they belong to.
	subscriptions map[int64]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Messages addressed to a single user.
	direct chan userMessage

	// Replies to a single connection.
	reply chan clientMessage

	done chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		subscriptions: make(map[int64]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		direct:        make(chan userMessage, 256),
		reply:         make(chan clientMessage, 64),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for _, subs := range h.subscriptions {
				for client := range subs {
					close(client.Send)
				}
			}
			h.subscriptions = make(map[int64]map[*Client]bool)
			return
		case client := <-h.register:
			if h.subscriptions[client.UserID] == nil {
				h.subscriptions[client.UserID] = make(map[*Client]bool)
			}
			h.subscriptions[client.UserID][client] = true
			log.Info().Int64("user_id", client.UserID).Str("client_id", client.ID).Msg("Client connected")
		case client := <-h.unregister:
			h.remove(client)
		case msg := <-h.direct:
			for client := range h.subscriptions[msg.userID] {
				select {
				case client.Send <- msg.data:
				default:
					// Slow consumer; drop it rather than block every other user.
					h.remove(client)
				}
			}
		case msg := <-h.reply:
			if !h.subscriptions[msg.client.UserID][msg.client] {
				continue
			}
			select {
			case msg.client.Send <- msg.data:
			default:
				h.remove(msg.client)
			}
		}
	}
}

// Stop terminates Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.done)
}

// Publish queues a notification for every client of userID. It never blocks;
// when the queue is full the push is dropped, since the notification is
// already stored and will show up on the next list call.
func (h *Hub) Publish(userID int64, n models.Notification) {
	select {
	case h.direct <- userMessage{userID: userID, data: NewNotificationMessage(n)}:
	default:
		log.Warn().Int64("user_id", userID).Int64("notification_id", n.ID).Msg("Hub queue full, dropping live notification")
	}
}

// Reply queues data for a single client. Clients that have already been
// removed are skipped, so callers never write to a closed send channel.
func (h *Hub) Reply(client *Client, data []byte) {
	select {
	case h.reply <- clientMessage{client: client, data: data}:
	case <-h.done:
	default:
		log.Warn().Str("client_id", client.ID).Msg("Hub queue full, dropping reply")
	}
}

// Register adds a client. It returns false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its send channel. It is a no-op for
// clients that are already gone or when the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	subs, ok := h.subscriptions[client.UserID]
	if !ok || !subs[client] {
		return
	}
	delete(subs, client)
	close(client.Send)
	if len(subs) == 0 {
		delete(h.subscriptions, client.UserID)
	}
	log.Info().Int64("user_id", client.UserID).Str("client_id", client.ID).Msg("Client disconnected")
}
