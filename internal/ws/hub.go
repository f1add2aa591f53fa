package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub tracks websocket clients per user and pushes order notifications
// to every connection a user has open.
type Hub struct {
	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Map to quickly find clients by UserID
	userClients map[uint][]*Client

	// Mutex to protect the userClients map
	mutex sync.Mutex

	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		userClients: make(map[uint][]*Client),
		done:        make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case <-h.done:
			return
		}
	}
}

// Stop ends Run. It must be called at most once.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) register(client *Client) {
	h.mutex.Lock()
	h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
	count := len(h.userClients[client.UserID])
	h.mutex.Unlock()

	log.Printf("User %d connected. Total connections for user: %d", client.UserID, count)
}

func (h *Hub) unregister(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	userConns := h.userClients[client.UserID]
	for i, conn := range userConns {
		if conn == client {
			h.userClients[client.UserID] = append(userConns[:i], userConns[i+1:]...)
			close(client.Send)
			break
		}
	}

	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
		log.Printf("User %d disconnected (Offline)", client.UserID)
	}
}

// SendToUser sends a message to all of a user's active connections.
// Connections whose buffer is full miss the message.
func (h *Hub) SendToUser(userID uint, message []byte) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	delivered := 0
	for _, client := range h.userClients[userID] {
		select {
		case client.Send <- message:
			delivered++
		default:
			log.Printf("Dropping notification for user %d: send buffer full", userID)
		}
	}
	return delivered
}

// IsUserOnline checks if a user has any active WebSocket connection
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return len(h.userClients[userID]) > 0
}

// OrderStatusMessage is pushed when an admin changes an order's status.
type OrderStatusMessage struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

func (h *Hub) NotifyOrderStatus(userID uint, orderID, status string) int {
	payload, err := json.Marshal(OrderStatusMessage{
		Type:    "order_status",
		OrderID: orderID,
		Status:  status,
	})
	if err != nil {
		log.Printf("Error marshalling order notification: %v", err)
		return 0
	}
	return h.SendToUser(userID, payload)
}
