package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types pushed over WebSocket
const (
	NotificationTypeBookingRequest = "booking_request"
	NotificationTypeBookingStatus  = "booking_status"
	NotificationTypeRatingReceived = "rating_received"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userId,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn
}

// Hub maintains the set of active clients and pushes notifications to them.
// Register and unregister also drive the presence flags on the users
// collection through the optional callbacks.
type Hub struct {
	clients      map[primitive.ObjectID]*Client
	register     chan *Client
	unregister   chan *Client
	mu           sync.RWMutex
	OnConnect    func(userID primitive.ObjectID)
	OnDisconnect func(userID primitive.ObjectID)
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
			if h.OnConnect != nil {
				h.OnConnect(client.UserID)
			}
		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
			if h.OnDisconnect != nil {
				h.OnDisconnect(client.UserID)
			}
		}
	}
}

// IsConnected reports whether the user currently has an open connection
func (h *Hub) IsConnected(userID primitive.ObjectID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// SendToUser sends a notification to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.Conn.WriteJSON(notification)
}

// NotifyBookingRequest tells a vendor about a new booking
func (h *Hub) NotifyBookingRequest(vendorID primitive.ObjectID, bookingData interface{}) error {
	return h.SendToUser(vendorID, Notification{
		Type:    NotificationTypeBookingRequest,
		Message: "New booking request received",
		Data:    bookingData,
	})
}

// NotifyBookingStatus tells a customer their booking status changed
func (h *Hub) NotifyBookingStatus(customerID primitive.ObjectID, bookingData interface{}) error {
	return h.SendToUser(customerID, Notification{
		Type:    NotificationTypeBookingStatus,
		Message: "Your booking status has been updated",
		Data:    bookingData,
	})
}

// NotifyRatingReceived tells a vendor they got a new rating
func (h *Hub) NotifyRatingReceived(vendorID primitive.ObjectID, ratingData interface{}) error {
	return h.SendToUser(vendorID, Notification{
		Type:    NotificationTypeRatingReceived,
		Message: "You received a new rating",
		Data:    ratingData,
	})
}
