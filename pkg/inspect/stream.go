package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// MessageType identifies a stream message.
type MessageType string

const (
	MessageGeneration MessageType = "generation"
)

// Message is sent to stream clients as JSON.
type Message struct {
	Type       MessageType         `json:"type"`
	Generation *GenerationSnapshot `json:"generation,omitempty"`
}

type streamClient struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

func (c *streamClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// stream fans committed generations out to WebSocket clients.
type stream struct {
	clients  map[*streamClient]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func newStream(logger *slog.Logger, checkOrigin func(*http.Request) bool) *stream {
	return &stream{
		clients: make(map[*streamClient]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// serve upgrades the connection, sends initial if non-nil, and keeps the
// client registered until it disconnects.
func (s *stream) serve(w http.ResponseWriter, r *http.Request, initial *GenerationSnapshot) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("stream upgrade failed", "error", err)
		return
	}
	client := &streamClient{conn: conn}

	s.mu.Lock()
	s.clients[client] = true
	s.mu.Unlock()

	if initial != nil {
		if data, err := encodeMessage(initial); err == nil {
			if err := client.write(data); err != nil {
				s.drop(client)
				return
			}
		}
	}

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.drop(client)
}

func (s *stream) drop(client *streamClient) {
	s.mu.Lock()
	_, ok := s.clients[client]
	delete(s.clients, client)
	s.mu.Unlock()
	if ok {
		client.conn.Close()
	}
}

// broadcast sends gen to every connected client.
func (s *stream) broadcast(gen *GenerationSnapshot) {
	data, err := encodeMessage(gen)
	if err != nil {
		s.logger.Warn("stream encode failed", "error", err)
		return
	}

	s.mu.RLock()
	clients := make([]*streamClient, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if err := client.write(data); err != nil {
			s.drop(client)
		}
	}
}

// clientCount returns the number of connected clients.
func (s *stream) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// close closes all client connections.
func (s *stream) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		client.conn.Close()
		delete(s.clients, client)
	}
}

func encodeMessage(gen *GenerationSnapshot) ([]byte, error) {
	return json.Marshal(Message{Type: MessageGeneration, Generation: gen})
}
