package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"quizapp/internal/infra/logger"
)

// Envelope é o formato de toda mensagem trocada no WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// HubMessage envolve a mensagem e o cliente remetente.
type HubMessage struct {
	Client  *Client
	Content Envelope
}

// Hub implementa ports.ResultsFeed: distribui eventos para todos os clientes conectados.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{} // fechado quando Run termina

	// IncomingMsgs é o canal onde o Hub recebe comandos dos clientes
	IncomingMsgs chan HubMessage

	// Handler processa comandos dos clientes (injetado pelo WebSocketHandler)
	EventHandler func(*Client, Envelope)

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		broadcast:    make(chan []byte, 64),
		done:         make(chan struct{}),
		clients:      make(map[*Client]bool),
		IncomingMsgs: make(chan HubMessage),
	}
}

// Broadcast publica um evento para todos. Não bloqueia: se a fila estiver
// cheia o evento é descartado.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	bytes, err := encode(eventType, payload)
	if err != nil {
		logger.Error("Erro ao serializar broadcast", "erro", err, "tipo", eventType)
		return
	}

	select {
	case h.broadcast <- bytes:
	default:
		logger.Warn("Fila de broadcast cheia, evento descartado", "tipo", eventType)
	}
}

// ClientCount retorna quantos clientes estão conectados.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run processa registros e eventos até o contexto ser cancelado.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case bytes := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- bytes:
				default:
					// Cliente lento: desconecta
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()

		case msg := <-h.IncomingMsgs:
			// Delega para o handler de comandos
			if h.EventHandler != nil {
				go h.EventHandler(msg.Client, msg.Content)
			}
		}
	}
}

// sendTo envia direto para um cliente, sem passar pela fila de broadcast.
func (h *Hub) sendTo(client *Client, eventType string, payload interface{}) {
	bytes, err := encode(eventType, payload)
	if err != nil {
		logger.Error("Erro ao serializar mensagem direta", "erro", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	select {
	case client.Send <- bytes:
	default:
		// Falha no envio
	}
}

func encode(eventType string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: eventType, Payload: raw})
}
