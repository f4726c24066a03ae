package websocket

import (
	"net/http"

	"quizapp/internal/infra/logger"
)

// WebSocketHandler gerencia o upgrade e os comandos do feed de resultados.
type WebSocketHandler struct {
	hub *Hub
	// userID extrai o usuário autenticado da requisição
	userID func(*http.Request) string
}

func NewWebSocketHandler(hub *Hub, userID func(*http.Request) string) *WebSocketHandler {
	handler := &WebSocketHandler{
		hub:    hub,
		userID: userID,
	}

	// Registra o callback no Hub
	hub.EventHandler = handler.HandleEvent
	return handler
}

// HandleWS godoc
// @Summary Feed de resultados em tempo real
// @Description Faz upgrade para WebSocket e envia eventos "quiz_completed" {userName, percentage, total}.
// @Tags Results
// @Success 101 "Switching Protocols"
// @Failure 401 "Não autenticado"
// @Router /ws/results [get]
func (h *WebSocketHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("Falha no upgrade WebSocket", "erro", err)
		return
	}

	client := &Client{
		Hub:    h.hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: h.userID(r),
	}

	select {
	case client.Hub.register <- client:
	case <-client.Hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// HandleEvent processa mensagens vindas dos clientes.
func (h *WebSocketHandler) HandleEvent(client *Client, msg Envelope) {
	switch msg.Type {
	case "ping":
		h.hub.sendTo(client, "pong", nil)
	default:
		h.hub.sendTo(client, "error", "evento desconhecido: "+msg.Type)
	}
}
