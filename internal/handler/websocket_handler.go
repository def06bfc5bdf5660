// internal/handler/websocket_handler.go
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/model"
	"printer-service/internal/utils"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// subscriptionRequest names the event types a client wants
type subscriptionRequest struct {
	Events []model.EventType `json:"events"`
}

// commandRequest drives the printer link from a WebSocket client
type commandRequest struct {
	Command string `json:"command"`
	Address string `json:"address,omitempty"`
	Secure  bool   `json:"secure,omitempty"`
}

// WebSocketHandler streams connection events to WebSocket clients
type WebSocketHandler struct {
	upgrader       websocket.Upgrader
	hub            *Hub
	eventBus       *EventBus
	printerService PrinterService
	logger         *utils.ServiceLogger
}

// NewWebSocketHandler creates a new WebSocket handler subscribed to the
// service events
func NewWebSocketHandler(printerService PrinterService, security *config.SecurityConfig, logger *zap.Logger) *WebSocketHandler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(security.AllowedOrigins),
	}

	hub := NewHub()
	handler := &WebSocketHandler{
		upgrader:       upgrader,
		hub:            hub,
		eventBus:       NewEventBus(hub, logger),
		printerService: printerService,
		logger:         utils.NewServiceLogger(logger, "websocket-handler"),
	}

	handler.eventBus.Start(printerService)
	return handler
}

// checkOrigin accepts every origin when none are configured
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if len(allowed) == 0 || origin == "" {
			return true
		}
		return slices.Contains(allowed, origin) || slices.Contains(allowed, "*")
	}
}

// HandleEventConnection handles event stream WebSocket connections
// @Summary Connection event stream
// @Description WebSocket stream of printer connection events. DATA_RECEIVED payloads are base64.
// @Tags WebSocket
// @Router /api/v1/ws/events [get]
func (h *WebSocketHandler) HandleEventConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
	}

	h.hub.Register(client)
	h.logger.Info("Event WebSocket client connected",
		zap.String("client_id", client.ID),
		zap.String("remote_addr", client.RemoteAddr),
	)

	h.sendStatus(client, "initial_status", "")

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// GetConnectionStats lists the connected event stream clients
// @Summary WebSocket client statistics
// @Tags WebSocket
// @Produce json
// @Success 200 {object} utils.APIResponse{data=ConnectionStats} "Connected clients"
// @Router /api/v1/ws/stats [get]
func (h *WebSocketHandler) GetConnectionStats(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "WebSocket connection stats", h.hub.GetStats())
}

// Close stops forwarding events and disconnects every client
func (h *WebSocketHandler) Close() {
	h.eventBus.Stop()
	h.hub.Close()
}

func (h *WebSocketHandler) handleClientRead(client *Client) {
	defer func() {
		h.hub.Unregister(client)
		client.Connection.Close()
	}()

	client.Connection.SetReadDeadline(time.Now().Add(pongWait))
	client.Connection.SetPongHandler(func(string) error {
		client.Connection.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageBytes, err := client.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket read error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
			}
			return
		}

		var message inboundMessage
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			h.sendError(client, "", "invalid message")
			continue
		}

		h.handleClientMessage(client, &message)
	}
}

func (h *WebSocketHandler) handleClientWrite(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Connection.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Connection.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Error("WebSocket write error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
				return
			}

		case <-ticker.C:
			client.Connection.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) handleClientMessage(client *Client, message *inboundMessage) {
	switch message.Type {
	case "subscribe", "unsubscribe":
		var req subscriptionRequest
		if err := json.Unmarshal(message.Data, &req); err != nil || len(req.Events) == 0 {
			h.sendError(client, message.RequestID, "events are required")
			return
		}
		if message.Type == "subscribe" {
			client.Subscribe(req.Events...)
		} else {
			client.Unsubscribe(req.Events...)
		}
		h.sendMessage(client, &WebSocketMessage{
			Type:      "subscription_updated",
			Data:      gin.H{"events": client.Subscriptions()},
			Timestamp: time.Now(),
			RequestID: message.RequestID,
		})

	case "command":
		var req commandRequest
		if err := json.Unmarshal(message.Data, &req); err != nil {
			h.sendError(client, message.RequestID, "invalid command data")
			return
		}
		go h.executeCommand(client, message.RequestID, req)

	case "ping":
		h.sendMessage(client, &WebSocketMessage{
			Type:      "pong",
			Timestamp: time.Now(),
			RequestID: message.RequestID,
		})

	default:
		h.logger.Warn("Unknown message type",
			zap.String("type", message.Type),
			zap.String("client_id", client.ID),
		)
		h.sendError(client, message.RequestID, fmt.Sprintf("unknown message type: %s", message.Type))
	}
}

func (h *WebSocketHandler) executeCommand(client *Client, requestID string, req commandRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch req.Command {
	case "connect":
		err = h.printerService.Connect(ctx, req.Address, req.Secure)
	case "disconnect":
		h.printerService.Disconnect()
	case "status":
	default:
		h.sendError(client, requestID, fmt.Sprintf("unknown command: %s", req.Command))
		return
	}

	if err != nil {
		h.sendError(client, requestID, err.Error())
		return
	}
	h.sendStatus(client, "command_response", requestID)
}

func (h *WebSocketHandler) sendStatus(client *Client, messageType, requestID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h.sendMessage(client, &WebSocketMessage{
		Type:      messageType,
		Data:      h.printerService.Status(ctx),
		Timestamp: time.Now(),
		RequestID: requestID,
	})
}

func (h *WebSocketHandler) sendMessage(client *Client, message *WebSocketMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal WebSocket message", zap.Error(err))
		return
	}

	if !h.hub.Send(client, messageBytes) {
		h.logger.Warn("Client gone or send channel full, dropping message",
			zap.String("client_id", client.ID),
		)
	}
}

func (h *WebSocketHandler) sendError(client *Client, requestID, errorMsg string) {
	h.sendMessage(client, &WebSocketMessage{
		Type:      "error",
		Data:      gin.H{"error": errorMsg},
		Timestamp: time.Now(),
		RequestID: requestID,
	})
}
