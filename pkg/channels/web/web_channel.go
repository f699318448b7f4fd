// Package web serves the browser UI over a websocket. Replies stream as one
// JSON frame per fragment, terminated by a done frame.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"ricky/pkg/api"
	"ricky/pkg/llm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for decoupled UI
	},
}

type WebConfig struct {
	Port int `json:"port"` // Default: 9453
}

// IncomingMessage is the frame the UI sends. Type defaults to "message";
// "list_models" requests the model inventory instead of a turn.
type IncomingMessage struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Model string `json:"model"`
}

// SafeConn serializes writes; gorilla/websocket allows one concurrent writer.
type SafeConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (sc *SafeConn) WriteMessage(messageType int, data []byte) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.Conn.WriteMessage(messageType, data)
}

type WebChannel struct {
	config      WebConfig
	server      *http.Server
	models      *llm.ModelDirectory // For answering list_models requests
	connections map[string]*SafeConn
	mu          sync.RWMutex
}

func NewWebChannel(cfg WebConfig, models *llm.ModelDirectory) *WebChannel {
	return &WebChannel{
		config:      cfg,
		models:      models,
		connections: make(map[string]*SafeConn),
	}
}

func (c *WebChannel) ID() string {
	return "web"
}

func (c *WebChannel) Start(ctx api.ChannelContext) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		c.handleWebSocket(w, r, ctx)
	})

	addr := fmt.Sprintf(":%d", c.config.Port)
	c.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	slog.Info("Web API listening", "port", c.config.Port)

	go func() {
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Web API server error", "error", err)
		}
	}()

	return nil
}

func (c *WebChannel) Stop() error {
	if c.server != nil {
		return c.server.Close()
	}
	return nil
}

func (c *WebChannel) conn(userID string) (*SafeConn, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	conn, ok := c.connections[userID]
	return conn, ok
}

func (c *WebChannel) Send(session api.SessionContext, message string) error {
	conn, ok := c.conn(session.UserID)
	if !ok {
		return fmt.Errorf("web user %s not connected", session.UserID)
	}

	frame, err := json.Marshal(map[string]string{
		"type": "text",
		"text": message,
	})
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"done"}`))
}

// SendSignal implements the gateway.SignalingChannel interface.
func (c *WebChannel) SendSignal(session api.SessionContext, signal string) error {
	conn, ok := c.conn(session.UserID)
	if !ok {
		return fmt.Errorf("web user %s not connected", session.UserID)
	}

	frame, err := json.Marshal(map[string]string{
		"type":  "signal",
		"value": signal,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal signal: %w", err)
	}
	return conn.WriteMessage(websocket.TextMessage, frame)
}

// Stream implements gateway.Channel. Each fragment becomes one text frame;
// the done frame marks the end of the turn so the UI can close the bubble.
func (c *WebChannel) Stream(session api.SessionContext, fragments <-chan string) error {
	conn, ok := c.conn(session.UserID)
	if !ok {
		return fmt.Errorf("web user %s not connected", session.UserID)
	}

	for fragment := range fragments {
		frame, err := json.Marshal(map[string]string{
			"type": "text",
			"text": fragment,
		})
		if err != nil {
			slog.Error("Failed to marshal stream fragment", "error", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return err
		}
	}

	return conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"done"}`))
}

// sendModelList answers a list_models frame with the merged local and
// hosted inventory.
func (c *WebChannel) sendModelList(conn *SafeConn) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	frame, err := json.Marshal(map[string]any{
		"type":   "models",
		"models": c.models.ListAvailable(ctx),
	})
	if err != nil {
		slog.Error("Failed to marshal model list", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		slog.Error("Failed to send model list", "error", err)
	}
}

func (c *WebChannel) handleWebSocket(w http.ResponseWriter, r *http.Request, ctx api.ChannelContext) {
	rawConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WS Upgrade failed", "error", err)
		return
	}

	conn := &SafeConn{Conn: rawConn}

	// Simple UserID based on RemoteAddr
	userID := r.RemoteAddr

	c.mu.Lock()
	c.connections[userID] = conn
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.connections, userID)
		c.mu.Unlock()
		conn.Close()
	}()

	session := api.SessionContext{
		ChannelID: "web",
		UserID:    userID,
		ChatID:    userID,
		Username:  "WebUser",
	}

	for {
		_, msgBytes, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var content, model string

		var incoming IncomingMessage
		if err := json.Unmarshal(msgBytes, &incoming); err == nil {
			if incoming.Type == "list_models" {
				c.sendModelList(conn)
				continue
			}
			content = incoming.Text
			model = incoming.Model
		} else {
			// Fallback: treat as plain text (backward compatibility)
			content = string(msgBytes)
		}

		if content == "" {
			continue
		}

		ctx.OnMessage(c.ID(), &api.UnifiedMessage{
			Session: session,
			Content: content,
			Model:   model,
		})
	}
}
