package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-reflect/backend/internal/model/chat"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 50 * time.Second
	wsWriteTimeout = 10 * time.Second
)

type inboundMessage struct {
	Type      string           `json:"type"`
	SessionID string           `json:"sessionId,omitempty"`
	Messages  []messagePayload `json:"messages,omitempty"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// handleWebSocket 每收到一条 analyze 请求就返回一份完整的分析结果。
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.analyzer == nil {
		http.Error(w, "analysis unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	})

	go pingLoop(ctx, conn)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		// 分析期间没有读取，pong 无法续期，先取消读超时。
		conn.SetReadDeadline(time.Time{})
		h.handleMessage(ctx, conn, &msg)
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, msg *inboundMessage) {
	if msg.Type != "analyze" {
		h.sendError(conn, msg.SessionID, "unsupported message type: "+msg.Type)
		return
	}

	messages, err := h.resolveMessages(ctx, msg)
	if err != nil {
		h.sendError(conn, msg.SessionID, err.Error())
		return
	}

	result, err := h.analyze(ctx, messages)
	if err != nil {
		h.sendError(conn, msg.SessionID, "analysis failed")
		return
	}

	h.send(conn, outgoingMessage{Type: "analysis", SessionID: msg.SessionID, Data: result})
}

// resolveMessages 优先使用请求中携带的消息，否则读取已保存的会话。
func (h *Handler) resolveMessages(ctx context.Context, msg *inboundMessage) ([]chat.Message, error) {
	if len(msg.Messages) > 0 || msg.SessionID == "" {
		return analyzeRequest{Messages: msg.Messages}.toMessages()
	}

	messages, err := h.chatSvc.LoadTranscript(ctx, msg.SessionID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, errNoMessages
	}
	return messages, nil
}

func (h *Handler) sendError(conn *websocket.Conn, sessionID, message string) {
	h.send(conn, outgoingMessage{
		Type:      "error",
		SessionID: sessionID,
		Data:      map[string]string{"message": message},
	})
}

func (h *Handler) send(conn *websocket.Conn, msg outgoingMessage) {
	msg.Timestamp = time.Now().Unix()
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal websocket message failed", zap.Error(err))
		return
	}

	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Warn("websocket write failed", zap.String("type", msg.Type), zap.Error(err))
	}
}

// pingLoop 通过控制帧保活，WriteControl 可与普通写并发调用。
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}
