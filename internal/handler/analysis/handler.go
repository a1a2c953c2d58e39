package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	model "github.com/zhouzirui/z-reflect/backend/internal/model/analysis"
	"github.com/zhouzirui/z-reflect/backend/internal/model/chat"
	chatService "github.com/zhouzirui/z-reflect/backend/internal/service/chat"
	applog "github.com/zhouzirui/z-reflect/backend/pkg/log"
	"github.com/zhouzirui/z-reflect/backend/pkg/utils"
)

var (
	errNoMessages     = errors.New("at least one message is required")
	errSenderRequired = errors.New("every message needs a sender")
)

// Analyzer 对完整的消息列表生成会话分析。
type Analyzer interface {
	Analyze(ctx context.Context, messages []chat.Message) (*model.ChatAnalysis, error)
}

// Handler 会话分析的HTTP与WebSocket处理器
type Handler struct {
	analyzer Analyzer
	chatSvc  *chatService.Service
	timeout  time.Duration
	logger   *zap.Logger
	upgrader websocket.Upgrader

	readTimeout time.Duration
}

// New 创建分析处理器。analyzer 为空时所有分析请求返回 503。
func New(analyzer Analyzer, chatSvc *chatService.Service, timeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		analyzer:    analyzer,
		chatSvc:     chatSvc,
		timeout:     timeout,
		readTimeout: wsReadTimeout,
		logger:      applog.OrNop(logger),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// RegisterRoutes 注册分析相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/analysis", h.handleAnalyzeMessages)
	r.Post("/sessions/{sessionID}/analysis", h.handleAnalyzeSession)
	r.Get("/ws/analysis", h.handleWebSocket)
}

type messagePayload struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

type analyzeRequest struct {
	Messages []messagePayload `json:"messages"`
}

func (p analyzeRequest) toMessages() ([]chat.Message, error) {
	if len(p.Messages) == 0 {
		return nil, errNoMessages
	}
	messages := make([]chat.Message, 0, len(p.Messages))
	for _, m := range p.Messages {
		sender := strings.ToLower(strings.TrimSpace(m.Sender))
		if sender == "" {
			return nil, errSenderRequired
		}
		messages = append(messages, chat.Message{Sender: sender, Content: m.Content})
	}
	return messages, nil
}

// handleAnalyzeMessages 分析请求体中携带的消息
func (h *Handler) handleAnalyzeMessages(w http.ResponseWriter, r *http.Request) {
	var payload analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	messages, err := payload.toMessages()
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondAnalysis(w, r, messages)
}

// handleAnalyzeSession 分析已保存会话的全部消息
func (h *Handler) handleAnalyzeSession(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatSvc.LoadTranscript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if len(messages) == 0 {
		utils.RespondError(w, http.StatusBadRequest, errNoMessages.Error())
		return
	}

	h.respondAnalysis(w, r, messages)
}

func (h *Handler) respondAnalysis(w http.ResponseWriter, r *http.Request, messages []chat.Message) {
	if h.analyzer == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "analysis unavailable")
		return
	}

	result, err := h.analyze(r.Context(), messages)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		utils.RespondError(w, status, "analysis failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

// analyze 在调用方一侧施加超时。
func (h *Handler) analyze(ctx context.Context, messages []chat.Message) (*model.ChatAnalysis, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	return h.analyzer.Analyze(ctx, messages)
}
