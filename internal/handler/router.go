package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-reflect/backend/internal/handler/analysis"
	"github.com/zhouzirui/z-reflect/backend/internal/handler/chat"
	middlewarePkg "github.com/zhouzirui/z-reflect/backend/internal/middleware"
	chatService "github.com/zhouzirui/z-reflect/backend/internal/service/chat"
	"github.com/zhouzirui/z-reflect/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. analyzer may be nil when no
// summary provider is configured; analysis routes then answer 503.
func NewRouter(chatSvc *chatService.Service, analyzer analysis.Analyzer, analysisTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	chatHandler := chat.New(chatSvc)
	analysisHandler := analysis.New(analyzer, chatSvc, analysisTimeout, logger)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		analysisHandler.RegisterRoutes(api)
	})

	return r
}
