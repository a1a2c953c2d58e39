package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-reflect/backend/internal/config"
	"github.com/zhouzirui/z-reflect/backend/internal/handler"
	analysisHandler "github.com/zhouzirui/z-reflect/backend/internal/handler/analysis"
	analysisService "github.com/zhouzirui/z-reflect/backend/internal/service/analysis"
	"github.com/zhouzirui/z-reflect/backend/internal/service/chat"
	"github.com/zhouzirui/z-reflect/backend/internal/service/summary"
	applog "github.com/zhouzirui/z-reflect/backend/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := applog.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	chatService := chat.NewService()

	// Analysis stays disabled when no summary provider can be built.
	var analyzer analysisHandler.Analyzer
	generator, err := summary.New(ctx, cfg, logger)
	if err != nil {
		logger.Warn("summary provider unavailable, analysis endpoints disabled",
			zap.String("provider", cfg.Analysis.Provider),
			zap.Error(err),
		)
	} else {
		analyzer = analysisService.NewService(generator, logger)
		logger.Info("analysis service initialized", zap.String("provider", cfg.Analysis.Provider))
	}

	router := handler.NewRouter(chatService, analyzer, cfg.Analysis.Timeout, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("z-reflect backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
