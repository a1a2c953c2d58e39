// Package analysis 组合摘要模型与本地情绪检测，生成会话分析。
package analysis

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-reflect/backend/internal/analysis/emotion"
	model "github.com/zhouzirui/z-reflect/backend/internal/model/analysis"
	"github.com/zhouzirui/z-reflect/backend/internal/model/chat"
	"github.com/zhouzirui/z-reflect/backend/internal/service/summary"
	applog "github.com/zhouzirui/z-reflect/backend/pkg/log"
)

// Service 无状态，可被并发调用。
type Service struct {
	generator summary.Generator
	detect    func([]chat.Message) []model.Emotion
	logger    *zap.Logger
}

// NewService 创建会话分析服务。
func NewService(generator summary.Generator, logger *zap.Logger) *Service {
	return &Service{
		generator: generator,
		detect:    emotion.Detect,
		logger:    applog.OrNop(logger),
	}
}

// Analyze 将消息渲染为文本交给摘要模型，再用本地检测到的情绪覆盖其情绪字段。
// 摘要模型失败时记录一次日志，并原样返回该错误。
func (s *Service) Analyze(ctx context.Context, messages []chat.Message) (*model.ChatAnalysis, error) {
	transcript := RenderTranscript(messages)

	generated, err := s.generator.Generate(ctx, transcript)
	if err != nil {
		s.logger.Error("analyze chat session failed",
			zap.Int("messages", len(messages)),
			zap.Error(err),
		)
		return nil, err
	}
	if generated == nil {
		generated = &model.ChatAnalysis{}
	}

	emotions := s.detect(messages)
	if len(emotions) == 0 {
		emotions = []model.Emotion{emotion.Fallback()}
	}

	result := generated.WithEmotions(emotions)
	s.logger.Info("chat session analyzed",
		zap.Int("messages", len(messages)),
		zap.Int("emotions", len(result.Emotions)),
	)
	return &result, nil
}

// RenderTranscript 每条消息一行，格式为 "SENDER: content"，保持原有顺序。
func RenderTranscript(messages []chat.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, strings.ToUpper(msg.Sender)+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}
