package summary

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-reflect/backend/internal/model/analysis"
	applog "github.com/zhouzirui/z-reflect/backend/pkg/log"
)

// ChainGenerator runs the summary prompt through an eino chain backed by any
// chat model (Ark in production).
type ChainGenerator struct {
	chain  compose.Runnable[map[string]any, *schema.Message]
	logger *zap.Logger
}

// NewChainGenerator compiles the prompt template and chat model into a chain.
func NewChainGenerator(ctx context.Context, chatModel model.BaseChatModel, logger *zap.Logger) (*ChainGenerator, error) {
	if chatModel == nil {
		return nil, ErrNotConfigured
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(summarySystemPrompt),
		schema.UserMessage(summaryUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile summary chain: %w", err)
	}

	return &ChainGenerator{chain: runnable, logger: applog.OrNop(logger)}, nil
}

// Generate implements Generator.
func (g *ChainGenerator) Generate(ctx context.Context, transcript string) (*analysis.ChatAnalysis, error) {
	msg, err := g.chain.Invoke(ctx, map[string]any{"transcript": transcript})
	if err != nil {
		return nil, fmt.Errorf("failed to run summary chain: %w", err)
	}
	if msg == nil {
		return nil, ErrEmptyResponse
	}

	result, err := decodeModelJSON(msg.Content)
	if err != nil {
		g.logger.Debug("summary chain output rejected", zap.Int("length", len(msg.Content)), zap.Error(err))
		return nil, err
	}

	g.logger.Debug("summary generated",
		zap.String("provider", "ark"),
		zap.Int("transcript_len", len(transcript)),
		zap.Int("topics", len(result.KeyTopics)),
	)
	return result, nil
}
