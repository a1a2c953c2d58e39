// Package summary produces the model-written part of a session analysis from
// a plain-text transcript.
package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-reflect/backend/internal/config"
	"github.com/zhouzirui/z-reflect/backend/internal/model/analysis"
)

var (
	ErrNotConfigured     = errors.New("summary provider not configured")
	ErrEmptyResponse     = errors.New("summary model returned an empty response")
	ErrMalformedResponse = errors.New("summary model returned malformed output")
)

// Generator turns a transcript into a structured summary.
type Generator interface {
	Generate(ctx context.Context, transcript string) (*analysis.ChatAnalysis, error)
}

// New builds the generator selected by cfg.Analysis.Provider.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Generator, error) {
	switch cfg.Analysis.Provider {
	case config.ProviderOpenAI:
		if !cfg.OpenAI.Enabled() {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY and OPENAI_MODEL are required", ErrNotConfigured)
		}
		return NewOpenAIGenerator(cfg.OpenAI, logger), nil
	default:
		if !cfg.AI.Enabled() {
			return nil, fmt.Errorf("%w: Ark credentials or ARK_MODEL missing", ErrNotConfigured)
		}
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		generator, err := NewChainGenerator(ctx, chatModel, logger)
		if err != nil {
			return nil, err
		}
		return generator, nil
	}
}

// payload is the JSON object both providers ask the model for.
type payload struct {
	Summary     string           `json:"summary" jsonschema:"required"`
	KeyTopics   []string         `json:"key_topics" jsonschema:"required"`
	Insights    []string         `json:"insights" jsonschema:"required"`
	Suggestions []string         `json:"suggestions" jsonschema:"required"`
	OverallTone string           `json:"overall_tone" jsonschema:"required"`
	Emotions    []emotionPayload `json:"emotions" jsonschema:"required"`
}

type emotionPayload struct {
	Emoji string `json:"emoji" jsonschema:"required"`
	Name  string `json:"name" jsonschema:"required"`
}

func (p payload) toAnalysis() *analysis.ChatAnalysis {
	out := &analysis.ChatAnalysis{
		Summary:     strings.TrimSpace(p.Summary),
		KeyTopics:   trimAll(p.KeyTopics),
		Insights:    trimAll(p.Insights),
		Suggestions: trimAll(p.Suggestions),
		OverallTone: strings.TrimSpace(p.OverallTone),
	}
	for _, e := range p.Emotions {
		out.Emotions = append(out.Emotions, analysis.Emotion{Emoji: e.Emoji, Name: e.Name})
	}
	return out
}

func trimAll(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// decodeModelJSON accepts either a bare JSON object or one wrapped in prose
// or code fences.
func decodeModelJSON(outputText string) (*analysis.ChatAnalysis, error) {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return nil, ErrEmptyResponse
	}

	var p payload
	if err := json.Unmarshal([]byte(s), &p); err == nil {
		return p.toAnalysis(), nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object found (len=%d)", ErrMalformedResponse, len(s))
	}

	if err := json.Unmarshal([]byte(s[start:end+1]), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return p.toAnalysis(), nil
}

// summarySystemPrompt must stay free of curly braces: the eino chain renders
// it as an FString template.
const summarySystemPrompt = `You are a reflective conversation analyst.
You will receive the transcript of one chat session. Each line starts with the sender in upper case, for example "USER:" or "ASSISTANT:".

Return exactly one JSON object with these keys and nothing else:
- summary: two to four sentences describing what the user talked about and how the conversation developed
- key_topics: short noun phrases for the main topics
- insights: observations about the user's situation, needs or patterns
- suggestions: gentle, concrete next steps the user could take
- overall_tone: one or two words describing the tone of the session
- emotions: up to five objects with "emoji" and "name" for the emotions the user expressed

Write in the language the user used. Do not invent facts that are not in the transcript.`

const summaryUserPrompt = "Transcript:\n{transcript}"
