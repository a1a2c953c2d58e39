package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zhouzirui/z-reflect/backend/internal/config"
)

func TestDecodeModelJSONPlainObject(t *testing.T) {
	got, err := decodeModelJSON(`{"summary":"  Talked about work. ","key_topics":["work"," ",""],"overall_tone":"calm","emotions":[{"emoji":"😌","name":"Relief"}]}`)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if got.Summary != "Talked about work." {
		t.Fatalf("unexpected summary %q", got.Summary)
	}
	if len(got.KeyTopics) != 1 || got.KeyTopics[0] != "work" {
		t.Fatalf("unexpected topics %v", got.KeyTopics)
	}
	if got.OverallTone != "calm" {
		t.Fatalf("unexpected tone %q", got.OverallTone)
	}
	if len(got.Emotions) != 1 || got.Emotions[0].Name != "Relief" {
		t.Fatalf("unexpected emotions %+v", got.Emotions)
	}
}

func TestDecodeModelJSONWrappedInProse(t *testing.T) {
	got, err := decodeModelJSON("Here you go:\n```json\n{\"summary\":\"ok\"}\n```")
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if got.Summary != "ok" {
		t.Fatalf("unexpected summary %q", got.Summary)
	}
}

func TestDecodeModelJSONFailures(t *testing.T) {
	if _, err := decodeModelJSON("   "); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if _, err := decodeModelJSON("no json here"); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if _, err := decodeModelJSON(`prefix {"summary": } suffix`); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestSystemPromptHasNoTemplateBraces(t *testing.T) {
	if strings.ContainsAny(summarySystemPrompt, "{}") {
		t.Fatal("system prompt is rendered as an FString template and must not contain braces")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	cfg := &config.Config{Analysis: config.AnalysisConfig{Provider: config.ProviderOpenAI}}
	if _, err := New(context.Background(), cfg, nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured for openai, got %v", err)
	}

	cfg.Analysis.Provider = config.ProviderArk
	if _, err := New(context.Background(), cfg, nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured for ark, got %v", err)
	}
}

func TestNewBuildsOpenAIGenerator(t *testing.T) {
	cfg := &config.Config{
		Analysis: config.AnalysisConfig{Provider: config.ProviderOpenAI},
		OpenAI:   config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-test", MaxOutputTokens: 100},
	}
	gen, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	if _, ok := gen.(*OpenAIGenerator); !ok {
		t.Fatalf("expected *OpenAIGenerator, got %T", gen)
	}
}
