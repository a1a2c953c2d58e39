package summary

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-reflect/backend/internal/config"
	"github.com/zhouzirui/z-reflect/backend/internal/model/analysis"
	applog "github.com/zhouzirui/z-reflect/backend/pkg/log"
)

var payloadSchema = generateSchema[payload]()

// OpenAIGenerator asks the Responses API for a strict JSON-schema summary.
type OpenAIGenerator struct {
	client          openai.Client
	model           string
	maxOutputTokens int64
	logger          *zap.Logger
}

// NewOpenAIGenerator creates a generator from cfg. The SDK's own retries are
// disabled; a failed call fails the analysis.
func NewOpenAIGenerator(cfg config.OpenAIConfig, logger *zap.Logger, opts ...option.RequestOption) *OpenAIGenerator {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	return &OpenAIGenerator{
		client:          openai.NewClient(clientOpts...),
		model:           cfg.Model,
		maxOutputTokens: int64(cfg.MaxOutputTokens),
		logger:          applog.OrNop(logger),
	}
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, transcript string) (*analysis.ChatAnalysis, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "ChatAnalysis",
			Schema:      payloadSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Chat session analysis JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           g.model,
		MaxOutputTokens: openai.Int(g.maxOutputTokens),
		Instructions:    openai.String(summarySystemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage("Transcript:\n"+transcript, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := g.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses call: %w", err)
	}

	result, err := decodeModelJSON(resp.OutputText())
	if err != nil {
		return nil, err
	}

	g.logger.Debug("summary generated",
		zap.String("provider", "openai"),
		zap.String("model", g.model),
		zap.Int("transcript_len", len(transcript)),
	)
	return result, nil
}

func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	raw, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	closeObjects(out)
	return out
}

// closeObjects marks every object schema as closed, as strict mode requires.
func closeObjects(node map[string]any) {
	if t, ok := node["type"].(string); ok && t == "object" {
		node["additionalProperties"] = false
	}
	if props, ok := node["properties"].(map[string]any); ok {
		for _, prop := range props {
			if m, ok := prop.(map[string]any); ok {
				closeObjects(m)
			}
		}
	}
	if items, ok := node["items"].(map[string]any); ok {
		closeObjects(items)
	}
}
