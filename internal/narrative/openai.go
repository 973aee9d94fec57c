package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// commentsSchema is reflected once at startup; a bad schema is a programming
// error.
var commentsSchema = generateSchema[generatedPayload]()

// OpenAICompleter implements Completer against the OpenAI Responses API.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter builds a completer for the given API key and model.
func NewOpenAICompleter(apiKey, model string) *OpenAICompleter {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAICompleter{client: &client, model: model}
}

// Complete issues a single request. No retries; rate limits and server
// errors come back as *TransportError for the caller to act on.
func (c *OpenAICompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (Completion, error) {
	if c.client == nil {
		return Completion{}, errors.New("openai completer: client is nil")
	}
	if c.model == "" {
		return Completion{}, errors.New("openai completer: model is empty")
	}

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(1500),
		Instructions:    openai.String(systemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(userPrompt, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if jsonMode {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "ProposalComments",
					Schema:      commentsSchema,
					Strict:      openai.Bool(true),
					Description: openai.String("Proposal comments block JSON"),
					Type:        "json_schema",
				},
			},
		}
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return Completion{}, classifyTransportError(err)
	}

	return Completion{
		Content:     resp.OutputText(),
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}

func classifyTransportError(err error) *TransportError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429:
			return &TransportError{StatusCode: apiErr.StatusCode, Kind: KindRateLimited, Err: err}
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return &TransportError{StatusCode: apiErr.StatusCode, Kind: KindUnauthorized, Err: err}
		default:
			return &TransportError{StatusCode: apiErr.StatusCode, Kind: KindServer, Err: err}
		}
	}

	// Transport-level failures have no status code; fall back to sniffing.
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "too many requests"):
		return &TransportError{StatusCode: 429, Kind: KindRateLimited, Err: err}
	case strings.Contains(errStr, "401") || strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "invalid api key"):
		return &TransportError{StatusCode: 401, Kind: KindUnauthorized, Err: err}
	default:
		return &TransportError{Kind: KindServer, Err: err}
	}
}

func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		panic(err)
	}
	ensureOpenAICompliance(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ensureOpenAICompliance rewrites a reflected schema so it passes OpenAI's
// strict structured-output validation: every object closes
// additionalProperties and lists all its properties as required.
func ensureOpenAICompliance(schema map[string]interface{}) {
	if schemaType, ok := schema["type"].(string); ok && schemaType == "object" {
		schema["additionalProperties"] = false
		if properties, ok := schema["properties"].(map[string]interface{}); ok {
			var requiredFields []string
			for propName := range properties {
				requiredFields = append(requiredFields, propName)
			}
			if len(requiredFields) > 0 {
				schema["required"] = requiredFields
			}
		}
	}

	if properties, ok := schema["properties"].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				ensureOpenAICompliance(propMap)
			}
		}
	}
	if items, ok := schema["items"].(map[string]interface{}); ok {
		ensureOpenAICompliance(items)
	}
}
