package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/BTreeMap/CareRoute/internal/models"
)

// DefaultTimeout bounds each external classification call. On expiry the
// coordinator falls back to the keyword classifier.
const DefaultTimeout = 5 * time.Second

const systemPrompt = `Eres un clasificador médico para un asistente de salud.
Clasifica el mensaje del paciente y responde SOLO con JSON:
{"specialty": "diabetes|obesity|general|emergency", "urgency": "low|medium|high|critical", "confidence": 0.0-1.0, "reasoning": "...", "keywords": ["..."]}
Usa "emergency" y "critical" ante cualquier señal de emergencia médica
(dolor de pecho, dificultad para respirar, pérdida de conciencia,
hipoglucemia severa).`

// completionService is the slice of the OpenAI client we depend on.
type completionService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIOpts holds configuration for the OpenAI classifier.
type OpenAIOpts struct {
	APIKey  string
	Model   openai.ChatModel
	Timeout time.Duration
}

// OpenAIOption configures the OpenAI classifier.
type OpenAIOption func(*OpenAIOpts)

// WithAPIKey sets the API key.
func WithAPIKey(key string) OpenAIOption {
	return func(o *OpenAIOpts) { o.APIKey = key }
}

// WithModel overrides the chat model.
func WithModel(model openai.ChatModel) OpenAIOption {
	return func(o *OpenAIOpts) { o.Model = model }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) OpenAIOption {
	return func(o *OpenAIOpts) { o.Timeout = d }
}

// OpenAI is the external model-backed classifier.
type OpenAI struct {
	completions completionService
	model       openai.ChatModel
	timeout     time.Duration
}

// NewOpenAI creates the OpenAI classifier. The API key is required.
func NewOpenAI(opts ...OpenAIOption) (*OpenAI, error) {
	cfg := OpenAIOpts{
		Model:   openai.ChatModelGPT4oMini,
		Timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai classifier: API key not set")
	}
	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &OpenAI{
		completions: &client.Chat.Completions,
		model:       cfg.Model,
		timeout:     cfg.Timeout,
	}, nil
}

// Classify sends the input to the model and parses the structured response.
// Any transport error, timeout, or unparsable payload is returned as an
// error so the caller can fall back.
func (c *OpenAI) Classify(ctx context.Context, input string, patient models.PatientContext) (models.ClassificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	userPrompt := buildUserPrompt(input, patient)
	resp, err := c.completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		slog.Error("OpenAI classification failed", "error", err)
		return models.ClassificationResult{}, fmt.Errorf("openai classification: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.ClassificationResult{}, fmt.Errorf("openai classification: no choices returned")
	}

	result, err := ParseClassification(resp.Choices[0].Message.Content)
	if err != nil {
		slog.Error("OpenAI classification unparsable", "error", err)
		return models.ClassificationResult{}, err
	}
	slog.Debug("OpenAI classification succeeded", "specialty", result.Specialty, "urgency", result.Urgency, "confidence", result.Confidence)
	return result, nil
}

func buildUserPrompt(input string, patient models.PatientContext) string {
	var b strings.Builder
	b.WriteString("Mensaje del paciente: ")
	b.WriteString(input)
	if patient.IsKnown() {
		fmt.Fprintf(&b, "\nPlan: %s (%s)", patient.Plan, patient.PlanStatus)
	}
	return b.String()
}

// ParseClassification extracts a classification from model output. Models
// sometimes wrap JSON in prose or markdown fences, so parsing tries the raw
// payload first and then the first balanced JSON object found in the text.
func ParseClassification(raw string) (models.ClassificationResult, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var result models.ClassificationResult
	if err := json.Unmarshal([]byte(trimmed), &result); err == nil {
		return result.Normalize(), nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &result); err == nil {
			return result.Normalize(), nil
		}
	}
	return models.ClassificationResult{}, fmt.Errorf("unparsable classification payload")
}
