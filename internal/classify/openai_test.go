package classify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/BTreeMap/CareRoute/internal/models"
)

// fakeCompletions stubs the OpenAI completion service.
type fakeCompletions struct {
	content string
	err     error
	delay   time.Duration
}

func (f *fakeCompletions) New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func newTestOpenAI(fake *fakeCompletions, timeout time.Duration) *OpenAI {
	return &OpenAI{completions: fake, model: openai.ChatModelGPT4oMini, timeout: timeout}
}

func TestOpenAIClassifySuccess(t *testing.T) {
	fake := &fakeCompletions{content: `{"specialty": "diabetes", "urgency": "high", "confidence": 0.9}`}
	c := newTestOpenAI(fake, DefaultTimeout)

	result, err := c.Classify(context.Background(), "mi glucosa salió en 250", models.PatientContext{Plan: models.PlanPro, PlanStatus: models.PlanStatusActive})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Specialty != models.SpecialtyDiabetes || result.Urgency != models.UrgencyHigh {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestOpenAIClassifyTransportError(t *testing.T) {
	fake := &fakeCompletions{err: errors.New("connection refused")}
	c := newTestOpenAI(fake, DefaultTimeout)

	if _, err := c.Classify(context.Background(), "hola", models.PatientContext{}); err == nil {
		t.Error("expected error on transport failure")
	}
}

func TestOpenAIClassifyTimeout(t *testing.T) {
	fake := &fakeCompletions{content: `{}`, delay: 200 * time.Millisecond}
	c := newTestOpenAI(fake, 10*time.Millisecond)

	_, err := c.Classify(context.Background(), "¿puedo comer fruta?", models.PatientContext{})
	if err == nil {
		t.Error("expected timeout error")
	}
}

func TestOpenAIClassifyUnparsable(t *testing.T) {
	fake := &fakeCompletions{content: "no puedo clasificar este mensaje"}
	c := newTestOpenAI(fake, DefaultTimeout)

	if _, err := c.Classify(context.Background(), "hola", models.PatientContext{}); err == nil {
		t.Error("expected error on unparsable payload")
	}
}

func TestNewOpenAIRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAI(); err == nil {
		t.Error("expected error when API key is missing")
	}
}
