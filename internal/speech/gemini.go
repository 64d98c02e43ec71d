package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/hammamikhairi/focuscue/internal/domain"
	"github.com/hammamikhairi/focuscue/internal/logger"
)

// Compile-time interface check.
var _ domain.SpeechGenerator = (*GeminiClient)(nil)

// contentGenerator is the slice of *genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiOption configures the Gemini TTS client.
type GeminiOption func(*GeminiClient)

// WithModel sets the TTS model.
func WithModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithPromptTemplate sets the fmt template the text is wrapped in. It must
// contain exactly one %s.
func WithPromptTemplate(tmpl string) GeminiOption {
	return func(c *GeminiClient) {
		if strings.Count(tmpl, "%s") == 1 {
			c.prompt = tmpl
		}
	}
}

// GeminiClient synthesizes speech through the Gemini API.
type GeminiClient struct {
	models contentGenerator
	model  string
	prompt string
	log    *logger.Logger
}

// NewGeminiClient creates a TTS client authenticated with apiKey.
func NewGeminiClient(ctx context.Context, apiKey string, log *logger.Logger, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %s is not set", EnvGeminiAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return newGeminiClient(client.Models, log, opts...), nil
}

func newGeminiClient(models contentGenerator, log *logger.Logger, opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		models: models,
		model:  DefaultModel,
		prompt: DefaultPromptTemplate,
		log:    log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate asks the model to read text aloud in the given prebuilt voice
// and returns the audio as base64-encoded 16-bit PCM.
func (c *GeminiClient) Generate(ctx context.Context, text, voice string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyText
	}

	c.log.Debug("gemini tts: synthesizing %d chars with voice %s", len(text), voice)

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(fmt.Sprintf(c.prompt, text)), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("tts request failed: %w", err)
	}

	audio := firstInlineData(resp)
	if len(audio) == 0 {
		c.log.Warn("gemini tts: response carried no audio for %q", truncate(text, 40))
		return "", domain.ErrNoAudio
	}

	c.log.Debug("gemini tts: got %d bytes of audio", len(audio))
	return base64.StdEncoding.EncodeToString(audio), nil
}

// firstInlineData returns the first part of the first candidate that
// carries inline data. The model sometimes leads with a text part.
func firstInlineData(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return nil
	}
	for _, part := range content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data
		}
	}
	return nil
}
