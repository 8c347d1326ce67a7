package synth

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	DefaultModel   = "gemini-2.5-flash-preview-tts"
	DefaultVoice   = "Kore"
	DefaultTimeout = 30 * time.Second
)

// Synthesizer turns a word into an encoded sound effect.
type Synthesizer interface {
	Synthesize(ctx context.Context, word string) Result
}

// Config configures the remote client.
type Config struct {
	APIKey  string
	BaseURL string // Overrides the service endpoint, used by tests

	Model   string
	Voice   string
	Timeout time.Duration // Per-call limit, 0 for none

	// RequestsPerMinute throttles calls on the client side. 0 disables it.
	RequestsPerMinute int
}

// DefaultConfig returns the default client configuration without an API key.
func DefaultConfig() Config {
	return Config{
		Model:   DefaultModel,
		Voice:   DefaultVoice,
		Timeout: DefaultTimeout,
	}
}

// Client calls the Gemini text-to-speech model.
type Client struct {
	client  *genai.Client
	config  Config
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewClient creates a client. It does not contact the service.
func NewClient(ctx context.Context, config Config, logger *log.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Voice == "" {
		config.Voice = DefaultVoice
	}
	if logger == nil {
		logger = log.Default()
	}

	cc := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client:  client,
		config:  config,
		limiter: newLimiter(config.RequestsPerMinute),
		logger:  logger.WithPrefix("synth"),
	}, nil
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// Prompt builds the instruction sent for word.
func Prompt(word string) string {
	return fmt.Sprintf("Make a vivid and accurate sound effect for the onomatopoeia word: \"%s\". "+
		"If it's an animal, make that animal sound. "+
		"If it's a collision, make a crashing sound. "+
		"Otherwise make the most fitting sound effect. "+
		"Just the sound effect, no talking.", word)
}

// Synthesize makes exactly one call to the service.
func (c *Client) Synthesize(ctx context.Context, word string) Result {
	if err := c.limiter.Wait(ctx); err != nil {
		return Failure(err)
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromText(Prompt(word), genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: c.config.Voice,
				},
			},
		},
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.config.Model, contents, config)
	if err != nil {
		result := Failure(err)
		c.logger.Debug("synthesis failed", "word", word, "kind", result.Err.Kind, "code", result.Err.Code, "err", err)
		return result
	}

	data := inlineAudio(resp)
	if len(data) == 0 {
		c.logger.Debug("synthesis returned no audio", "word", word)
		return Empty()
	}

	c.logger.Debug("synthesis complete", "word", word, "bytes", len(data), "took", time.Since(start).Round(time.Millisecond))
	return Success(base64.StdEncoding.EncodeToString(data))
}

// inlineAudio returns the first candidate's first part's inline data, or nil.
func inlineAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return nil
	}
	if blob := content.Parts[0].InlineData; blob != nil {
		return blob.Data
	}
	return nil
}

// Limit returns the configured client-side limit in requests per minute, or
// +Inf when unthrottled.
func (c *Client) Limit() float64 {
	if c.limiter.Limit() == rate.Inf {
		return math.Inf(1)
	}
	return float64(c.limiter.Limit()) * 60
}
