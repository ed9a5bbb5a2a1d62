// Package reasoner provides the claim reasoners: an OpenAI-compatible chat
// completions client and a rule-based fallback for when no usable credential
// is configured.
package reasoner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/ports"
	"github.com/0xcro3dile/claimcheck-go/internal/infrastructure/logging"
)

const (
	DefaultBaseURL = "https://api.perplexity.ai"
	DefaultModel   = "sonar"
	DefaultTimeout = 60 * time.Second
)

// ChatConfig configures a ChatReasoner.
type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ChatReasoner implements ports.ClaimReasoner against a chat completions API.
type ChatReasoner struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  logging.Logger
}

// NewChatReasoner creates a chat reasoner, filling unset fields with defaults.
func NewChatReasoner(cfg ChatConfig, logger logging.Logger) *ChatReasoner {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ChatReasoner{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("reasoner.chat"),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Name implements ports.ClaimReasoner.
func (c *ChatReasoner) Name() string {
	return "chat/" + c.model
}

// Reason sends the prompt and returns the first choice's content.
func (c *ChatReasoner) Reason(ctx context.Context, req ports.ReasoningRequest) (*ports.ReasoningResponse, error) {
	model := c.model
	if req.Model != "" {
		model = req.Model
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		Stream:      false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrReasonerTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", entities.ErrReasonerTransport, err)
	}

	c.logger.Debug("chat completion finished",
		logging.String("model", model),
		logging.Int("status", resp.StatusCode),
		logging.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &entities.ReasonerHTTPError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from chat completions API")
	}

	return &ports.ReasoningResponse{Content: chatResp.Choices[0].Message.Content}, nil
}
