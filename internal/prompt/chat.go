package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Shamsear/typevelocity/internal/model"
)

// PlaceholderAPIKey is the unset value shipped in sample configs.
const PlaceholderAPIKey = "YOUR_OPENAI_API_KEY"

const systemMessage = "You are a typing challenge generator. Create concise, interesting text for typing practice. Respond with ONLY the text to type, no additional commentary."

var (
	// ErrNoAPIKey is returned when no usable key is configured.
	ErrNoAPIKey = errors.New("no API key configured")
	// ErrEmptyCompletion is returned when the response carries no text.
	ErrEmptyCompletion = errors.New("completion response has no content")
)

// Category is a theme the chat source asks for.
type Category struct {
	Name    string
	Request string
}

// Categories are picked at random for each dynamic prompt.
var Categories = []Category{
	{Name: "Inspirational Quotes", Request: "Generate a short inspirational quote about perseverance and success (30-50 words)"},
	{Name: "Tech Facts", Request: "Create a short interesting fact about technology or computing (30-50 words)"},
	{Name: "Typing Tips", Request: "Write a short tip for improving typing speed and accuracy (30-50 words)"},
	{Name: "Programming Wisdom", Request: "Share a brief insight about programming best practices (30-50 words)"},
	{Name: "Digital Productivity", Request: "Provide a short tip about digital productivity and focus (30-50 words)"},
	{Name: "Internet History", Request: "Write a brief interesting fact about the history of the internet (30-50 words)"},
	{Name: "Future Technology", Request: "Describe a potential future technology in a brief paragraph (30-50 words)"},
}

// DifficultyModifier adjusts vocabulary to the player's level.
func DifficultyModifier(level int) string {
	switch {
	case level <= 3:
		return "Keep it simple with basic vocabulary."
	case level <= 7:
		return "Use moderate vocabulary."
	default:
		return "Use advanced vocabulary and complex sentence structures."
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// ChatClient requests prompts from a chat-completions endpoint.
type ChatClient struct {
	cfg  model.APIConfig
	http *http.Client
	rnd  *rand.Rand
}

// NewChatClient returns a client for cfg. A nil httpClient uses one with
// cfg.Timeout.
func NewChatClient(cfg model.APIConfig, httpClient *http.Client, rnd *rand.Rand) *ChatClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &ChatClient{cfg: cfg, http: httpClient, rnd: rnd}
}

// Name implements Source.
func (c *ChatClient) Name() string { return "dynamic" }

// Prompt implements Source.
func (c *ChatClient) Prompt(ctx context.Context, level int) (string, error) {
	category := Categories[c.rnd.Intn(len(Categories))]
	return c.Complete(ctx, fmt.Sprintf("%s. %s", category.Request, DifficultyModifier(level)))
}

// Complete sends one user message and returns the trimmed reply.
func (c *ChatClient) Complete(ctx context.Context, userMessage string) (string, error) {
	key := strings.TrimSpace(c.cfg.APIKey)
	if key == "" || key == PlaceholderAPIKey {
		return "", ErrNoAPIKey
	}
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: userMessage},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort close of response body.
			_ = cerr
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("chat request failed with status %d", resp.StatusCode)
	}
	content := strings.TrimSpace(gjson.GetBytes(data, "choices.0.message.content").String())
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}
