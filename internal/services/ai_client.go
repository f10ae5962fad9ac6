package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/utils"
)

// AIClient is the single outbound contract of the generation pipeline: one
// prompt in, raw model text out. No streaming, no structured-output mode.
type AIClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type aiClient struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewAIClient(log *logger.Logger) (AIClient, error) {
	serviceLog := log.With("service", "AIClient")
	apiKey := utils.GetEnv("AI_API_KEY", "", nil)
	if apiKey == "" {
		return nil, apierr.Configuration(fmt.Errorf("AI_API_KEY is not set"))
	}
	baseURL := utils.GetEnv("AI_BASE_URL", "https://api.openai.com", log)
	model := utils.GetEnv("AI_MODEL", "gpt-4o-mini", log)
	timeoutSec := utils.GetEnvAsInt("AI_TIMEOUT_SECONDS", 60, log)

	return &aiClient{
		log:        serviceLog,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
	}, nil
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateText performs exactly one provider call. Retry lives in the
// pipeline, which owns the budget and the failure classification.
func (c *aiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The status code and body text drive retryability and the
		// user-facing category downstream, so both stay in the message.
		return "", fmt.Errorf("ai provider http %d: %s", resp.StatusCode, string(raw))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("ai provider decode error: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("ai provider returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
