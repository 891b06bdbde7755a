// Package ai wraps the external inference service used to categorize and
// summarize complaints. Both operations are pure request/response; nothing
// is cached or persisted here.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/campuscare/campus-care-backend/pkg/models"
)

var ErrNotConfigured = errors.New("inference service not configured")

type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewClient builds a client against an OpenAI-compatible chat completions API.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

/* ============================ Wire types ================================ */

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// Content is a plain string for text-only prompts, or a slice of content
// parts when an image is attached.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

/* ============================ Operations ================================ */

type CategorizeInput struct {
	Title        string
	Description  string
	Location     string
	ImageDataURI string // optional
}

type CategorizeResult struct {
	Category   models.ComplaintCategory `json:"category"`
	Confidence float64                  `json:"confidence"`
}

// Categorize asks the model to pick one of the fixed complaint categories.
// The result is validated against the enum and the [0,1] confidence range.
func (c *Client) Categorize(ctx context.Context, in CategorizeInput) (*CategorizeResult, error) {
	prompt := fmt.Sprintf(`You are an AI assistant that categorizes campus complaints.

Based on the title, description, location and attached image (if any), determine the most appropriate category.

The possible categories are: Maintenance, Cleanliness, Safety, Water, Electricity, Other.

Title: %s
Description: %s
Location: %s

Respond with JSON only (no markdown, no code fences): {"category": "<one of the categories>", "confidence": <float 0-1>}`,
		in.Title, in.Description, in.Location)

	userContent := any(prompt)
	if in.ImageDataURI != "" {
		userContent = []contentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &imageURL{URL: in.ImageDataURI}},
		}
	}

	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: "You are a complaint categorizer that returns only valid JSON objects."},
		{Role: "user", Content: userContent},
	})
	if err != nil {
		return nil, err
	}

	var out CategorizeResult
	if err := json.Unmarshal([]byte(cleanJSONContent(content)), &out); err != nil {
		return nil, fmt.Errorf("failed to parse categorization: %w", err)
	}
	if !models.ValidCategory(string(out.Category)) {
		return nil, fmt.Errorf("model returned unknown category %q", out.Category)
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		return nil, fmt.Errorf("model returned confidence %v out of range", out.Confidence)
	}
	return &out, nil
}

type SummarizeInput struct {
	Title       string
	Description string
	Category    string
	Location    string
}

// Summarize produces a short admin-facing summary of a complaint.
func (c *Client) Summarize(ctx context.Context, in SummarizeInput) (string, error) {
	prompt := fmt.Sprintf(`You are an AI assistant helping admins quickly understand complaints.

Given the details of a complaint, generate a concise summary that highlights the key issue.

Title: %s
Description: %s
Category: %s
Location: %s

Respond with the summary text only.`,
		in.Title, in.Description, in.Category, in.Location)

	content, err := c.complete(ctx, []chatMessage{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

/* ============================ Transport ================================= */

func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	reqBody, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.2,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call inference service: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(httpResp.Body)
		return "", fmt.Errorf("inference service error (status %d): %s", httpResp.StatusCode, string(bodyBytes))
	}

	var resp chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from inference service")
	}
	return resp.Choices[0].Message.Content, nil
}

// cleanJSONContent strips markdown code fences some models wrap around JSON.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) > 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}
	return strings.TrimSpace(content)
}
